package roles

// Role representa el nivel de permisos de un usuario del banco de
// herramientas.
type Role string

const (
	Instructor  Role = "instructor"
	Almacen     Role = "almacen"
	Coordinador Role = "coordinador"
	Admin       Role = "admin"
)

// HierarchyLevel determina el nivel en la jerarquía de roles
type HierarchyLevel int

const (
	InstructorLevel  HierarchyLevel = 1
	AlmacenLevel     HierarchyLevel = 2
	CoordinadorLevel HierarchyLevel = 3
	AdminLevel       HierarchyLevel = 4
)

// GetHierarchyLevel devuelve el nivel jerárquico del rol
func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Instructor:
		return InstructorLevel
	case Almacen:
		return AlmacenLevel
	case Coordinador:
		return CoordinadorLevel
	case Admin:
		return AdminLevel
	default:
		return InstructorLevel
	}
}

// All lista los roles en orden jerárquico ascendente.
func All() []Role {
	return []Role{Instructor, Almacen, Coordinador, Admin}
}

// HasPermission verifica si el rol cubre el rol requerido
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

// IsValid verifica si el rol existe
func (r Role) IsValid() bool {
	switch r {
	case Instructor, Almacen, Coordinador, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

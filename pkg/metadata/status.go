package metadata

import "fmt"

// Statuses are stored under their Spanish names, the values the frontend
// already renders. They are parsed into typed constants at the persistence
// boundary and never handled as raw lookup-table ids.

type ProductStatus string

const (
	ProductActive   ProductStatus = "ACTIVO"
	ProductDepleted ProductStatus = "AGOTADO"
)

// DepletionThreshold is the business low-water mark: a product holding this
// many units or fewer counts as depleted.
const DepletionThreshold = 2

func (s ProductStatus) String() string {
	return string(s)
}

// ProductStatusFor derives the product status from its current quantity.
func ProductStatusFor(quantity int) ProductStatus {
	if quantity <= DepletionThreshold {
		return ProductDepleted
	}
	return ProductActive
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDIENTE"
	OrderInProcess OrderStatus = "EN PROCESO"
	OrderDelivered OrderStatus = "ENTREGADO"
	OrderReturned  OrderStatus = "DEVUELTO"
)

func NewOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid order status: %s", value)
	}
	return status, nil
}

func (s OrderStatus) isValid() bool {
	switch s {
	case OrderPending, OrderInProcess, OrderDelivered, OrderReturned:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	return string(s)
}

type ToolStatus string

const (
	ToolAvailable ToolStatus = "ACTIVO"
	ToolInUse     ToolStatus = "EN USO"
	ToolInactive  ToolStatus = "INACTIVO"
)

func (s ToolStatus) String() string {
	return string(s)
}

type ToolCondition string

const (
	ConditionGood    ToolCondition = "BUENO"
	ConditionRegular ToolCondition = "REGULAR"
	ConditionBad     ToolCondition = "MALO"
)

func NewToolCondition(value string) (ToolCondition, error) {
	condition := ToolCondition(value)
	switch condition {
	case ConditionGood, ConditionRegular, ConditionBad:
		return condition, nil
	default:
		return "", fmt.Errorf(
			"invalid tool condition: %s, valid values are: %s, %s, %s",
			value, ConditionGood, ConditionRegular, ConditionBad,
		)
	}
}

// ToolStatusForCondition ties the tool status to its physical condition:
// a tool in bad shape is taken out of circulation.
func ToolStatusForCondition(condition ToolCondition) ToolStatus {
	if condition == ConditionBad {
		return ToolInactive
	}
	return ToolAvailable
}

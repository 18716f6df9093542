package models

import "time"

// Notification is a broadcast event visible to every active user until it
// expires. Read state is tracked per user.
type Notification struct {
	ID        int       `json:"id" db:"id"`
	ActorID   *int      `json:"actor_id" db:"actor_id"`
	ActorName *string   `json:"actor,omitempty" db:"actor"`
	Action    string    `json:"tipo_accion" db:"tipo_accion"`
	Message   string    `json:"mensaje" db:"mensaje"`
	ExpiresAt time.Time `json:"expira_en" db:"expira_en"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Read      bool      `json:"leida" db:"leida"`
}

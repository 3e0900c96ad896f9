package notification

import "time"

// EntityType identifies what a notification points at
type EntityType string

const (
	EntityTypeGroup      EntityType = "GROUP"
	EntityTypeExpense    EntityType = "EXPENSE"
	EntityTypeSplit      EntityType = "SPLIT"
	EntityTypeSettlement EntityType = "SETTLEMENT"
)

// Notification represents an in-app notification
type Notification struct {
	ID          int64       `json:"id"`
	RecipientID int64       `json:"recipient_id"`
	Message     string      `json:"message"`
	IsRead      bool        `json:"is_read"`
	EntityType  *EntityType `json:"related_entity_type,omitempty"`
	EntityID    *int64      `json:"related_entity_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

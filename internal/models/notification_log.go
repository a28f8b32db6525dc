package models

import (
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// DeliveryStatus is the final state of one dispatched message
type DeliveryStatus string

const (
	DeliverySent       DeliveryStatus = "sent"
	DeliveryFailed     DeliveryStatus = "failed"
	DeliverySuppressed DeliveryStatus = "suppressed"
)

// NotificationLog records one dispatch outcome
type NotificationLog struct {
	ID        types.NotificationLogID `json:"id"`
	Recipient string                  `json:"recipient"`
	Category  Category                `json:"category"`
	Subject   string                  `json:"subject"`
	Status    DeliveryStatus          `json:"status"`
	Error     string                  `json:"error,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

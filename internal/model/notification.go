package model

import "time"

// Notification is one overdue reminder. A single notification can cover
// several tasks that went overdue in the same scan.
type Notification struct {
	ID        string    `json:"id"`
	TaskIDs   []int64   `json:"taskIds"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

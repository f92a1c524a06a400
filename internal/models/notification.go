package models

import "time"

type Notification struct {
	ID        int64     `json:"id"`
	AdminID   int64     `json:"adminId"`
	OrderID   int64     `json:"orderId"`
	Message   string    `json:"message"`
	Read      bool      `json:"readStatus"`
	CreatedAt time.Time `json:"createdAt"`
}

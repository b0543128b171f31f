package model

import "time"

// OrderStatus is the fulfilment state of a scooter order.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Order is a scooter purchase tracked for the order-status resolver.
type Order struct {
	ID                   string      `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID              string      `gorm:"index;not null;type:uuid" json:"owner_id"`
	ModelName            string      `gorm:"type:varchar(128);not null" json:"model_name"`
	Status               OrderStatus `gorm:"type:varchar(32);not null" json:"status"`
	ExpectedDeliveryDate *time.Time  `json:"expected_delivery_date,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
}

// TableName maps orders onto the orders collection.
func (Order) TableName() string { return "orders" }

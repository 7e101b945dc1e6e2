package models

import "time"

// Order represents a customer order.
// TotalAmount is derived from the item snapshots plus shipping and
// packaging, and is owned by the total aggregation queries.
type Order struct {
	ID            int64     `json:"id"`
	Status        string    `json:"status"` // new, confirmed, shipped, canceled
	CustomerName  string    `json:"customerName,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	ShippingCost  int64     `json:"shippingCost"`
	PackagingCost int64     `json:"packagingCost"`
	TotalAmount   int64     `json:"totalAmount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// OrderItem represents one line of an order. UnitPrice and UnitCost are
// snapshots taken when the item was added; later catalog changes never
// touch them.
type OrderItem struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"orderId"`
	ProductID int64     `json:"productId"`
	UnitPrice int64     `json:"unitPrice"`
	UnitCost  int64     `json:"unitCost"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	// Product details (populated when joining with products table)
	ProductName string `json:"productName,omitempty"`
}

// CreateOrderRequest represents the request body for creating an order
// Example: {"customerName": "Chị Lan", "customerPhone": "+84901234567", "shippingCost": 25000, "packagingCost": 5000}
type CreateOrderRequest struct {
	CustomerName  string `json:"customerName,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	ShippingCost  int64  `json:"shippingCost"`
	PackagingCost int64  `json:"packagingCost"`
}

// AddOrderItemRequest represents the request body for adding an item to an order
// Example: {"productId": 7, "quantity": 2}
type AddOrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderTotalResponse returns the recomputed total after an item or charge mutation
// Example response: {"orderId": 12, "totalAmount": 185000}
type OrderTotalResponse struct {
	OrderID     int64 `json:"orderId"`
	TotalAmount int64 `json:"totalAmount"`
}

// UpdateOrderChargesRequest represents the request body for updating shipping/packaging
// Example: {"shippingCost": 30000, "packagingCost": 5000}
type UpdateOrderChargesRequest struct {
	ShippingCost  int64 `json:"shippingCost"`
	PackagingCost int64 `json:"packagingCost"`
}

// OrderExportResponse reports a completed export to Google Sheets
// Example response: {"exportedCount": 14, "updatedRange": "Orders!A15:H28"}
type OrderExportResponse struct {
	ExportedCount int    `json:"exportedCount"`
	UpdatedRange  string `json:"updatedRange,omitempty"`
}

// OrderResponse represents an order with its items
type OrderResponse struct {
	Order
	Items []OrderItem `json:"items"`
}

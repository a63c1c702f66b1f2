package transport

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type CreateCanteenRequest struct {
	Name                  string `json:"name"`
	Location              string `json:"location"`
	Description           string `json:"description"`
	ImageURL              string `json:"image_url"`
	IsOpen                bool   `json:"is_open"`
	IsOnlineOrdersEnabled bool   `json:"is_online_orders_enabled"`
	MaxBulkSize           uint   `json:"max_bulk_size"`
}

type UpdateCanteenRequest struct {
	Name                  *string `json:"name"`
	Location              *string `json:"location"`
	Description           *string `json:"description"`
	ImageURL              *string `json:"image_url"`
	IsOpen                *bool   `json:"is_open"`
	IsOnlineOrdersEnabled *bool   `json:"is_online_orders_enabled"`
	MaxBulkSize           *uint   `json:"max_bulk_size"`
}

type CreateMenuItemRequest struct {
	CanteenID   uint    `json:"canteen_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsAvailable *bool   `json:"is_available"`
	IsVeg       *bool   `json:"is_veg"`
	ImageURL    string  `json:"image_url"`
}

type UpdateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	IsAvailable *bool    `json:"is_available"`
	IsVeg       *bool    `json:"is_veg"`
	ImageURL    *string  `json:"image_url"`
}

type CreateOrderItem struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   uint `json:"quantity"`
}

type CreateOrderRequest struct {
	CanteenID           uint              `json:"canteen_id"`
	Items               []CreateOrderItem `json:"items"`
	SpecialInstructions string            `json:"special_instructions"`
}

type CompleteOrderRequest struct {
	PickupCode string `json:"pickup_code"`
}

type InitiatePaymentRequest struct {
	OrderID uint `json:"order_id"`
}

type PaymentWebhookRequest struct {
	OrderID       uint   `json:"order_id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

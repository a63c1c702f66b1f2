package models

import (
	"time"
)

// Roles known to the system. Only students self-register; canteen staff
// accounts are provisioned when an admin creates a canteen.
const (
	RoleStudent = "STUDENT"
	RoleCanteen = "CANTEEN"
	RoleAdmin   = "ADMIN"
)

// Order lifecycle statuses. Transitions are monotonic; CANCELLED and FAILED
// are terminal.
const (
	OrderCreated   = "CREATED"
	OrderPaid      = "PAID"
	OrderAccepted  = "ACCEPTED"
	OrderPreparing = "PREPARING"
	OrderReady     = "READY"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
	OrderFailed    = "FAILED"
)

const (
	PaymentPending = "PENDING"
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null"                 json:"role"`
	CanteenID    *uint     `gorm:"index"                    json:"canteen_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Canteen struct {
	ID                    uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                  string    `gorm:"not null"                 json:"name"`
	Location              string    `json:"location"`
	Description           string    `json:"description"`
	ImageURL              string    `json:"image_url"`
	IsOpen                bool      `gorm:"default:false"            json:"is_open"`
	IsOnlineOrdersEnabled bool      `gorm:"default:false"            json:"is_online_orders_enabled"`
	MaxBulkSize           uint      `gorm:"default:50"               json:"max_bulk_size"`
	CreatedAt             time.Time `json:"created_at"`
}

type MenuItem struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CanteenID   uint      `gorm:"index;not null"           json:"canteen_id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Category    string    `gorm:"default:Snacks"           json:"category"`
	IsAvailable bool      `gorm:"default:true"             json:"is_available"`
	IsVeg       bool      `gorm:"default:true"             json:"is_veg"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderItem is an immutable snapshot of a menu item taken at order creation,
// so later menu edits never change historical orders.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID    uint    `gorm:"index;not null"            json:"order_id"`
	MenuItemID uint    `gorm:"not null"                  json:"menu_item_id"`
	Name       string  `gorm:"not null"                  json:"name"`
	Price      float64 `gorm:"not null"                  json:"price"`
	Quantity   uint    `gorm:"not null;check:quantity>0" json:"quantity"`
	IsVeg      bool    `json:"is_veg"`
}

type Order struct {
	ID                  uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              uint        `gorm:"index;not null"           json:"user_id"`
	CanteenID           uint        `gorm:"index;not null"           json:"canteen_id"`
	Items               []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
	TotalAmount         float64     `gorm:"not null"                 json:"total_amount"`
	TotalQuantity       uint        `gorm:"not null"                 json:"total_quantity"`
	IsBulkOrder         bool        `gorm:"default:false"            json:"is_bulk_order"`
	SpecialInstructions string      `json:"special_instructions"`
	Status              string      `gorm:"index;not null"           json:"status"`
	PickupCode          *string     `json:"pickup_code,omitempty"`
	PickupCodeUsed      bool        `gorm:"default:false"            json:"pickup_code_used"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

type Payment struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       uint      `gorm:"index;not null"           json:"order_id"`
	UserID        uint      `gorm:"index;not null"           json:"user_id"`
	Provider      string    `gorm:"not null"                 json:"provider"`
	Amount        float64   `gorm:"not null"                 json:"amount"`
	Status        string    `gorm:"index;not null"           json:"status"`
	TransactionID *string   `json:"transaction_id,omitempty"`
	Details       string    `json:"details"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/khanadev/kms/internal/auth"
	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/repo"
	"github.com/khanadev/kms/internal/transport"
)

// OrderService owns the order lifecycle:
//
//	CREATED -> PAID -> ACCEPTED -> PREPARING -> READY -> COMPLETED
//
// with CANCELLED and FAILED as terminal states. Every transition is a
// compare-and-swap on the current status, so concurrent requests cannot move
// an order twice.
type OrderService struct {
	Repo *repo.GormRepo
}

// generatePickupCode returns a uniformly random 6-digit code (100000-999999).
func generatePickupCode() string {
	return fmt.Sprint(100000 + rand.IntN(900000))
}

// CreateOrder validates the canteen and every requested line item, snapshots
// item name/price/veg-flag into the order and computes the totals server-side.
// Any missing, unavailable or cross-canteen item fails the whole order.
func (s *OrderService) CreateOrder(ctx context.Context, p auth.Principal, req transport.CreateOrderRequest) (*models.Order, error) {
	canteen, err := s.Repo.GetCanteen(ctx, req.CanteenID)
	if err != nil {
		return nil, notFound(err, "canteen not found")
	}
	if !canteen.IsOpen {
		return nil, fmt.Errorf("%w: canteen is currently closed", ErrValidation)
	}
	if !canteen.IsOnlineOrdersEnabled {
		return nil, fmt.Errorf("%w: online orders are currently disabled for this canteen", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	var (
		totalAmount   float64
		totalQuantity uint
		items         []models.OrderItem
	)

	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}

		menuItem, err := s.Repo.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, notFound(err, fmt.Sprintf("menu item %d not found", line.MenuItemID))
		}
		if !menuItem.IsAvailable {
			return nil, fmt.Errorf("%w: %s is currently unavailable", ErrValidation, menuItem.Name)
		}
		if menuItem.CanteenID != req.CanteenID {
			return nil, fmt.Errorf("%w: %s does not belong to this canteen", ErrValidation, menuItem.Name)
		}

		totalAmount += menuItem.Price * float64(line.Quantity)
		totalQuantity += line.Quantity

		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   line.Quantity,
			IsVeg:      menuItem.IsVeg,
		})
	}

	order := &models.Order{
		UserID:              p.ID,
		CanteenID:           req.CanteenID,
		Items:               items,
		TotalAmount:         totalAmount,
		TotalQuantity:       totalQuantity,
		IsBulkOrder:         totalQuantity > canteen.MaxBulkSize,
		SpecialInstructions: req.SpecialInstructions,
		Status:              models.OrderCreated,
	}

	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, p auth.Principal, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order not found")
	}
	if !auth.CanViewOrder(p, order) {
		return nil, fmt.Errorf("%w: not authorized to view this order", ErrForbidden)
	}
	return order, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, p auth.Principal, offset, limit int) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, p.ID, offset, limit)
}

func (s *OrderService) ListAllOrders(ctx context.Context, p auth.Principal, status string, offset, limit int) ([]models.Order, error) {
	if !auth.HasRole(p, models.RoleAdmin) {
		return nil, fmt.Errorf("%w: not authorized to view all orders", ErrForbidden)
	}
	return s.Repo.ListOrders(ctx, status, offset, limit)
}

// ListCanteenOrders returns a canteen's order queue. Without an explicit
// status filter it shows only actionable orders, the way canteen staff see
// their board.
func (s *OrderService) ListCanteenOrders(ctx context.Context, p auth.Principal, canteenID uint, status string) ([]models.Order, error) {
	if !auth.CanActOnCanteen(p, canteenID) {
		return nil, fmt.Errorf("%w: not authorized to view orders for this canteen", ErrForbidden)
	}

	statuses := []string{models.OrderPaid, models.OrderAccepted, models.OrderPreparing, models.OrderReady}
	if status != "" {
		statuses = []string{status}
	}
	return s.Repo.ListOrdersByCanteen(ctx, canteenID, statuses)
}

// AcceptOrder moves PAID -> ACCEPTED.
func (s *OrderService) AcceptOrder(ctx context.Context, p auth.Principal, id uint) (*models.Order, error) {
	return s.staffTransition(ctx, p, id, models.OrderPaid, models.OrderAccepted,
		"only paid orders can be accepted", nil)
}

// PrepareOrder moves ACCEPTED -> PREPARING.
func (s *OrderService) PrepareOrder(ctx context.Context, p auth.Principal, id uint) (*models.Order, error) {
	return s.staffTransition(ctx, p, id, models.OrderAccepted, models.OrderPreparing,
		"only accepted orders can be marked as preparing", nil)
}

// ReadyOrder moves PREPARING -> READY. The pickup code is normally issued at
// the PAID transition; if it is somehow absent one is generated here, and an
// existing code is never regenerated.
func (s *OrderService) ReadyOrder(ctx context.Context, p auth.Principal, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order not found")
	}

	var extra map[string]any
	if order.PickupCode == nil {
		extra = map[string]any{"pickup_code": generatePickupCode()}
	}

	return s.staffTransition(ctx, p, id, models.OrderPreparing, models.OrderReady,
		"only preparing orders can be marked as ready", extra)
}

// CompleteOrder redeems the pickup code: the order must be READY, the code
// must match exactly and must not have been used before. The used flag flips
// in the same atomic update as the status change.
func (s *OrderService) CompleteOrder(ctx context.Context, p auth.Principal, id uint, pickupCode string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order not found")
	}
	if !auth.CanActOnCanteen(p, order.CanteenID) {
		return nil, fmt.Errorf("%w: not authorized to update this order", ErrForbidden)
	}
	if order.Status != models.OrderReady {
		return nil, fmt.Errorf("%w: only ready orders can be completed", ErrInvalidState)
	}
	if order.PickupCodeUsed {
		return nil, fmt.Errorf("%w: pickup code already used", ErrInvalidState)
	}
	if order.PickupCode == nil || *order.PickupCode != pickupCode {
		return nil, fmt.Errorf("%w: invalid pickup code", ErrValidation)
	}

	swapped, err := s.Repo.RedeemPickupCode(ctx, id)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, fmt.Errorf("%w: order was completed by another request", ErrInvalidState)
	}

	return s.Repo.GetOrder(ctx, id)
}

// CancelOrder is allowed for CREATED, PAID and ACCEPTED orders. Students may
// cancel only their own orders; canteen staff only orders of their canteen.
func (s *OrderService) CancelOrder(ctx context.Context, p auth.Principal, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order not found")
	}

	switch p.Role {
	case models.RoleAdmin:
	case models.RoleCanteen:
		if !auth.CanActOnCanteen(p, order.CanteenID) {
			return nil, fmt.Errorf("%w: not authorized to cancel this order", ErrForbidden)
		}
	default:
		if order.UserID != p.ID {
			return nil, fmt.Errorf("%w: not authorized to cancel this order", ErrForbidden)
		}
	}

	switch order.Status {
	case models.OrderCreated, models.OrderPaid, models.OrderAccepted:
	default:
		return nil, fmt.Errorf("%w: cannot cancel order at this stage", ErrInvalidState)
	}

	swapped, err := s.Repo.TransitionOrder(ctx, id, order.Status, map[string]any{"status": models.OrderCancelled})
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, fmt.Errorf("%w: cannot cancel order at this stage", ErrInvalidState)
	}

	return s.Repo.GetOrder(ctx, id)
}

// MarkPaid is driven by the payment engine on settlement success. It issues
// the pickup code exactly once, together with the CREATED -> PAID swap.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order not found")
	}

	updates := map[string]any{"status": models.OrderPaid}
	if order.PickupCode == nil {
		updates["pickup_code"] = generatePickupCode()
	}

	swapped, err := s.Repo.TransitionOrder(ctx, orderID, models.OrderCreated, updates)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, fmt.Errorf("%w: order is not in a payable state", ErrInvalidState)
	}

	return s.Repo.GetOrder(ctx, orderID)
}

// MarkFailed is driven by the payment engine on settlement failure.
func (s *OrderService) MarkFailed(ctx context.Context, orderID uint) (*models.Order, error) {
	swapped, err := s.Repo.TransitionOrder(ctx, orderID, models.OrderCreated, map[string]any{"status": models.OrderFailed})
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, fmt.Errorf("%w: order is not in a payable state", ErrInvalidState)
	}
	return s.Repo.GetOrder(ctx, orderID)
}

func (s *OrderService) staffTransition(ctx context.Context, p auth.Principal, id uint, from, to, stateMsg string, extra map[string]any) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order not found")
	}
	if !auth.CanActOnCanteen(p, order.CanteenID) {
		return nil, fmt.Errorf("%w: not authorized to update this order", ErrForbidden)
	}
	if order.Status != from {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, stateMsg)
	}

	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	swapped, err := s.Repo.TransitionOrder(ctx, id, from, updates)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, stateMsg)
	}

	return s.Repo.GetOrder(ctx, id)
}

package auth

import "github.com/khanadev/kms/internal/models"

// Principal is the authenticated caller, passed explicitly into every service
// call instead of living on request-scoped globals.
type Principal struct {
	ID        uint
	Role      string
	CanteenID *uint
}

// HasRole reports whether the principal holds one of the required roles.
func HasRole(p Principal, roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// CanActOnCanteen reports whether the principal may mutate data belonging to
// the given canteen. Admins bypass ownership; canteen staff are bound to their
// assigned canteen.
func CanActOnCanteen(p Principal, canteenID uint) bool {
	if p.Role == models.RoleAdmin {
		return true
	}
	return p.Role == models.RoleCanteen && p.CanteenID != nil && *p.CanteenID == canteenID
}

// CanViewOrder applies the ownership rule for reading an order: students see
// their own orders, canteen staff see their canteen's orders, admins see all.
func CanViewOrder(p Principal, order *models.Order) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCanteen:
		return p.CanteenID != nil && *p.CanteenID == order.CanteenID
	default:
		return order.UserID == p.ID
	}
}

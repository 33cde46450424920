package panels

import "food-delivery-client/models"

// PanelFor is the view router: a pure function of session state. No user
// means the login panel; otherwise the user's role picks exactly one panel,
// with a static fallback for roles this client does not know.
func PanelFor(deps Deps, source LocationSource) Panel {
	user := deps.Session.CurrentUser()
	if user == nil {
		return NewLoginPanel(deps)
	}
	switch user.UserType {
	case models.TypeCustomer:
		return NewCustomerPanel(deps)
	case models.TypeDriver:
		return NewDriverPanel(deps, source)
	case models.TypeRestaurant:
		return NewRestaurantPanel(deps)
	case models.TypeAdmin:
		return NewAdminPanel(deps)
	default:
		return &fallbackPanel{userType: user.UserType}
	}
}

package domain

var (
	MessageSuccessDownloadShoppingList = "shopping list generated"
	MessageFailedDownloadShoppingList  = "failed to generate shopping list"
)

// ShoppingListRow is one merged ingredient group of a user's shopping list:
// amounts of the same ingredient name summed across every recipe in the cart.
type ShoppingListRow struct {
	Name            string  `json:"name"`
	MeasurementUnit string  `json:"measurement_unit"`
	Amount          float64 `json:"amount"`
}

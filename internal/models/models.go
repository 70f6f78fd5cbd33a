package models

// Book is a catalog listing as the bookstore API returns it. Photo is a
// base64-encoded jpeg; the API owns the record, the storefront only reads it.
type Book struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	Author           string  `json:"author"`
	Category         string  `json:"category"`
	Description      string  `json:"description"`
	BuyPrice         float64 `json:"buyPrice"`
	RentalPrice      float64 `json:"rentalPrice"`
	AvailableForRent bool    `json:"availableForRent"`
	City             string  `json:"city"`
	PhoneNumber      string  `json:"phoneNumber"`
	Photo            string  `json:"photo,omitempty"`
}

// CartItem is a read-through copy of one cart row. Renting selects which
// price applies at checkout.
type CartItem struct {
	ID          uint    `json:"id"`
	BookID      uint    `json:"bookId"`
	BookName    string  `json:"bookName"`
	Author      string  `json:"author"`
	BuyPrice    float64 `json:"buyPrice"`
	RentalPrice float64 `json:"rentalPrice"`
	Renting     bool    `json:"renting"`
	Photo       string  `json:"photo,omitempty"`
}

// Price returns the amount this item contributes to the cart subtotal.
func (i CartItem) Price() float64 {
	if i.Renting {
		return i.RentalPrice
	}
	return i.BuyPrice
}

// SavedBook associates a user with a bookmarked catalog entry.
type SavedBook struct {
	ID     uint `json:"id"`
	BookID uint `json:"bookId"`
	UserID uint `json:"userId"`
}

// Activity is a fire-and-forget view-tracking event.
type Activity struct {
	EventID  string `json:"eventId"`
	Type     string `json:"type"`
	BookID   uint   `json:"bookId"`
	BookName string `json:"bookName"`
	City     string `json:"city,omitempty"`
}

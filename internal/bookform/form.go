// Package bookform turns raw submission input into the normalized book
// record the listing API expects.
package bookform

import (
	"fmt"

	"github.com/sobooked/storefront/internal/models"
	"github.com/sobooked/storefront/internal/textutil"
)

// Form is the raw add-book input before normalization.
type Form struct {
	Name        string
	Author      string
	Category    string
	City        string
	Description string
	PhoneNumber string
	BuyPrice    float64
	RentalPrice float64
}

// MissingFieldError reports the first absent required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Validate applies the required-field checks. Prices may be zero; whether
// the book can be rented follows from the rental price alone.
func (f *Form) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"name", f.Name},
		{"author", f.Author},
		{"category", f.Category},
		{"city", f.City},
		{"description", f.Description},
	}
	for _, r := range required {
		if r.value == "" {
			return &MissingFieldError{Field: r.name}
		}
	}
	return nil
}

// Record builds the normalized book record: title-cased name and author,
// per-word capitalized city, and availableForRent determined solely by
// rentalPrice > 0.
func (f *Form) Record() models.Book {
	return models.Book{
		Name:             textutil.Title(f.Name),
		Author:           textutil.Title(f.Author),
		Category:         f.Category,
		City:             textutil.CapitalizeWords(f.City),
		Description:      f.Description,
		PhoneNumber:      f.PhoneNumber,
		BuyPrice:         f.BuyPrice,
		RentalPrice:      f.RentalPrice,
		AvailableForRent: f.RentalPrice > 0,
	}
}

package models

import (
	"strings"
	"time"
)

// Bounds applied to every article quantity and adjustment delta
const (
	MaxAmount     = 100000000
	MaxNameLength = 50
)

// Article represents a stock record in the inventory
type Article struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Amount        int       `json:"amount" db:"amount"`
	MinimumAmount int       `json:"minimumAmount" db:"minimum_amount"`
	Unit          Unit      `json:"unit" db:"unit"`
	Category      Category  `json:"category" db:"category"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// IsLowStock reports whether the amount is at or below the reorder threshold
func (a *Article) IsLowStock() bool {
	return a.Amount <= a.MinimumAmount
}

// Unit is the unit of measure an article is counted in
type Unit string

const (
	UnitPieces      Unit = "PIECES"
	UnitGrams       Unit = "GRAMS"
	UnitKilograms   Unit = "KILOGRAMS"
	UnitMilliliters Unit = "MILLILITERS"
	UnitLiters      Unit = "LITERS"
	UnitMeters      Unit = "METERS"
	UnitPacks       Unit = "PACKS"
	UnitBoxes       Unit = "BOXES"
)

// Units lists every valid unit in display order
var Units = []Unit{
	UnitPieces, UnitGrams, UnitKilograms, UnitMilliliters,
	UnitLiters, UnitMeters, UnitPacks, UnitBoxes,
}

// ParseUnit resolves a case-insensitive unit token
func ParseUnit(s string) (Unit, bool) {
	u := Unit(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range Units {
		if u == valid {
			return u, true
		}
	}
	return "", false
}

// Category classifies an article
type Category string

const (
	CategoryMedical   Category = "MEDICAL"
	CategoryOffice    Category = "OFFICE"
	CategoryCleaning  Category = "CLEANING"
	CategoryHygiene   Category = "HYGIENE"
	CategoryFood      Category = "FOOD"
	CategoryTechnical Category = "TECHNICAL"
	CategoryOther     Category = "OTHER"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryMedical, CategoryOffice, CategoryCleaning, CategoryHygiene,
	CategoryFood, CategoryTechnical, CategoryOther,
}

// CategoryAll is the list filter token meaning "any category"
const CategoryAll = "ALL"

// ParseCategory resolves a case-insensitive category token
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range Categories {
		if c == valid {
			return c, true
		}
	}
	return "", false
}

func joinTokens[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// UnitNames returns the valid units as a comma separated list
func UnitNames() string { return joinTokens(Units) }

// CategoryNames returns the valid categories as a comma separated list
func CategoryNames() string { return joinTokens(Categories) }

package models

import "strings"

// SortField is an allow-listed article attribute usable as a sort key
type SortField string

const (
	SortByID            SortField = "id"
	SortByName          SortField = "name"
	SortByAmount        SortField = "amount"
	SortByMinimumAmount SortField = "minimumAmount"
	SortByUnit          SortField = "unit"
	SortByCategory      SortField = "category"
	SortByCreatedAt     SortField = "createdAt"
	SortByUpdatedAt     SortField = "updatedAt"
)

// sortColumns maps each sort key to its column in the articles table
var sortColumns = map[SortField]string{
	SortByID:            "id",
	SortByName:          "name",
	SortByAmount:        "amount",
	SortByMinimumAmount: "minimum_amount",
	SortByUnit:          "unit",
	SortByCategory:      "category",
	SortByCreatedAt:     "created_at",
	SortByUpdatedAt:     "updated_at",
}

// SortFields lists the accepted sort keys
var SortFields = []SortField{
	SortByID, SortByName, SortByAmount, SortByMinimumAmount,
	SortByUnit, SortByCategory, SortByCreatedAt, SortByUpdatedAt,
}

// ParseSortField resolves a sort token. Blank selects name.
func ParseSortField(s string) (SortField, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortByName, true
	}
	f := SortField(s)
	if _, ok := sortColumns[f]; ok {
		return f, true
	}
	// snake_case column names are accepted too
	for field, column := range sortColumns {
		if column == s {
			return field, true
		}
	}
	return "", false
}

// Column returns the database column for the sort key
func (f SortField) Column() string {
	if column, ok := sortColumns[f]; ok {
		return column
	}
	return sortColumns[SortByName]
}

// SortFieldNames returns the accepted sort keys as a comma separated list
func SortFieldNames() string { return joinTokens(SortFields) }

// SortDirection is the ordering applied to the sort key
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection resolves a case-insensitive direction. Blank selects asc.
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return SortAsc, true
	case "desc":
		return SortDesc, true
	default:
		return "", false
	}
}

// SQL returns the ORDER BY keyword
func (d SortDirection) SQL() string {
	if d == SortDesc {
		return "DESC"
	}
	return "ASC"
}

package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/inventory-api/internal/models"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func validCreate() *models.CreateArticleRequest {
	return &models.CreateArticleRequest{
		Name:          "Gauze",
		Amount:        intPtr(100),
		MinimumAmount: intPtr(10),
		Unit:          "PIECES",
		Category:      "MEDICAL",
	}
}

func fieldsOf(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestStruct_CreateArticleRequest(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(r *models.CreateArticleRequest)
		wantFields []string
		wantMsg    string
	}{
		{
			name:   "valid request",
			mutate: func(r *models.CreateArticleRequest) {},
		},
		{
			name:   "zero quantities are allowed",
			mutate: func(r *models.CreateArticleRequest) { r.Amount = intPtr(0); r.MinimumAmount = intPtr(0) },
		},
		{
			name:   "lower case enums are accepted",
			mutate: func(r *models.CreateArticleRequest) { r.Unit = "liters"; r.Category = "food" },
		},
		{
			name:       "missing name",
			mutate:     func(r *models.CreateArticleRequest) { r.Name = "" },
			wantFields: []string{"name"},
			wantMsg:    "name is required",
		},
		{
			name:       "blank name",
			mutate:     func(r *models.CreateArticleRequest) { r.Name = "   " },
			wantFields: []string{"name"},
			wantMsg:    "name must not be blank",
		},
		{
			name:       "name too long",
			mutate:     func(r *models.CreateArticleRequest) { r.Name = strings.Repeat("x", 51) },
			wantFields: []string{"name"},
			wantMsg:    "name cannot be longer than 50 characters",
		},
		{
			name:   "surrounding space does not count towards the limit",
			mutate: func(r *models.CreateArticleRequest) { r.Name = "  " + strings.Repeat("x", 50) + "\t" },
		},
		{
			name:   "limit counts characters not bytes",
			mutate: func(r *models.CreateArticleRequest) { r.Name = strings.Repeat("ö", 50) },
		},
		{
			name:       "negative amount",
			mutate:     func(r *models.CreateArticleRequest) { r.Amount = intPtr(-1) },
			wantFields: []string{"amount"},
			wantMsg:    "amount cannot be negative",
		},
		{
			name:       "amount above maximum",
			mutate:     func(r *models.CreateArticleRequest) { r.Amount = intPtr(models.MaxAmount + 1) },
			wantFields: []string{"amount"},
			wantMsg:    "amount cannot exceed 100000000",
		},
		{
			name:       "missing minimum amount",
			mutate:     func(r *models.CreateArticleRequest) { r.MinimumAmount = nil },
			wantFields: []string{"minimumAmount"},
			wantMsg:    "minimumAmount is required",
		},
		{
			name:       "unknown unit",
			mutate:     func(r *models.CreateArticleRequest) { r.Unit = "BUCKETS" },
			wantFields: []string{"unit"},
			wantMsg:    "unit must be one of: PIECES",
		},
		{
			name:       "unknown category",
			mutate:     func(r *models.CreateArticleRequest) { r.Category = "TOYS" },
			wantFields: []string{"category"},
			wantMsg:    "category must be one of: MEDICAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(req)

			errs := Struct(req)
			got := fieldsOf(errs)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("Expected fields %v, got %v", tt.wantFields, got)
			}
			for i := range got {
				if got[i] != tt.wantFields[i] {
					t.Errorf("Expected field %q, got %q", tt.wantFields[i], got[i])
				}
			}
			if tt.wantMsg != "" && !strings.HasPrefix(errs[0].Message, tt.wantMsg) {
				t.Errorf("Expected message starting with %q, got %q", tt.wantMsg, errs[0].Message)
			}
		})
	}
}

func TestStruct_ReportsEveryViolation(t *testing.T) {
	req := &models.CreateArticleRequest{
		Name:          "",
		Amount:        intPtr(-5),
		MinimumAmount: intPtr(models.MaxAmount + 1),
		Unit:          "BUCKETS",
	}

	errs := Struct(req)
	if len(errs) != 5 {
		t.Fatalf("Expected 5 errors, got %d: %v", len(errs), Messages(errs))
	}
}

func TestStruct_UpdateArticleRequest(t *testing.T) {
	t.Run("empty update is valid", func(t *testing.T) {
		if errs := Struct(&models.UpdateArticleRequest{}); len(errs) != 0 {
			t.Errorf("Expected no errors, got %v", Messages(errs))
		}
	})

	t.Run("zero amount is present and valid", func(t *testing.T) {
		if errs := Struct(&models.UpdateArticleRequest{Amount: intPtr(0)}); len(errs) != 0 {
			t.Errorf("Expected no errors, got %v", Messages(errs))
		}
	})

	t.Run("padded name at the limit", func(t *testing.T) {
		req := &models.UpdateArticleRequest{Name: strPtr(" " + strings.Repeat("x", 50) + " ")}
		if errs := Struct(req); len(errs) != 0 {
			t.Errorf("Expected no errors, got %v", Messages(errs))
		}
	})

	t.Run("present fields are checked", func(t *testing.T) {
		unit := models.Unit("BUCKETS")
		req := &models.UpdateArticleRequest{
			Name:   strPtr("  "),
			Amount: intPtr(-1),
			Unit:   &unit,
		}
		errs := Struct(req)
		want := []string{"name", "amount", "unit"}
		got := fieldsOf(errs)
		if len(got) != len(want) {
			t.Fatalf("Expected fields %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Expected field %q, got %q", want[i], got[i])
			}
		}
	})
}

func TestStruct_AdjustAmountRequest(t *testing.T) {
	if errs := Struct(&models.AdjustAmountRequest{Amount: intPtr(0)}); len(errs) != 0 {
		t.Errorf("Expected zero delta to be valid, got %v", Messages(errs))
	}
	if errs := Struct(&models.AdjustAmountRequest{}); len(errs) != 1 || errs[0].Message != "amount is required" {
		t.Errorf("Expected missing amount error, got %v", Messages(errs))
	}
	if errs := Struct(&models.AdjustAmountRequest{Amount: intPtr(-3)}); len(errs) != 1 {
		t.Errorf("Expected negative delta error, got %v", Messages(errs))
	}
}

func TestTranslate(t *testing.T) {
	if errs := Translate(nil); errs != nil {
		t.Errorf("Expected nil for nil error, got %v", errs)
	}

	var req models.CreateArticleRequest
	err := json.Unmarshal([]byte(`{"amount": "lots"}`), &req)
	errs := Translate(err)
	if len(errs) != 1 || errs[0].Field != "amount" {
		t.Fatalf("Expected a single amount error, got %+v", errs)
	}
	if errs[0].Message != "amount must be of type integer" {
		t.Errorf("Unexpected message: %q", errs[0].Message)
	}

	err = json.Unmarshal([]byte(`{"name": `), &req)
	errs = Translate(err)
	if len(errs) != 1 || errs[0].Message != "request body must be valid JSON" {
		t.Errorf("Expected malformed body error, got %+v", errs)
	}
}

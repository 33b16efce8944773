package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTagString(t *testing.T) {
	tag := Tag{ID: 1, UserID: 2, Name: "Vegan"}
	if got := tag.String(); got != "Vegan" {
		t.Errorf("expected %q, got %q", "Vegan", got)
	}
}

func TestIngredientString(t *testing.T) {
	ingredient := Ingredient{ID: 1, UserID: 2, Name: "Cucumber"}
	if got := ingredient.String(); got != "Cucumber" {
		t.Errorf("expected %q, got %q", "Cucumber", got)
	}
}

func TestRecipeString(t *testing.T) {
	recipe := Recipe{
		ID:          1,
		UserID:      2,
		Title:       "Steak and mushroom sauce",
		TimeMinutes: 5,
		Price:       decimal.NewFromFloat(5.00),
	}
	if got := recipe.String(); got != "Steak and mushroom sauce" {
		t.Errorf("expected %q, got %q", "Steak and mushroom sauce", got)
	}
}

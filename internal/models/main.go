// Package models defines the core data structures for users, tags,
// ingredients and recipes.
package models

import "github.com/shopspring/decimal"

// User represents an application account with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Email is the normalized (lower-cased) login address.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash []byte `json:"-"`
	// IsStaff marks the user as a staff member.
	IsStaff bool `json:"is_staff"`
	// IsSuperuser marks the user as a superuser.
	IsSuperuser bool `json:"is_superuser"`
}

// Tag is a user-owned label attached to recipes.
type Tag struct {
	// ID is the unique identifier for the tag.
	ID int64 `json:"id"`
	// UserID is the owning user's identifier.
	UserID int64 `json:"user"`
	// Name is the tag label.
	Name string `json:"name"`
}

// String renders the tag by its name.
func (t Tag) String() string { return t.Name }

// Ingredient is a user-owned recipe component.
type Ingredient struct {
	// ID is the unique identifier for the ingredient.
	ID int64 `json:"id"`
	// UserID is the owning user's identifier.
	UserID int64 `json:"user"`
	// Name is the ingredient name.
	Name string `json:"name"`
}

// String renders the ingredient by its name.
func (i Ingredient) String() string { return i.Name }

// Recipe is a user-owned recipe with optional tag and ingredient links.
type Recipe struct {
	// ID is the unique identifier for the recipe.
	ID int64 `json:"id"`
	// UserID is the owning user's identifier.
	UserID int64 `json:"user"`
	// Title is the recipe title.
	Title string `json:"title"`
	// TimeMinutes is the preparation time in minutes.
	TimeMinutes int `json:"time_minutes"`
	// Price is the estimated cost of the recipe.
	Price decimal.Decimal `json:"price"`
	// Image is the stored image path relative to the media root.
	// Empty when no image has been uploaded.
	Image string `json:"image,omitempty"`
	// TagIDs holds the identifiers of linked tags.
	TagIDs []int64 `json:"tags"`
	// IngredientIDs holds the identifiers of linked ingredients.
	IngredientIDs []int64 `json:"ingredients"`
}

// String renders the recipe by its title.
func (r Recipe) String() string { return r.Title }

package models

import "time"

// Category is a non-sensitive grouping label owned by exactly one vault.
// Deleting a category never deletes items; their references are cleared.
type Category struct {
	ID          int64
	Name        string
	Description *string
	Color       *string
	VaultID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryPatch carries a partial category update, with the same set-flag
// convention as VaultPatch for nullable fields.
type CategoryPatch struct {
	Name           *string
	Description    *string
	DescriptionSet bool
	Color          *string
	ColorSet       bool
}

// DefaultCategory describes one of the categories seeded into every new vault.
type DefaultCategory struct {
	Name        string
	Description string
	Color       string
}

// DefaultCategories are created for each vault at creation time.
var DefaultCategories = []DefaultCategory{
	{Name: "Personal", Description: "Personal accounts and services", Color: "#3b82f6"},
	{Name: "Work", Description: "Work-related credentials", Color: "#10b981"},
	{Name: "Banking", Description: "Financial and banking credentials", Color: "#f59e0b"},
	{Name: "Social", Description: "Social media accounts", Color: "#8b5cf6"},
}

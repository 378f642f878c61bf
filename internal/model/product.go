package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a jersey in the catalogue.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Price       float64   `json:"price" db:"price"`
	CategoryKey string    `json:"categoryKey" db:"category_key"`
	Image       string    `json:"image" db:"image"`
	Sizes       []string  `json:"sizes" db:"sizes"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Category represents a storefront category (e.g. "retro", "national").
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Key         string    `json:"key" db:"key"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	HeroImage   string    `json:"heroImage" db:"hero_image"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CategoryUpdate carries the mutable category fields for admin edits.
type CategoryUpdate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	HeroImage   string `json:"heroImage"`
	Status      string `json:"status"`
}

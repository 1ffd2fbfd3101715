package models

import "gorm.io/gorm"

// Listing statuses
const (
	ListingOpen = "open"
	ListingSold = "sold"
)

// Listing represents a marketplace listing (PostgreSQL)
type Listing struct {
	gorm.Model
	SellerID    uint   `json:"seller_id" gorm:"index"`
	Title       string `json:"title" gorm:"size:120"`
	Description string `json:"description" gorm:"type:text"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url,omitempty"`
	Status      string `json:"status" gorm:"size:20;default:'open';index"`
}

// CreateListingRequest defines the request body for posting a listing
type CreateListingRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=120"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	PriceCents  int64  `json:"price_cents" validate:"min=0"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateListingRequest defines the request body for editing or closing a listing
type UpdateListingRequest struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=2,max=120"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	PriceCents  *int64 `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=open sold"`
}

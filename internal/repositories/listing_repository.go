package repositories

import (
	"github.com/famnest/backend/internal/models"
	"gorm.io/gorm"
)

// ListingRepository defines the interface for marketplace listing operations
type ListingRepository interface {
	CreateListing(listing *models.Listing) error
	GetListingByID(id uint) (*models.Listing, error)
	GetOpenListings(page, limit int) ([]models.Listing, int64, error)
	GetListingsBySeller(sellerID uint) ([]models.Listing, error)
	UpdateListing(listing *models.Listing) error
	DeleteListing(id uint) error
}

// PostgresListingRepository implements ListingRepository for PostgreSQL
type PostgresListingRepository struct {
	db *gorm.DB
}

// NewPostgresListingRepository creates a new PostgresListingRepository
func NewPostgresListingRepository(db *gorm.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

// CreateListing creates a new listing in PostgreSQL
func (r *PostgresListingRepository) CreateListing(listing *models.Listing) error {
	return r.db.Create(listing).Error
}

// GetListingByID retrieves a listing by ID from PostgreSQL
func (r *PostgresListingRepository) GetListingByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetOpenListings retrieves open listings with pagination, newest first
func (r *PostgresListingRepository) GetOpenListings(page, limit int) ([]models.Listing, int64, error) {
	var listings []models.Listing
	var total int64

	r.db.Model(&models.Listing{}).Where("status = ?", models.ListingOpen).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Where("status = ?", models.ListingOpen).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&listings).Error

	return listings, total, err
}

// GetListingsBySeller retrieves all listings posted by a seller
func (r *PostgresListingRepository) GetListingsBySeller(sellerID uint) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdateListing updates an existing listing in PostgreSQL
func (r *PostgresListingRepository) UpdateListing(listing *models.Listing) error {
	return r.db.Save(listing).Error
}

// DeleteListing deletes a listing by ID from PostgreSQL
func (r *PostgresListingRepository) DeleteListing(id uint) error {
	return r.db.Delete(&models.Listing{}, id).Error
}

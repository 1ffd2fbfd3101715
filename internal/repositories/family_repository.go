package repositories

import (
	"fmt"

	"github.com/famnest/backend/internal/models"
	"gorm.io/gorm"
)

// FamilyRepository defines the interface for family request data operations
type FamilyRepository interface {
	SendFamilyRequest(req *models.FamilyRequest) error
	GetFamilyRequestByID(id uint) (*models.FamilyRequest, error)
	GetPendingFamilyRequests(userID uint) ([]models.FamilyRequest, error)
	GetFamilyMembers(userID uint) ([]models.User, error)
	UpdateFamilyRequestStatus(id uint, status string) error
	DeleteFamilyRequest(id uint) error
}

// PostgresFamilyRepository implements FamilyRepository for PostgreSQL
type PostgresFamilyRepository struct {
	db *gorm.DB
}

// NewPostgresFamilyRepository creates a new PostgresFamilyRepository
func NewPostgresFamilyRepository(db *gorm.DB) *PostgresFamilyRepository {
	return &PostgresFamilyRepository{db: db}
}

// SendFamilyRequest creates a new family request
func (r *PostgresFamilyRepository) SendFamilyRequest(req *models.FamilyRequest) error {
	// Check if a request already exists in either direction
	var existing models.FamilyRequest
	err := r.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		req.SenderID, req.ReceiverID, req.ReceiverID, req.SenderID).First(&existing).Error

	if err == nil {
		if existing.Status == models.FamilyRequestPending {
			return fmt.Errorf("a pending family request already exists between these users")
		} else if existing.Status == models.FamilyRequestAccepted {
			return fmt.Errorf("users are already linked as family")
		}
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	req.Status = models.FamilyRequestPending
	return r.db.Create(req).Error
}

// GetFamilyRequestByID retrieves a family request by ID
func (r *PostgresFamilyRepository) GetFamilyRequestByID(id uint) (*models.FamilyRequest, error) {
	var req models.FamilyRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetPendingFamilyRequests retrieves pending requests addressed to a user
func (r *PostgresFamilyRepository) GetPendingFamilyRequests(userID uint) ([]models.FamilyRequest, error) {
	var requests []models.FamilyRequest
	if err := r.db.Where("receiver_id = ? AND status = ?", userID, models.FamilyRequestPending).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetFamilyMembers retrieves the users linked to userID by an accepted request
func (r *PostgresFamilyRepository) GetFamilyMembers(userID uint) ([]models.User, error) {
	var ids []uint
	err := r.db.Model(&models.FamilyRequest{}).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.FamilyRequestAccepted).
		Pluck("sender_id", &ids).Error
	if err != nil {
		return nil, err
	}
	var receiverIDs []uint
	err = r.db.Model(&models.FamilyRequest{}).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.FamilyRequestAccepted).
		Pluck("receiver_id", &receiverIDs).Error
	if err != nil {
		return nil, err
	}
	ids = append(ids, receiverIDs...)

	seen := make(map[uint]bool, len(ids))
	memberIDs := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == userID || seen[id] {
			continue
		}
		seen[id] = true
		memberIDs = append(memberIDs, id)
	}
	if len(memberIDs) == 0 {
		return nil, nil
	}

	var users []models.User
	if err := r.db.Where("id IN ?", memberIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateFamilyRequestStatus accepts or rejects a pending request
func (r *PostgresFamilyRepository) UpdateFamilyRequestStatus(id uint, status string) error {
	res := r.db.Model(&models.FamilyRequest{}).Where("id = ? AND status = ?", id, models.FamilyRequestPending).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pending family request not found")
	}
	return nil
}

// DeleteFamilyRequest deletes a family request by ID
func (r *PostgresFamilyRepository) DeleteFamilyRequest(id uint) error {
	return r.db.Delete(&models.FamilyRequest{}, id).Error
}

package repositories

import (
	"time"

	"github.com/famnest/backend/internal/models"
	"gorm.io/gorm"
)

// UserPresenceStore is the narrow surface the presence tracker needs.
// The tracker reads the current record before conditionally incrementing the
// lifetime counter; the read and the write are separate statements.
type UserPresenceStore interface {
	GetUserByID(id uint) (*models.User, error)
	RecordSignIn(id uint, at time.Time) error
	RecordActivity(id uint, at time.Time, incrementMs int64) error
	RecordSignOff(id uint, at time.Time) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	UserPresenceStore
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByFirebaseUID(firebaseUID string) (*models.User, error)
	GetUsers() ([]models.User, error)
	GetUserIDs() ([]uint, error)
	GetOnlineUsers() ([]models.User, error)
	UpdateUser(user *models.User) error
	UpdateRole(id uint, role string) error
	DeleteUser(id uint) error
	SearchUsers(query string) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email from PostgreSQL
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users from PostgreSQL
func (r *PostgresUserRepository) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserIDs retrieves every user ID. Used by the broadcast fan-out so it
// never loads full rows for arbitrarily large populations.
func (r *PostgresUserRepository) GetUserIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.User{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetOnlineUsers retrieves users flagged online, excluding invisible ones.
// The stored flag can lag a vanished client; callers derive staleness from
// LastActiveAt before showing a user as online.
func (r *PostgresUserRepository) GetOnlineUsers() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("online = ? AND invisible = ?", true, false).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateRole changes a user's role
func (r *PostgresUserRepository) UpdateRole(id uint, role string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUser deletes a user by ID from PostgreSQL
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// SearchUsers searches for users by name or email
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	// Search by name or email (case-insensitive)
	if err := r.db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", "%"+query+"%", "%"+query+"%").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// RecordSignIn stamps sign-in and activity times and flips the user online
func (r *PostgresUserRepository) RecordSignIn(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"online":          true,
		"last_sign_in_at": at,
		"last_active_at":  at,
	}).Error
}

// RecordActivity stamps activity, keeps the user online, and adds
// incrementMs (possibly zero) to the lifetime active-time counter
func (r *PostgresUserRepository) RecordActivity(id uint, at time.Time, incrementMs int64) error {
	updates := map[string]interface{}{
		"online":         true,
		"last_active_at": at,
	}
	if incrementMs > 0 {
		updates["total_active_ms"] = gorm.Expr("total_active_ms + ?", incrementMs)
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// RecordSignOff flips the user offline and stamps the sign-off time
func (r *PostgresUserRepository) RecordSignOff(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"online":           false,
		"last_sign_off_at": at,
	}).Error
}

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User roles. Pending members are read-only until an admin approves them.
const (
	RoleAdmin   = "admin"
	RoleMember  = "member"
	RolePending = "pending"
)

type User struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Name        string         `json:"name"`
	Email       string         `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Role        string         `json:"role" gorm:"size:20;default:'pending';index"`
	Password    string         `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID string         `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID

	// Presence fields, mutated by the presence tracker and admin actions only.
	Online        bool       `json:"online" gorm:"default:false;index"`
	Invisible     bool       `json:"invisible" gorm:"default:false"` // Hidden from the online directory
	LastActiveAt  *time.Time `json:"last_active_at,omitempty"`
	LastSignInAt  *time.Time `json:"last_sign_in_at,omitempty"`
	LastSignOffAt *time.Time `json:"last_sign_off_at,omitempty"`
	TotalActiveMs int64      `json:"total_active_ms" gorm:"default:0"` // Lifetime accumulated active time
}

// UserCompact is the minimal user shape embedded in enriched responses.
type UserCompact struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Online: u.Online}
}

type CreateUserRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	FirebaseUID string `json:"firebase_uid" validate:"required"` // Firebase UID will be provided by the client after Firebase Auth
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Invisible *bool  `json:"invisible,omitempty"`
}

// UpdateRoleRequest is the admin-only payload for approving or demoting a member.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member pending"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

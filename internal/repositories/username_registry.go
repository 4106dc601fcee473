package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/socialchat/gateway/internal/errs"
)

// UsernameRecord is a claimed username. The primary key is the uniqueness
// guarantee: the claim either inserts or fails, there is no window between
// a check and a write.
type UsernameRecord struct {
	Username  string `gorm:"primaryKey;size:30"`
	UserID    string `gorm:"index;size:128"`
	CreatedAt time.Time
}

// UsernameRegistry is the authoritative server-side username uniqueness
// check (PostgreSQL). The Mongo profile lookup used while typing is
// advisory only; registration must go through Claim.
type UsernameRegistry struct {
	db *gorm.DB
}

// NewUsernameRegistry creates a new UsernameRegistry.
func NewUsernameRegistry(db *gorm.DB) *UsernameRegistry {
	return &UsernameRegistry{db: db}
}

// Claim atomically reserves username for userID. Returns
// errs.ErrAlreadyExists when another account holds it.
func (r *UsernameRegistry) Claim(username, userID string) error {
	rec := UsernameRecord{Username: username, UserID: userID}
	err := r.db.Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.ErrAlreadyExists
	}
	return err
}

// Release frees a claimed username (registration rollback, account delete).
func (r *UsernameRegistry) Release(username string) error {
	return r.db.Delete(&UsernameRecord{}, "username = ?", username).Error
}

// Exists reports whether the username is claimed. This is the advisory
// lookup behind the debounced availability check.
func (r *UsernameRegistry) Exists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&UsernameRecord{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// Package users provides database operations for KOReader sync accounts.
//
// # Usage
//
//	repo := users.NewRepository(db, bcrypt.DefaultCost)
//	user, err := repo.Create(username, passwordKey)
package users

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/opdshelf/opdshelf/internal/entities"
)

// ErrUserExists is returned by Create when the username is already taken.
var ErrUserExists = errors.New("user already exists")

// Repository handles all sync account database operations.
type Repository struct {
	db         *gorm.DB
	bcryptCost int
}

// NewRepository creates a new users repository. cost is the bcrypt cost
// factor applied when hashing password keys.
func NewRepository(db *gorm.DB, cost int) *Repository {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Repository{db: db, bcryptCost: cost}
}

// Create registers a new sync account. The password key received from the
// device is hashed before storage.
func (r *Repository) Create(username, passwordKey string) (*entities.User, error) {
	var existing entities.User
	result := r.db.Where("username = ?", username).First(&existing)
	if result.Error == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passwordKey), r.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password key: %w", err)
	}

	user := &entities.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Verify reports whether the username/password key pair matches a stored
// account. An unknown user or a wrong key both yield (false, nil).
func (r *Repository) Verify(username, passwordKey string) (bool, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(passwordKey)) != nil {
		return false, nil
	}
	return true, nil
}

// file: internals/features/users/user/repository/user_repository.go
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	customerrors "librarian_backend/internals/customErrors"
	userModel "librarian_backend/internals/features/users/user/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.NotFound("user not found")
		}
		return nil, customerrors.Store("find user by email", err)
	}
	return &user, nil
}

// Create inserts the user; a unique violation on email means another
// registration won the race after the service's pre-check.
func (r *UserRepository) Create(ctx context.Context, user *userModel.UserModel) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if customerrors.IsUniqueViolation(err) {
			return customerrors.ErrDuplicateEmail
		}
		return customerrors.Store("create user", err)
	}
	return nil
}

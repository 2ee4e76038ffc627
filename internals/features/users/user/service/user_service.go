package service

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	customerrors "librarian_backend/internals/customErrors"
	"librarian_backend/internals/features/users/user/dto"
	"librarian_backend/internals/features/users/user/model"
	helper "librarian_backend/internals/helpers"
	helperAuth "librarian_backend/internals/helpers/auth"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*model.UserModel, error)
	Create(ctx context.Context, user *model.UserModel) error
}

type UserService struct {
	repo      Repository
	validate  *validator.Validate
	cost      int
	dummyHash string
}

type Option func(*UserService)

// WithBcryptCost overrides bcrypt.DefaultCost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *UserService) { s.cost = cost }
}

func NewUserService(repo Repository, opts ...Option) *UserService {
	s := &UserService{
		repo:     repo,
		validate: helper.NewValidator(),
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	hash, err := hashPassword(dummyPassword, s.cost)
	if err != nil {
		log.Fatalf("❌ Failed to prepare dummy password hash: %v", err)
	}
	s.dummyHash = hash
	return s
}

// CreateUser registers an account. The store is untouched on any failure.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*model.UserModel, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, helper.ValidationError(err)
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, customerrors.ErrDuplicateEmail
	} else if !errors.Is(err, customerrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := hashPassword(req.Password, s.cost)
	if err != nil {
		return nil, customerrors.Store("hash password", err)
	}

	user := &model.UserModel{
		Email:    req.Email,
		Password: hashed,
		Role:     req.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[USERS][CREATE] id=%d email=%s role=%s", user.ID, user.Email, user.Role)
	return user, nil
}

// VerifyCredentials checks a Basic auth pair. The username is the email.
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (helperAuth.Identity, error) {
	user, err := s.repo.FindByEmail(ctx, dto.NormalizeEmail(username))
	if err != nil {
		if errors.Is(err, customerrors.ErrNotFound) {
			checkPasswordHash(s.dummyHash, password)
			return helperAuth.Identity{}, customerrors.ErrUnauthorized
		}
		return helperAuth.Identity{}, err
	}

	if !checkPasswordHash(user.Password, password) {
		return helperAuth.Identity{}, customerrors.ErrUnauthorized
	}
	return toIdentity(user), nil
}

// EnsureUser creates the account when the email is not registered yet.
func (s *UserService) EnsureUser(ctx context.Context, email, password, role string) (bool, error) {
	_, err := s.CreateUser(ctx, dto.CreateUserRequest{Email: email, Password: password, Role: role})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, customerrors.ErrDuplicateEmail):
		return false, nil
	default:
		return false, err
	}
}

func toIdentity(u *model.UserModel) helperAuth.Identity {
	return helperAuth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

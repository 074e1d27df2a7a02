package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gitreq/gitreq/internal/apperror"
	"github.com/gitreq/gitreq/internal/auth"
	"github.com/gitreq/gitreq/internal/metrics"
	"github.com/gitreq/gitreq/internal/model"
	"github.com/gitreq/gitreq/internal/repository"
)

// UserStore is the persistence surface AuthService depends on.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, upd repository.UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// AuthService handles registration, login and profile management.
type AuthService struct {
	users      UserStore
	tokens     *auth.TokenService
	bcryptCost int
	metrics    metrics.Recorder
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens *auth.TokenService, bcryptCost int, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if bcryptCost == 0 {
		bcryptCost = auth.DefaultBcryptCost
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		metrics:    recorder,
		now:        time.Now,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthOutput carries the authenticated user and their session token.
type AuthOutput struct {
	User  *model.User
	Token string
}

// Register creates a new account and signs the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)

	if !emailRegex.MatchString(email) {
		return nil, apperror.Validation("A valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperror.Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if name == "" || len(name) > maxNameLength {
		return nil, apperror.Validation("Name is required")
	}

	if auth.IsPasswordTooLong(input.Password) {
		return nil, apperror.Validation("Password is too long")
	}

	hashStart := s.now()
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}
	s.metrics.ObserveHashDuration(s.now().Sub(hashStart))

	now := s.now().UTC()
	user := &model.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, apperror.Internal(fmt.Errorf("create user: %w", err))
	}

	token, err := s.tokens.Issue(auth.Principal{ID: user.ID, Email: user.Email})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("issue token: %w", err))
	}

	s.metrics.IncUserRegistered()

	return &AuthOutput{User: user, Token: token}, nil
}

// LoginInput defines input for logging in.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a session token.
// An unknown email and a wrong password produce the same error, so a
// caller cannot probe which addresses are registered.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, apperror.Validation("Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginAttempt("failure")
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, apperror.Internal(fmt.Errorf("get user by email: %w", err))
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		s.metrics.IncLoginAttempt("failure")
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Issue(auth.Principal{ID: user.ID, Email: user.Email})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("issue token: %w", err))
	}

	s.metrics.IncLoginAttempt("success")

	return &AuthOutput{User: user, Token: token}, nil
}

// Profile returns the user's account details.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(fmt.Errorf("get user: %w", err))
	}
	return user, nil
}

// UpdateProfileInput defines the mutable profile fields.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// UpdateProfile applies allow-listed changes to the user's account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*model.User, error) {
	upd := repository.UserUpdate{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > maxNameLength {
			return nil, apperror.Validation("Name must not be empty")
		}
		upd.Name = &name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !emailRegex.MatchString(email) {
			return nil, apperror.Validation("A valid email is required")
		}
		upd.Email = &email
	}

	if upd.IsEmpty() {
		return nil, apperror.Validation("no valid fields to update")
	}

	user, err := s.users.UpdateUser(ctx, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, apperror.NotFound("User not found")
		case errors.Is(err, repository.ErrEmailExists):
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, apperror.Internal(fmt.Errorf("update user: %w", err))
	}

	return user, nil
}

// DeleteAccount removes the user and, via cascade, everything they own.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(fmt.Errorf("delete user: %w", err))
	}
	return nil
}

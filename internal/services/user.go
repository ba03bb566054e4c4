package services

import (
	"context"
	"errors"

	"github.com/coursedb/apiserver/internal/store"
	"github.com/coursedb/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByUsernamePublic(ctx context.Context, username string) (types.PublicUser, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, id string, params store.UpdateUserParams) (types.User, error)
	Delete(ctx context.Context, id string) (types.User, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetPublic(ctx context.Context, username string) (types.PublicUser, error) {
	return s.repo.GetByUsernamePublic(ctx, username)
}

// Register creates a new account with a bcrypt-hashed password. An
// existing username is rejected with store.ErrDuplicateUser; the unique
// index on the collection backstops the check under concurrent calls.
func (s *UserService) Register(ctx context.Context, username, password, role string) (types.User, error) {
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return types.User{}, store.ErrDuplicateUser
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	return s.repo.Create(ctx, types.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
	})
}

// ValidateCredentials reports whether the given password matches the
// stored one. An unknown username is not an error; it reports false.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (bool, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil, nil
}

// Update applies a partial update; a supplied password is hashed before
// it reaches the store.
func (s *UserService) Update(ctx context.Context, id string, username, password, role *string) (types.User, error) {
	params := store.UpdateUserParams{
		Username: username,
		Role:     role,
	}
	if password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return types.User{}, err
		}
		hash := string(hashed)
		params.PasswordHash = &hash
	}
	return s.repo.Update(ctx, id, params)
}

func (s *UserService) Delete(ctx context.Context, id string) (types.User, error) {
	return s.repo.Delete(ctx, id)
}

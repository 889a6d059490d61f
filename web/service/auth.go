package service

import (
	"context"
	"errors"

	"github.com/mhsanaei/todo-api/database/model"
	"github.com/mhsanaei/todo-api/logger"
)

var ErrBadCredentials = errors.New("incorrect username or password")

// PasswordHasher is the credential hashing collaborator.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// AuthService ties registration, login and token checks to the user store.
type AuthService struct {
	users  *UserService
	hasher PasswordHasher
	tokens *TokenService
}

func NewAuthService(users *UserService, hasher PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Register hashes password and creates the user. False means the username
// is taken.
func (s *AuthService) Register(ctx context.Context, username, password string) (bool, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	return s.users.CreateUser(ctx, username, hashed)
}

// Login returns an access token, or ErrBadCredentials when the user does
// not exist or the password does not match.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil || !s.hasher.Verify(password, user.HashedPassword) {
		logger.Infof("failed login for %q", username)
		return "", ErrBadCredentials
	}
	return s.tokens.Issue(user.Id)
}

// CurrentUser resolves a bearer token to its user. A valid token for a user
// that no longer exists is rejected with ErrInvalidToken.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	userId, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

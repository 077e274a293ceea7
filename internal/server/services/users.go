package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/server/auth"
	"github.com/dmitrijs2005/goinglive/internal/server/config"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
	"github.com/dmitrijs2005/goinglive/internal/server/repositories/repomanager"
)

// AccessToken is a signed bearer token and the moment it stops being valid.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint access tokens
// - Profile: resolve the identity behind a token
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// unknownUserHash is compared against when the login is unknown so that
// both failure paths cost one bcrypt comparison.
var unknownUserHash = sync.OnceValue(func() []byte {
	h, _ := auth.HashPassword("unknown user")
	return h
})

// Register creates a new user. Duplicate usernames yield common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, username, password, displayName string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorInvalidInput)
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, &models.User{UserName: username, DisplayName: displayName, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and returns a fresh access token.
func (s *UserService) Login(ctx context.Context, username, password string) (*AccessToken, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword(unknownUserHash(), password)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	token, expires, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AccessToken{Token: token, ExpiresAt: expires}, nil
}

// Profile returns the identity of userID. A user deleted after the token was
// issued is reported as common.ErrorUnauthorized.
func (s *UserService) Profile(ctx context.Context, userID string) (*course.Profile, error) {
	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return &course.Profile{UserID: u.ID, Username: u.UserName, DisplayName: u.DisplayName}, nil
}

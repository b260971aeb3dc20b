package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"Cortex-Attendance-Backend/src/config"
	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/storage"
	"Cortex-Attendance-Backend/src/utils"
)

const refreshTokenTTL = 7 * 24 * time.Hour

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotApproved = errors.New("account pending admin approval")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
)

// RoleFullError reports that the capacity for a role is exhausted.
type RoleFullError struct {
	Role string
	Max  int
}

func (e *RoleFullError) Error() string {
	return fmt.Sprintf("maximum %d %ss allowed", e.Max, e.Role)
}

// AuthService handles registration, login and token refresh. New members
// start inactive and wait for admin approval; admins are active
// immediately (subject to the admin cap).
type AuthService struct {
	users  storage.UserStore
	tokens *utils.TokenStore

	jwtSecret  string
	maxAdmins  int
	maxMembers int
}

func NewAuthService(users storage.UserStore, tokens *utils.TokenStore, cfg *config.Settings) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtSecret:  cfg.JWTSecret,
		maxAdmins:  cfg.MaxAdmins,
		maxMembers: cfg.MaxMembers,
	}
}

func (a *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if role != models.RoleAdmin {
		role = models.RoleMember
	}

	if _, err := a.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	max := a.maxMembers
	if role == models.RoleAdmin {
		max = a.maxAdmins
	}
	count, err := a.users.CountByRole(ctx, role, false)
	if err != nil {
		return nil, err
	}
	if count >= int64(max) {
		return nil, &RoleFullError{Role: role, Max: max}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:      name,
		Email:     strings.ToLower(email),
		Password:  string(hash),
		Role:      role,
		IsActive:  role == models.RoleAdmin, // members need approval
		CreatedAt: time.Now(),
	}
	if err := a.users.Insert(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateRecord) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues an access token plus a refresh
// token stored in Redis.
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", "", ErrAccountNotApproved
	}

	accessToken, err := utils.GenerateJWT(a.jwtSecret, user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, "", "", err
	}

	refreshToken := uuid.NewString()
	if err := a.tokens.StoreRefreshToken(ctx, user.ID.Hex(), refreshToken, refreshTokenTTL); err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

// Refresh exchanges a stored refresh token for a new access token.
func (a *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (string, error) {
	ok, err := a.tokens.ValidateRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidRefresh
	}

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", ErrInvalidRefresh
	}
	user, err := a.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidRefresh
		}
		return "", err
	}

	return utils.GenerateJWT(a.jwtSecret, user.ID.Hex(), user.Email, user.Role)
}

// Logout drops the member's refresh token.
func (a *AuthService) Logout(ctx context.Context, userID string) error {
	return a.tokens.DeleteRefreshToken(ctx, userID)
}

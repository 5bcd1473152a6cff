package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/G1-LevelUp/levelup-backend/internal/hash"
	"github.com/G1-LevelUp/levelup-backend/internal/logging"
	"github.com/G1-LevelUp/levelup-backend/internal/models"
	"github.com/G1-LevelUp/levelup-backend/internal/mykafka"
	"github.com/G1-LevelUp/levelup-backend/internal/repo"
)

var (
	ErrValidation         = errors.New("validation")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// adminSuffix marks administrator accounts, carried over from the original
// storefront. The suffix is evaluated once at registration and materialized
// as the stored role, authorization afterwards checks the role claim only.
const adminSuffix = "@level.com"

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *mykafka.Producer
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required: %w", ErrValidation)
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	role := "user"
	if strings.HasSuffix(strings.ToLower(username), adminSuffix) {
		role = "admin"
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if _, err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Repo.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	accessExp := time.Now().Add(accessTokenTTL)
	accessToken, err := s.signToken(user, accessExp, s.JWTSecret, "")
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTokenTTL)
	refreshToken, err := s.signToken(user, refreshExp, s.RefreshSecret, "refresh")
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, refreshToken, user.ID, user.Role, refreshExp.UTC()); err != nil {
		return nil, err
	}

	s.publish(ctx, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      user.Role == "admin",
	}, nil
}

// AdminLogin is the separate administrator entrance: same credential check,
// plus the account must carry the admin role.
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	result, err := s.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !result.IsAdmin {
		return nil, ErrInvalidCredentials
	}
	return result, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.RefreshSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return nil, ErrInvalidCredentials
	}

	valid, err := s.Repo.RefreshTokenValid(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Repo.GetUserByID(ctx, uint(id))
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	accessExp := time.Now().Add(accessTokenTTL)
	accessToken, err := s.signToken(user, accessExp, s.JWTSecret, "")
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:        user,
		AccessToken: accessToken,
		AccessExp:   accessExp,
		IsAdmin:     user.Role == "admin",
	}, nil
}

func (s *AuthService) signToken(user *models.User, exp time.Time, secret []byte, typ string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  fmt.Sprint(user.ID),
		"role": user.Role,
		"exp":  exp.Unix(),
	}
	if typ != "" {
		claims["typ"] = typ
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]interface{}) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", topic, "error", err)
	}
}

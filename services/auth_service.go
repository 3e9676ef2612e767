package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"
	"salonbiz-backend/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenClaims is the JWT payload for both access and refresh tokens.
type TokenClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string
	Refresh string
}

type AuthConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthService registers users and issues, rotates and revokes tokens.
type AuthService struct {
	db     *gorm.DB
	cfg    AuthConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, cfg AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{db: db, cfg: cfg, logger: logger, now: time.Now}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type ProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	fields := map[string]string{}
	if in.Username == "" {
		fields["username"] = "is required"
	}
	if !strings.Contains(in.Email, "@") {
		fields["email"] = "must be a valid email address"
	}
	if len(in.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Message: "invalid registration", Fields: fields}
	}

	user := models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check user uniqueness: %w", err)
		}
		if count > 0 {
			return apperr.Conflict("a user with that username or email already exists")
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return &user, nil
}

// Login accepts a username or an email address as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.User, *TokenPair, error) {
	identifier = strings.TrimSpace(identifier)
	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.Auth("invalid credentials")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive || !utils.CheckPasswordHash(password, user.Password) {
		return nil, nil, apperr.Auth("invalid credentials")
	}

	now := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	user.LastLogin = &now

	pair, err := s.issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is
// revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.Auth("invalid token subject")
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.revoke(tx, claims); err != nil {
			return err
		}
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil || !user.IsActive {
			return apperr.Auth("user is not active")
		}
		pair, err = s.issue(userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes a refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.revoke(tx, claims)
	})
}

// ValidateAccessToken returns the user id an access token was issued to.
func (s *AuthService) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parse(token, tokenTypeAccess)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, lookupErr(err, "user", userID)
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return lookupErr(err, "user", userID)
		}
		updates := map[string]any{}
		if in.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*in.Email))
			if !strings.Contains(email, "@") {
				return apperr.FieldValidation("email", "must be a valid email address")
			}
			var count int64
			if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count).Error; err != nil {
				return fmt.Errorf("check user email: %w", err)
			}
			if count > 0 {
				return apperr.Conflict("email %s is already in use", email)
			}
			updates["email"] = email
		}
		if in.FirstName != nil {
			updates["first_name"] = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			updates["last_name"] = strings.TrimSpace(*in.LastName)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, userID)
}

func (s *AuthService) issue(userID uuid.UUID) (*TokenPair, error) {
	now := s.now()
	sign := func(tokenType string, ttl time.Duration) (string, error) {
		claims := TokenClaims{
			TokenType: tokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   userID.String(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	}

	access, err := sign(tokenTypeAccess, s.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := sign(tokenTypeRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) parse(token, wantType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, apperr.Auth("invalid or expired token")
	}
	if claims.TokenType != wantType {
		return nil, apperr.Auth("wrong token type")
	}
	return claims, nil
}

// revoke records the refresh token id, failing if it was already revoked.
func (s *AuthService) revoke(tx *gorm.DB, claims *TokenClaims) error {
	var count int64
	if err := tx.Model(&models.RevokedToken{}).Where("jti = ?", claims.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("check revoked token: %w", err)
	}
	if count > 0 {
		return apperr.Auth("token has been revoked")
	}
	expires := s.now().Add(s.cfg.RefreshTTL)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	if err := tx.Create(&models.RevokedToken{JTI: claims.ID, ExpiresAt: expires.UTC()}).Error; err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

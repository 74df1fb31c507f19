package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog_service/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthSettings describes the single admin account and how its tokens are signed.
type AuthSettings struct {
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	TokenTTL          time.Duration
}

type AuthUseCase interface {
	Login(email, password string) (*domain.AuthSession, error)
	VerifyToken(token string) (string, error)
}

type authUseCase struct {
	settings AuthSettings
	now      func() time.Time
	log      *logrus.Logger
}

func NewAuthUseCase(settings AuthSettings, logger *logrus.Logger) AuthUseCase {
	settings.AdminEmail = strings.ToLower(strings.TrimSpace(settings.AdminEmail))
	if settings.TokenTTL <= 0 {
		settings.TokenTTL = 12 * time.Hour
	}
	return &authUseCase{
		settings: settings,
		now:      time.Now,
		log:      logger,
	}
}

func (uc *authUseCase) Login(email, password string) (*domain.AuthSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uc.log.Infof("Use Case: Attempting admin login for email: %s", email)

	if uc.settings.AdminEmail == "" || uc.settings.AdminPasswordHash == "" {
		uc.log.Warn("Use Case: Login rejected - admin account is not configured")
		return nil, domain.ErrInvalidCredentials
	}
	if email != uc.settings.AdminEmail || password == "" {
		uc.log.Warnf("Use Case: Login failed - unknown email or empty password for %s", email)
		return nil, domain.ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(uc.settings.AdminPasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		uc.log.Warnf("Use Case: Login failed - incorrect password for %s", email)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		uc.log.Errorf("Use Case: Error comparing password hash for %s: %v", email, err)
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	issued := uc.now()
	expires := issued.Add(uc.settings.TokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.settings.JWTSecret))
	if err != nil {
		uc.log.Errorf("Use Case: Failed to sign token for %s: %v", email, err)
		return nil, fmt.Errorf("could not sign token: %w", err)
	}

	uc.log.Infof("Use Case: Admin %s logged in, token valid until %s", email, expires.Format(time.RFC3339))
	return &domain.AuthSession{Token: signed, ExpiresAt: expires}, nil
}

// VerifyToken returns the subject of a valid admin token.
func (uc *authUseCase) VerifyToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(uc.settings.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		uc.log.Warnf("Use Case: Token verification failed: %v", err)
		return "", domain.ErrUnauthorized
	}
	if claims.Subject != uc.settings.AdminEmail {
		uc.log.Warnf("Use Case: Token subject %s is not the admin account", claims.Subject)
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}

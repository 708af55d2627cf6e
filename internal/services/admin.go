package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminSubject = "admin"

// ErrInvalidPassword is returned when the submitted secret does not match
var ErrInvalidPassword = errors.New("invalid password")

// AdminService checks the shared dashboard secret and issues session tokens
type AdminService struct {
	password     string
	passwordHash string
	tokenSecret  []byte
	sessionTTL   time.Duration
	now          func() time.Time
}

// NewAdminService creates a new admin service. passwordHash, when set, is a
// bcrypt hash and takes precedence over password.
func NewAdminService(password, passwordHash, tokenSecret string, sessionTTL time.Duration) *AdminService {
	return &AdminService{
		password:     password,
		passwordHash: passwordHash,
		tokenSecret:  []byte(tokenSecret),
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

// Verify checks password against the configured secret and returns a
// session token on success
func (s *AdminService) Verify(password string) (string, error) {
	if !s.matches(password) {
		return "", ErrInvalidPassword
	}
	return s.GenerateToken()
}

func (s *AdminService) matches(password string) bool {
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	if s.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(password)) == 1
}

// GenerateToken signs an admin session token. Without a session TTL the
// token carries no exp claim.
func (s *AdminService) GenerateToken() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:  adminSubject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.sessionTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.sessionTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.tokenSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates an admin session token
func (s *AdminService) ValidateToken(tokenString string) error {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.tokenSecret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return fmt.Errorf("invalid token")
	}

	if claims.Subject != adminSubject {
		return fmt.Errorf("unexpected token subject %q", claims.Subject)
	}

	return nil
}

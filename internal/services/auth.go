package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/utils"
)

var (
	ErrInvalidPIN      = errors.New("invalid pin")
	ErrTooManyAttempts = errors.New("too many pin attempts")
	ErrInvalidToken    = errors.New("invalid token")
)

const (
	pinAttemptWindow = 15 * time.Minute
	pinAttemptLimit  = 5
	ttlSweepInterval = time.Minute
)

// AuthService guards the parent surfaces. A single shared PIN unlocks a
// short-lived JWT; diagnostic links are separate single-use tokens so a
// session on another device never needs the PIN itself.
type AuthService interface {
	LoginWithPIN(pin, clientKey string) (string, error)
	ValidateParentToken(token string) error
	CreateDiagnosticLink() (token string, expiresAt time.Time)
	RedeemDiagnosticLink(token string) bool
	Close()
}

type authService struct {
	log       *logger.Logger
	pinHash   []byte
	jwtSecret []byte
	tokenTTL  time.Duration
	linkTTL   time.Duration

	attempts *TTLStore[int]
	links    *TTLStore[time.Time]
}

func NewAuthService(log *logger.Logger) (AuthService, error) {
	scoped := log.With("service", "AuthService")

	pinHash := utils.GetEnv("PARENT_PIN_HASH", "", scoped)
	if pinHash == "" {
		// Dev convenience: hash a plain PIN at startup so local runs do
		// not need a pre-generated bcrypt string.
		pin := utils.GetEnv("PARENT_PIN", "", scoped)
		if pin == "" {
			return nil, fmt.Errorf("auth: PARENT_PIN_HASH or PARENT_PIN must be set")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash parent pin: %w", err)
		}
		pinHash = string(hashed)
	}

	secret := utils.GetEnv("JWT_SECRET", "", scoped)
	if secret == "" {
		return nil, fmt.Errorf("auth: JWT_SECRET must be set")
	}

	tokenTTLMin := utils.GetEnvAsInt("PARENT_TOKEN_TTL_MIN", 60, scoped)
	linkTTLMin := utils.GetEnvAsInt("DIAGNOSTIC_LINK_TTL_MIN", 30, scoped)

	return &authService{
		log:       scoped,
		pinHash:   []byte(pinHash),
		jwtSecret: []byte(secret),
		tokenTTL:  time.Duration(tokenTTLMin) * time.Minute,
		linkTTL:   time.Duration(linkTTLMin) * time.Minute,
		attempts:  NewTTLStore[int](ttlSweepInterval),
		links:     NewTTLStore[time.Time](ttlSweepInterval),
	}, nil
}

// LoginWithPIN verifies the parent PIN and issues a session JWT. Attempts
// are counted per client key inside a rolling window; once the limit is
// hit the key is refused until the window entry expires.
func (a *authService) LoginWithPIN(pin, clientKey string) (string, error) {
	if count, ok := a.attempts.Get(clientKey); ok && count >= pinAttemptLimit {
		a.log.Warn("Parent login locked out", "client", clientKey)
		return "", ErrTooManyAttempts
	}

	if err := bcrypt.CompareHashAndPassword(a.pinHash, []byte(pin)); err != nil {
		count := a.attempts.Update(clientKey, pinAttemptWindow, func(current int, _ bool) int {
			return current + 1
		})
		a.log.Warn("Parent login failed", "client", clientKey, "attempts", count)
		return "", ErrInvalidPIN
	}

	a.attempts.Delete(clientKey)

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "parent",
		"iat": now.Unix(),
		"exp": now.Add(a.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

func (a *authService) ValidateParentToken(token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}

// CreateDiagnosticLink mints a single-use token a parent can hand to the
// device running the diagnostic.
func (a *authService) CreateDiagnosticLink() (string, time.Time) {
	token := uuid.NewString()
	expiresAt := time.Now().Add(a.linkTTL)
	a.links.Set(token, expiresAt, a.linkTTL)
	return token, expiresAt
}

// RedeemDiagnosticLink consumes the token. A second redemption, or one
// past expiry, fails.
func (a *authService) RedeemDiagnosticLink(token string) bool {
	_, ok := a.links.Take(token)
	return ok
}

func (a *authService) Close() {
	a.attempts.Stop()
	a.links.Stop()
}

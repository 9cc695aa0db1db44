package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"artefact-registry/internal/config"
	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/ports/output"
)

// Claims is the payload of an access token.
type Claims struct {
	UserID string `json:"uid"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal domain.Principal
}

type AuthService struct {
	users  ports.UserRepository
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, userID, password string) (*Session, error) {
	userID = strings.ToUpper(strings.TrimSpace(userID))
	password = strings.TrimSpace(password)
	if userID == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.WithField("user_id", userID).Info("login rejected: unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !passwordMatches(user.PasswordHash, password) {
		log.WithField("user_id", userID).Info("login rejected: wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	p := domain.Principal{UserID: user.ID, Name: user.FullName(), Role: user.Role}
	token, exp, err := s.issue(p)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, Principal: p}, nil
}

// Verify parses a bearer token and returns the principal it was issued to.
func (s *AuthService) Verify(token string) (domain.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return domain.Principal{UserID: claims.UserID, Name: claims.Name, Role: domain.Role(claims.Role)}, nil
}

func (s *AuthService) issue(p domain.Principal) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		UserID: p.UserID,
		Name:   p.Name,
		Role:   string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// passwordMatches accepts bcrypt hashes and legacy unsalted SHA-256 hex digests.
func passwordMatches(stored, password string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	sum := sha256.Sum256([]byte(password))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(digest)) == 1
}

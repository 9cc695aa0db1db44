package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"artefact-registry/internal/config"
	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/testutil"
)

func newAuthService(users *testutil.MockUserRepo) *AuthService {
	svc := NewAuthService(users, config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "artefact-registry",
		TokenTTL:  time.Hour,
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestAuthService_Login_LegacyHash(t *testing.T) {
	users := new(testutil.MockUserRepo)
	svc := newAuthService(users)
	users.On("GetByID", mock.Anything, "JPEREZ").Return(&domain.User{
		ID: "JPEREZ", PasswordHash: sha256Hex("clave123"), FirstNames: "Juan", LastNames: "Perez", Role: "A",
	}, nil)

	session, err := svc.Login(context.Background(), " jperez ", "clave123")

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, fixedNow.Add(time.Hour), session.ExpiresAt)
	assert.Equal(t, domain.Principal{UserID: "JPEREZ", Name: "Juan Perez", Role: "A"}, session.Principal)
}

func TestAuthService_Login_Bcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("clave123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(testutil.MockUserRepo)
	svc := newAuthService(users)
	users.On("GetByID", mock.Anything, "LECTOR").Return(&domain.User{
		ID: "LECTOR", PasswordHash: string(hash), FirstNames: "Ana", Role: domain.RoleReadOnly,
	}, nil)

	session, err := svc.Login(context.Background(), "LECTOR", "clave123")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleReadOnly, session.Principal.Role)
	assert.Equal(t, "Ana", session.Principal.Name)
}

func TestAuthService_Login_Rejected(t *testing.T) {
	t.Run("blank input", func(t *testing.T) {
		users := new(testutil.MockUserRepo)
		svc := newAuthService(users)

		_, err := svc.Login(context.Background(), "", "x")

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(testutil.MockUserRepo)
		svc := newAuthService(users)
		users.On("GetByID", mock.Anything, "NADIE").Return(nil, domain.ErrUserNotFound)

		_, err := svc.Login(context.Background(), "nadie", "x")

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(testutil.MockUserRepo)
		svc := newAuthService(users)
		users.On("GetByID", mock.Anything, "JPEREZ").Return(&domain.User{ID: "JPEREZ", PasswordHash: sha256Hex("clave123")}, nil)

		_, err := svc.Login(context.Background(), "JPEREZ", "otra")

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("repository failure", func(t *testing.T) {
		users := new(testutil.MockUserRepo)
		svc := newAuthService(users)
		users.On("GetByID", mock.Anything, "JPEREZ").Return(nil, errors.New("db down"))

		_, err := svc.Login(context.Background(), "JPEREZ", "clave123")

		assert.EqualError(t, err, "db down")
	})
}

func TestAuthService_Verify_RoundTrip(t *testing.T) {
	users := new(testutil.MockUserRepo)
	svc := newAuthService(users)
	users.On("GetByID", mock.Anything, "JPEREZ").Return(&domain.User{
		ID: "JPEREZ", PasswordHash: sha256Hex("clave123"), FirstNames: "Juan", LastNames: "Perez", Role: "A",
	}, nil)
	session, err := svc.Login(context.Background(), "JPEREZ", "clave123")
	require.NoError(t, err)

	p, err := svc.Verify(session.Token)

	require.NoError(t, err)
	assert.Equal(t, session.Principal, p)
}

func TestAuthService_Verify_Expired(t *testing.T) {
	svc := newAuthService(new(testutil.MockUserRepo))
	token, _, err := svc.issue(domain.Principal{UserID: "JPEREZ", Role: "A"})
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
	_, err = svc.Verify(token)

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_Verify_Rejects(t *testing.T) {
	svc := newAuthService(new(testutil.MockUserRepo))

	other := NewAuthService(nil, config.AuthConfig{JWTSecret: "other", Issuer: "artefact-registry", TokenTTL: time.Hour})
	other.now = svc.now
	foreign, _, err := other.issue(domain.Principal{UserID: "JPEREZ"})
	require.NoError(t, err)

	wrongIssuer := NewAuthService(nil, config.AuthConfig{JWTSecret: "test-secret", Issuer: "someone-else", TokenTTL: time.Hour})
	wrongIssuer.now = svc.now
	misissued, _, err := wrongIssuer.issue(domain.Principal{UserID: "JPEREZ"})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "JPEREZ"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"other secret": foreign,
		"other issuer": misissued,
		"alg none":     none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestPasswordMatches(t *testing.T) {
	assert.True(t, passwordMatches(sha256Hex("abc"), "abc"))
	assert.True(t, passwordMatches("BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD", "abc"))
	assert.False(t, passwordMatches(sha256Hex("abc"), "abd"))
	assert.False(t, passwordMatches("", "abc"))
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "leasing-test",
	})
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()
	customerID := uuid.New()

	token, expiresAt, err := svc.IssueAccessToken(IssueTokenInput{
		UserID:     userID,
		Role:       identity.RoleCustomer,
		CustomerID: &customerID,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "customer", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Greater(t, claims.RemainingTTL(), 14*time.Minute)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, userID, actor.UserID)
	assert.Equal(t, identity.RoleCustomer, actor.Role)
	require.NotNil(t, actor.CustomerID)
	assert.Equal(t, customerID, *actor.CustomerID)
}

func TestJWTService_IssueRejectsUnknownRole(t *testing.T) {
	_, _, err := newTestJWTService().IssueAccessToken(IssueTokenInput{UserID: uuid.New(), Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestJWTService_ValidateErrors(t *testing.T) {
	svc := newTestJWTService()
	valid, _, err := svc.IssueAccessToken(IssueTokenInput{UserID: uuid.New(), Role: identity.RoleOwner})
	require.NoError(t, err)

	sign := func(claims *Claims, secret string, method jwt.SigningMethod) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	baseClaims := func() *Claims {
		now := time.Now()
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "leasing-test",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			UserID:    uuid.New().String(),
			Role:      "owner",
			TokenType: TokenTypeAccess,
		}
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"wrong secret", sign(baseClaims(), "another-secret-key-32-characters!", jwt.SigningMethodHS256), ErrInvalidToken},
		{"wrong algorithm", sign(baseClaims(), testSecret, jwt.SigningMethodHS512), ErrInvalidToken},
		{"expired", func() string {
			c := baseClaims()
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			return sign(c, testSecret, jwt.SigningMethodHS256)
		}(), ErrExpiredToken},
		{"not yet valid", func() string {
			c := baseClaims()
			c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
			return sign(c, testSecret, jwt.SigningMethodHS256)
		}(), ErrTokenNotYetValid},
		{"wrong issuer", func() string {
			c := baseClaims()
			c.Issuer = "someone-else"
			return sign(c, testSecret, jwt.SigningMethodHS256)
		}(), ErrInvalidToken},
		{"wrong token type", func() string {
			c := baseClaims()
			c.TokenType = "refresh"
			return sign(c, testSecret, jwt.SigningMethodHS256)
		}(), ErrInvalidTokenType},
		{"missing user", func() string {
			c := baseClaims()
			c.UserID = ""
			return sign(c, testSecret, jwt.SigningMethodHS256)
		}(), ErrMissingUserID},
		{"truncated", valid[:len(valid)-4], ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClaims_Actor(t *testing.T) {
	tests := []struct {
		name    string
		claims  Claims
		wantErr bool
	}{
		{"owner", Claims{UserID: uuid.NewString(), Role: "owner"}, false},
		{"admin", Claims{UserID: uuid.NewString(), Role: "admin"}, false},
		{"customer without profile", Claims{UserID: uuid.NewString(), Role: "customer"}, false},
		{"bad user id", Claims{UserID: "42", Role: "owner"}, true},
		{"bad customer id", Claims{UserID: uuid.NewString(), Role: "customer", CustomerID: "x"}, true},
		{"unknown role", Claims{UserID: uuid.NewString(), Role: "root"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor, err := tt.claims.Actor()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClaims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, identity.Role(tt.claims.Role), actor.Role)
		})
	}
}

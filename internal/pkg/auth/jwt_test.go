package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sectionhub/internal/app/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      testSecret,
		AccessTokenExp: 30 * time.Minute,
		TokenIssuer:    "sectionhub-test",
	})
}

func testUser() *models.User {
	return &models.User{ID: 42, RoleID: 1, Role: models.Role{ID: 1, Name: models.RoleAdmin}}
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, int64(1800), expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, int64(1), claims.RoleID)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService()
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, _, err := newTestService().GenerateAccessToken(testUser())
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: strings.Repeat("x", 32), AccessTokenExp: time.Minute})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestService().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestService()
	for _, token := range []string{"", "abc", "a.b.c"} {
		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestClaimsUserID_NonInteger(t *testing.T) {
	for _, sub := range []string{"", "abc", "-3", "0"} {
		c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
		_, err := c.UserID()
		assert.ErrorIs(t, err, ErrInvalidSubject, sub)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"bearer   token ", "token", false},
		{"", "", true},
		{"Basic dXNlcjpwYXNz", "", true},
		{"Bearer", "", true},
		{"abc.def.ghi", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidFormat, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got)
	}
}

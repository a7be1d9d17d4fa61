package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqtest/courses-server/internal/features/auth"
	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/internal/testutil"
	"github.com/hqtest/courses-server/internal/utils/jwt"
)

var tokenConfig = auth.TokenConfig{JWTSecret: testutil.JWTSecret, AccessTokenExpiry: time.Hour}

func TestLogin(t *testing.T) {
	db := testutil.NewDB(t)
	usr := testutil.CreateStudent(t, db, "alice")

	resp, err := auth.Login(db, auth.LoginInput{Username: " alice ", Password: testutil.Password}, tokenConfig)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, usr.ID, resp.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := jwt.VerifyToken(resp.AccessToken, testutil.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, claims.UserID)
}

func TestLoginFailures(t *testing.T) {
	db := testutil.NewDB(t)
	inactive := false
	_, err := user.Create(db, user.CreateInput{Username: "dormant", Password: testutil.Password, Active: &inactive})
	require.NoError(t, err)
	testutil.CreateStudent(t, db, "alice")

	cases := []struct {
		name  string
		input auth.LoginInput
		want  error
	}{
		{"missing password", auth.LoginInput{Username: "alice"}, auth.ErrMissingFields},
		{"blank username", auth.LoginInput{Username: "  ", Password: testutil.Password}, auth.ErrMissingFields},
		{"unknown user", auth.LoginInput{Username: "ghost", Password: testutil.Password}, auth.ErrInvalidCredentials},
		{"wrong password", auth.LoginInput{Username: "alice", Password: "wrong-password"}, auth.ErrInvalidCredentials},
		{"inactive", auth.LoginInput{Username: "dormant", Password: testutil.Password}, auth.ErrInactiveAccount},
		{"inactive with wrong password", auth.LoginInput{Username: "dormant", Password: "nope-nope"}, auth.ErrInvalidCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Login(db, tc.input, tokenConfig)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

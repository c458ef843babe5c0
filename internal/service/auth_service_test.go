package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storerating/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func signupRequest(email string) entity.AuthSignupRequest {
	return entity.AuthSignupRequest{
		Name:     "  Jonathan Appleseed Junior  ",
		Email:    email,
		Address:  "12 Orchard Lane",
		Password: testPassword,
	}
}

func TestSignupCreatesNormalUserAndToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Signup(ctx, signupRequest("New.User@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleNormalUser, resp.User.Role)
	assert.Equal(t, "new.user@example.com", resp.User.Email)
	assert.Equal(t, "Jonathan Appleseed Junior", resp.User.Name)
	assert.NotEmpty(t, resp.Token)

	claims, err := f.tokens.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, entity.RoleNormalUser, claims.Role)
}

func TestSignupRejectsTakenEmail(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "taken@example.com", entity.RoleStoreOwner)

	_, err := f.auth.Signup(context.Background(), signupRequest("TAKEN@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, KindValidation, AsError(err).Kind)
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)

	req := signupRequest("not-an-email")
	req.Name = "Too short"
	req.Password = "weakpassword"
	err := requireKindErr(t, f, req)
	assert.Contains(t, err.Fields, "name")
	assert.Contains(t, err.Fields, "email")
	assert.Contains(t, err.Fields, "password")
}

func requireKindErr(t *testing.T, f *fixture, req entity.AuthSignupRequest) *Error {
	t.Helper()
	_, err := f.auth.Signup(context.Background(), req)
	return requireKind(t, err, KindValidation)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "someone@example.com", entity.RoleNormalUser)

	_, unknownErr := f.auth.Login(ctx, entity.AuthLoginRequest{Email: "nobody@example.com", Password: testPassword})
	_, wrongErr := f.auth.Login(ctx, entity.AuthLoginRequest{Email: "someone@example.com", Password: "Wrong#Pass1"})

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	for _, req := range []entity.AuthLoginRequest{
		{},
		{Email: "", Password: testPassword},
		{Email: "someone@example.com", Password: ""},
	} {
		_, err := f.auth.Login(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestLoginSucceedsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "mixed@example.com", entity.RoleAdmin)

	resp, err := f.auth.Login(context.Background(), entity.AuthLoginRequest{Email: " MIXED@example.com ", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "changer@example.com", entity.RoleNormalUser)

	err := f.auth.ChangePassword(ctx, user.ID, entity.ChangePasswordRequest{CurrentPassword: "Wrong#Pass1", NewPassword: "Fresh#Pass22"})
	assert.ErrorIs(t, err, ErrWrongCurrentPassword)

	err = f.auth.ChangePassword(ctx, user.ID, entity.ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "weak"})
	requireKind(t, err, KindValidation)

	require.NoError(t, f.auth.ChangePassword(ctx, user.ID, entity.ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "Fresh#Pass22"}))

	_, err = f.auth.Login(ctx, entity.AuthLoginRequest{Email: user.Email, Password: testPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, entity.AuthLoginRequest{Email: user.Email, Password: "Fresh#Pass22"})
	assert.NoError(t, err)
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	parts := strings.SplitN(link, "token=", 2)
	require.Len(t, parts, 2, "link without token: %s", link)
	return parts[1]
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "forgetful@example.com", entity.RoleStoreOwner)

	require.NoError(t, f.auth.RequestReset(ctx, entity.ResetPasswordRequest{Email: "unknown@example.com"}))
	assert.Empty(t, f.mail.sent)

	require.NoError(t, f.auth.RequestReset(ctx, entity.ResetPasswordRequest{Email: "Forgetful@Example.com"}))
	mail := f.mail.last(t)
	assert.Equal(t, user.Email, mail.to)
	assert.True(t, strings.HasPrefix(mail.link, "http://frontend.test/reset-password?token="), mail.link)
	token := tokenFromLink(t, mail.link)
	assert.Len(t, token, 64)

	require.NoError(t, f.auth.PerformReset(ctx, entity.PerformResetRequest{Token: token, NewPassword: "Reset#Pass33"}))

	err := f.auth.PerformReset(ctx, entity.PerformResetRequest{Token: token, NewPassword: "Other#Pass44"})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = f.auth.Login(ctx, entity.AuthLoginRequest{Email: user.Email, Password: "Reset#Pass33"})
	assert.NoError(t, err)
}

func TestPerformResetExpiredTokenIsRemoved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "late@example.com", entity.RoleNormalUser)

	require.NoError(t, f.auth.RequestReset(ctx, entity.ResetPasswordRequest{Email: "late@example.com"}))
	token := tokenFromLink(t, f.mail.last(t).link)

	f.auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	err := f.auth.PerformReset(ctx, entity.PerformResetRequest{Token: token, NewPassword: "Reset#Pass33"})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = f.repo.GetPasswordResetByToken(ctx, token)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = f.auth.Login(ctx, entity.AuthLoginRequest{Email: "late@example.com", Password: testPassword})
	assert.NoError(t, err)
}

func TestPerformResetUnknownToken(t *testing.T) {
	f := newFixture(t)
	err := f.auth.PerformReset(context.Background(), entity.PerformResetRequest{Token: "deadbeef", NewPassword: "Reset#Pass33"})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRequestResetMailFailureStaysGeneric(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "offline@example.com", entity.RoleNormalUser)
	f.mail.err = errors.New("smtp down")

	assert.NoError(t, f.auth.RequestReset(context.Background(), entity.ResetPasswordRequest{Email: "offline@example.com"}))
	assert.Len(t, f.mail.sent, 1)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "me@example.com", entity.RoleNormalUser)

	summary, err := f.auth.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", summary.Email)

	_, err = f.auth.Me(context.Background(), user.ID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

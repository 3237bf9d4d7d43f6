package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MyelinBots/vitals-go/internal/db/repositories/memstore"
	"github.com/MyelinBots/vitals-go/internal/logging"
	"github.com/MyelinBots/vitals-go/internal/services/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, *memstore.Store, *session.Manager) {
	t.Helper()
	store := memstore.New()
	sessions, err := session.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	svc, err := NewService(store, NewBcryptHasher(bcrypt.MinCost), sessions, logging.Discard())
	require.NoError(t, err)
	return svc, store, sessions
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:          "Ana Torres",
		BirthDate:     "1994-02-11",
		Sex:           "female",
		Goal:          "Lose Weight",
		ActivityLevel: "Moderate",
		Email:         "  Ana@Example.com ",
		Password:      "s3cret",
	}
}

func TestRegister(t *testing.T) {
	svc, store, _ := newTestService(t)

	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "Female", u.Sex)
	assert.Equal(t, "moderate", u.ActivityLevel)
	require.NotNil(t, u.Goal)
	assert.Equal(t, "lose weight", *u.Goal)
	assert.Equal(t, time.Date(1994, 2, 11, 0, 0, 0, 0, time.UTC), u.BirthDate)

	stored, err := store.Users().GetUserByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}

func TestRegister_BlankGoalIsUnset(t *testing.T) {
	svc, _, _ := newTestService(t)
	in := validInput()
	in.Goal = "   "

	u, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, u.Goal)
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	again := validInput()
	again.Email = "ANA@EXAMPLE.COM"
	_, err = svc.Register(context.Background(), again)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *RegisterInput)
		wantErr error
	}{
		{"missing name", func(in *RegisterInput) { in.Name = " " }, ErrMissingField},
		{"missing birth date", func(in *RegisterInput) { in.BirthDate = "" }, ErrMissingField},
		{"missing sex", func(in *RegisterInput) { in.Sex = "" }, ErrMissingField},
		{"missing email", func(in *RegisterInput) { in.Email = "  " }, ErrMissingField},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, ErrMissingField},
		{"missing activity", func(in *RegisterInput) { in.ActivityLevel = "" }, ErrMissingField},
		{"slashed date", func(in *RegisterInput) { in.BirthDate = "11/02/1994" }, ErrInvalidDate},
		{"impossible date", func(in *RegisterInput) { in.BirthDate = "1994-02-30" }, ErrInvalidDate},
		{"unknown sex", func(in *RegisterInput) { in.Sex = "robot" }, ErrInvalidChoice},
		{"unknown activity", func(in *RegisterInput) { in.ActivityLevel = "extreme" }, ErrInvalidChoice},
		{"name over 150 characters", func(in *RegisterInput) { in.Name = strings.Repeat("é", 151) }, ErrFieldTooLong},
		{"email over 150 characters", func(in *RegisterInput) { in.Email = strings.Repeat("a", 139) + "@example.com" }, ErrFieldTooLong},
		{"goal over 200 characters", func(in *RegisterInput) { in.Goal = strings.Repeat("g", 201) }, ErrFieldTooLong},
		{"password over 72 bytes", func(in *RegisterInput) { in.Password = strings.Repeat("a", 73) }, ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			in := validInput()
			tt.mutate(&in)

			u, err := svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, u)
		})
	}
}

func TestRegister_AcceptsValuesAtTheLimits(t *testing.T) {
	svc, _, _ := newTestService(t)
	in := validInput()
	in.Name = strings.Repeat("é", 150)
	in.Email = strings.Repeat("a", 138) + "@example.com"
	in.Goal = strings.Repeat("g", 200)
	in.Password = strings.Repeat("a", 72)

	u, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, []rune(u.Name), 150)
	assert.Len(t, u.Email, 150)
}

func TestLogin(t *testing.T) {
	svc, _, sessions := newTestService(t)
	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	sess, err := svc.Login(context.Background(), " ANA@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)

	id, err := sessions.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), "ana@example.com", "nope")
	_, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "s3cret")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("pw")
	require.NoError(t, err)
	assert.True(t, h.Verify(hash, "pw"))
	assert.False(t, h.Verify(hash, "PW"))
	assert.False(t, h.Verify("not-a-hash", "pw"))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

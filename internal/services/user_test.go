package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"axleague/internal/domain"
)

func TestUserServiceGetProfile(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(users, "user-1", "alice")
	svc := NewUserService(users, fakeSigner{})

	profile, err := svc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.Username)
	assert.Nil(t, profile.AvatarURL)

	users.byID["user-1"].AvatarKey = "avatars/user-1.jpg"
	profile, err = svc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile.AvatarURL)
	assert.Contains(t, *profile.AvatarURL, "avatars/user-1.jpg")
}

func TestUserServiceUpdateProfile(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(users, "user-1", "alice")
	svc := NewUserService(users, fakeSigner{})

	phone := "+34600000000"
	password := "newsecret"
	user, err := svc.UpdateProfile(context.Background(), "user-1", &domain.ProfileUpdateInput{
		Phone:    &phone,
		Password: &password,
	})
	require.NoError(t, err)

	require.NotNil(t, user.Phone)
	assert.Equal(t, phone, *user.Phone)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)))
}

func TestUserServiceUpdateProfileNoFields(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(users, "user-1", "alice")
	svc := NewUserService(users, fakeSigner{})

	_, err := svc.UpdateProfile(context.Background(), "user-1", &domain.ProfileUpdateInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserServiceUpdateProfileDuplicateUsername(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(users, "user-1", "alice")
	seedUser(users, "user-2", "bob")
	svc := NewUserService(users, fakeSigner{})

	taken := "bob"
	_, err := svc.UpdateProfile(context.Background(), "user-1", &domain.ProfileUpdateInput{Username: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	// Keeping your own username is fine.
	own := "Alice"
	user, err := svc.UpdateProfile(context.Background(), "user-1", &domain.ProfileUpdateInput{Username: &own})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestUserServiceUpdateProfileDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(users, "user-1", "alice")
	seedUser(users, "user-2", "bob")
	svc := NewUserService(users, fakeSigner{})

	taken := "bob@example.com"
	_, err := svc.UpdateProfile(context.Background(), "user-1", &domain.ProfileUpdateInput{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserServiceRequestAvatarUpload(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(users, "user-1", "alice")
	svc := NewUserService(users, fakeSigner{})

	ticket, err := svc.RequestAvatarUpload(context.Background(), "user-1", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "avatars/user-1.jpg", ticket.Key)
	assert.NotEmpty(t, ticket.UploadURL)
	assert.Positive(t, ticket.ExpiresIn)
	assert.Equal(t, ticket.Key, users.byID["user-1"].AvatarKey)

	_, err = svc.RequestAvatarUpload(context.Background(), "user-1", "image/gif")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

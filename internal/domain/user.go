package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already in use")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered user. PasswordHash never leaves the backend.
// swagger:model User
type User struct {
	ID           string    `json:"user_id" dynamodbav:"userId"`
	Username     string    `json:"username" dynamodbav:"username"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"passwordHash"`
	Role         string    `json:"role" dynamodbav:"role"`
	Firstname    *string   `json:"firstname" dynamodbav:"firstname"`
	Surname      *string   `json:"surname" dynamodbav:"surname"`
	Phone        *string   `json:"phone" dynamodbav:"phone"`
	DNI          *string   `json:"dni" dynamodbav:"dni"`
	BirthDate    *string   `json:"birth_date" dynamodbav:"birthDate"` // YYYY-MM-DD
	Position     *string   `json:"position" dynamodbav:"position"`
	Side         *string   `json:"side" dynamodbav:"side"`
	Number       *int      `json:"number" dynamodbav:"number"`
	PlayerCode   string    `json:"player_code" dynamodbav:"playerCode"`
	AvatarKey    string    `json:"-" dynamodbav:"avatarKey"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updatedAt"`
}

// UserProfileChanges carries the fields of a partial profile update. Nil
// pointers mean "unchanged".
type UserProfileChanges struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Firstname    *string
	Surname      *string
	Phone        *string
	DNI          *string
	BirthDate    *string
	Position     *string
	Side         *string
	Number       *int
}

// Empty reports whether no field is set.
func (c *UserProfileChanges) Empty() bool {
	return c.Username == nil && c.Email == nil && c.PasswordHash == nil &&
		c.Firstname == nil && c.Surname == nil && c.Phone == nil &&
		c.DNI == nil && c.BirthDate == nil && c.Position == nil &&
		c.Side == nil && c.Number == nil
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	// Create inserts the user with condition "userId absent"; ErrConflict if
	// the id is already taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPlayerCode(ctx context.Context, playerCode string) (*User, error)
	BatchGetByIDs(ctx context.Context, ids []string) ([]*User, error)
	// UpdateProfile applies the non-nil changes with condition "userId
	// exists" and returns the updated user.
	UpdateProfile(ctx context.Context, userID string, changes *UserProfileChanges) (*User, error)
	// SetAvatarKey stores the object key of the user's avatar with condition
	// "userId exists".
	SetAvatarKey(ctx context.Context, userID, key string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, username, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (userID, role string, err error)
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, in *SignUpInput) (*User, error)
	// Login accepts a username or an email as login.
	Login(ctx context.Context, login, password string) (token string, user *User, err error)
}

// SignUpInput is the strongly-typed signup request.
type SignUpInput struct {
	Username  string
	Email     string
	Password  string
	Firstname *string
	Surname   *string
	Phone     *string
	DNI       *string
	BirthDate *string
	Position  *string
	Side      *string
	Number    *int
}

// UserProfile is a user plus a presigned avatar URL, if any.
type UserProfile struct {
	User      *User   `json:"user"`
	AvatarURL *string `json:"avatar_url"`
}

// UserService defines the business logic for user profiles.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	// UpdateProfile applies a partial update; password and username/email
	// uniqueness rules are enforced here.
	UpdateProfile(ctx context.Context, userID string, in *ProfileUpdateInput) (*User, error)
	// RequestAvatarUpload issues a presigned PUT URL for the user's avatar
	// and records the object key on the user.
	RequestAvatarUpload(ctx context.Context, userID, contentType string) (*UploadTicket, error)
}

// ProfileUpdateInput is the strongly-typed partial profile update. Nil means
// "unchanged".
type ProfileUpdateInput struct {
	Username  *string
	Email     *string
	Password  *string
	Firstname *string
	Surname   *string
	Phone     *string
	DNI       *string
	BirthDate *string
	Position  *string
	Side      *string
	Number    *int
}

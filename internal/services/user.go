package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"axleague/internal/domain"
)

type userService struct {
	userRepo domain.UserRepository
	signer   domain.ObjectSigner
}

// NewUserService creates a UserService with the given repository and object
// signer.
func NewUserService(userRepo domain.UserRepository, signer domain.ObjectSigner) domain.UserService {
	return &userService{userRepo: userRepo, signer: signer}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := &domain.UserProfile{User: user}
	if user.AvatarKey != "" {
		url, err := s.signer.SignDownload(ctx, user.AvatarKey)
		if err != nil {
			return nil, fmt.Errorf("sign avatar url: %w", err)
		}
		profile.AvatarURL = &url
	}
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, in *domain.ProfileUpdateInput) (*domain.User, error) {
	changes := &domain.UserProfileChanges{
		Firstname: in.Firstname,
		Surname:   in.Surname,
		Phone:     in.Phone,
		DNI:       in.DNI,
		BirthDate: in.BirthDate,
		Position:  in.Position,
		Side:      in.Side,
		Number:    in.Number,
	}

	if in.Username != nil {
		username := strings.TrimSpace(strings.ToLower(*in.Username))
		if username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrInvalidInput)
		}
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if err == nil && existing.ID != userID {
			return nil, domain.ErrDuplicateUsername
		}
		changes.Username = &username
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if !emailRegexp.MatchString(email) {
			return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
		}
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if err == nil && existing.ID != userID {
			return nil, domain.ErrDuplicateEmail
		}
		changes.Email = &email
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashStr := string(hash)
		changes.PasswordHash = &hashStr
	}

	if changes.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}
	return s.userRepo.UpdateProfile(ctx, userID, changes)
}

func (s *userService) RequestAvatarUpload(ctx context.Context, userID, contentType string) (*domain.UploadTicket, error) {
	ext, err := imageExtension(contentType)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("avatars/%s.%s", userID, ext)
	url, expiresIn, err := s.signer.SignUpload(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("sign avatar upload: %w", err)
	}
	if err := s.userRepo.SetAvatarKey(ctx, userID, key); err != nil {
		return nil, err
	}
	return &domain.UploadTicket{Key: key, UploadURL: url, ExpiresIn: expiresIn}, nil
}

// imageExtension maps the accepted image content types to object-key
// extensions.
func imageExtension(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	default:
		return "", fmt.Errorf("%w: unsupported content type %q", domain.ErrInvalidInput, contentType)
	}
}

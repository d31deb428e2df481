package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"axleague/internal/domain"
)

const (
	bcryptCost     = 10
	minPasswordLen = 6
	defaultRole    = "USER"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo  domain.UserRepository
	issuer    domain.TokenIssuer
	jwtExpiry time.Duration
}

// NewAuthService creates an AuthService with the given repository and token
// issuer.
func NewAuthService(userRepo domain.UserRepository, issuer domain.TokenIssuer, jwtExpiry time.Duration) domain.AuthService {
	return &authService{
		userRepo:  userRepo,
		issuer:    issuer,
		jwtExpiry: jwtExpiry,
	}
}

func (s *authService) SignUp(ctx context.Context, in *domain.SignUpInput) (*domain.User, error) {
	username := strings.TrimSpace(strings.ToLower(in.Username))
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	// Advisory pre-checks. The GSIs lag writes, so a duplicate can still
	// slip through; these catch the common case with a friendly error.
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	playerCode, err := generatePlayerCode()
	if err != nil {
		return nil, fmt.Errorf("generate player code: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         defaultRole,
		Firstname:    in.Firstname,
		Surname:      in.Surname,
		Phone:        in.Phone,
		DNI:          in.DNI,
		BirthDate:    in.BirthDate,
		Position:     in.Position,
		Side:         in.Side,
		Number:       in.Number,
		PlayerCode:   playerCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login accepts a username or an email; anything containing "@" is treated
// as an email.
func (s *authService) Login(ctx context.Context, login, password string) (string, *domain.User, error) {
	login = strings.TrimSpace(strings.ToLower(login))

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.userRepo.GetByEmail(ctx, login)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Username, user.Role, s.jwtExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

const playerCodeLength = 8

var playerCodeAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

func generatePlayerCode() (string, error) {
	b := make([]rune, playerCodeLength)
	max := big.NewInt(int64(len(playerCodeAlphabet)))
	for i := 0; i < playerCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = playerCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

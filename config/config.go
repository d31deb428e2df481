package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AWSConfig holds the shared AWS credentials and region used by the
// DynamoDB, S3, and SES clients.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the DynamoDB endpoint (e.g. a local instance).
	// Empty uses the regional default.
	Endpoint string
}

// TablesConfig holds the DynamoDB table and index names.
type TablesConfig struct {
	Users              string
	Teams              string
	TeamMembers        string
	TeamInvites        string
	Events             string
	EventRegistrations string

	UsernameIndex    string
	EmailIndex       string
	PlayerCodeIndex  string
	UserTeamsIndex   string
	UserInvitesIndex string
}

// StorageConfig holds the S3 bucket and signed-URL lifetimes.
type StorageConfig struct {
	Bucket      string
	UploadTTL   time.Duration
	DownloadTTL time.Duration
}

// MailerConfig holds the invite-notification mailer settings.
type MailerConfig struct {
	Provider    string // "ses" or "noop"
	FromAddress string
	FromName    string
}

// Config holds all configuration for the application. It is created once at
// process start and shared by immutable reference.
type Config struct {
	Environment    string
	Port           string
	AllowedOrigins []string

	JWTSecret string
	JWTExpiry time.Duration

	AWS     AWSConfig
	Tables  TablesConfig
	Storage StorageConfig
	Mailer  MailerConfig
}

// Load loads configuration from environment variables. It attempts to load a
// .env file first when not in production; missing .env is not an error
// because production relies on system environment variables.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:    env,
		Port:           getenv("PORT", "8080"),
		AllowedOrigins: splitAndTrim(os.Getenv("ALLOWED_ORIGINS")),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      durationHours("JWT_EXPIRY_HOURS", 168),
		AWS: AWSConfig{
			Region:          getenv("AWS_REGION", "sa-east-1"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Endpoint:        os.Getenv("DYNAMODB_ENDPOINT"),
		},
		Tables: TablesConfig{
			Users:              getenv("USERS_TABLE", "Users"),
			Teams:              getenv("TEAMS_TABLE", "Teams"),
			TeamMembers:        getenv("TEAM_MEMBERS_TABLE", "TeamMembers"),
			TeamInvites:        getenv("TEAM_INVITES_TABLE", "TeamInvites"),
			Events:             getenv("EVENTS_TABLE", "Events"),
			EventRegistrations: getenv("EVENT_REGISTRATIONS_TABLE", "EventRegistrations"),
			UsernameIndex:      getenv("USERNAME_INDEX", "GSI_Username"),
			EmailIndex:         getenv("EMAIL_INDEX", "GSI_Email"),
			PlayerCodeIndex:    getenv("PLAYER_CODE_INDEX", "GSI_PlayerCode"),
			UserTeamsIndex:     getenv("USER_TEAMS_INDEX", "GSI_UserTeams"),
			UserInvitesIndex:   getenv("USER_INVITES_INDEX", "GSI_UserInvites"),
		},
		Storage: StorageConfig{
			Bucket:      os.Getenv("S3_BUCKET"),
			UploadTTL:   durationSeconds("SIGNED_UPLOAD_TTL_SECONDS", 300),
			DownloadTTL: durationSeconds("SIGNED_URL_TTL_SECONDS", 3600),
		},
		Mailer: MailerConfig{
			Provider:    getenv("MAILER_PROVIDER", "noop"),
			FromAddress: os.Getenv("MAILER_FROM_ADDRESS"),
			FromName:    os.Getenv("MAILER_FROM_NAME"),
		},
	}

	if len(cfg.JWTSecret) < 20 {
		return nil, fmt.Errorf("JWT_SECRET must be set and at least 20 characters")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func durationHours(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Hour
		}
	}
	return time.Duration(fallback) * time.Hour
}

func durationSeconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}

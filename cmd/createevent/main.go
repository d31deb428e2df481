// Command createevent creates an event from a JSON definition file. Events
// are operator-managed; there is no HTTP surface for creating them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/google/uuid"

	"axleague/config"
	"axleague/internal/domain"
	"axleague/internal/repository/dynamo"
)

type eventFile struct {
	EventID              string   `json:"event_id"`
	Season               int      `json:"season"`
	Name                 string   `json:"name"`
	Location             *string  `json:"location"`
	Status               string   `json:"status"`
	Categories           []string `json:"categories"`
	RegistrationOpensAt  string   `json:"registration_opens_at"`
	RegistrationClosesAt string   `json:"registration_closes_at"`
	MaxTeams             *int     `json:"max_teams"`
}

func main() {
	file := flag.String("file", "", "path to the event definition JSON file")
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: createevent --file event.json")
		os.Exit(2)
	}

	event, err := parseEventFile(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid event definition:", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	awsCfg := aws.Config{
		Region: cfg.AWS.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				cfg.AWS.AccessKeyID,
				cfg.AWS.SecretAccessKey,
				"",
			),
		),
	}
	repo := dynamo.NewEventRepository(dynamo.NewClient(awsCfg, cfg.AWS.Endpoint), cfg.Tables)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repo.Create(ctx, event); err != nil {
		fmt.Fprintln(os.Stderr, "create event:", err)
		os.Exit(1)
	}
	fmt.Printf("created event %s (%q, season %d, status %s)\n",
		event.ID, event.Name, event.Season, event.Status)
}

func parseEventFile(path string) (*domain.Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in eventFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}

	if in.Season <= 0 {
		return nil, fmt.Errorf("season is required")
	}
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !domain.ValidEventStatus(in.Status) {
		return nil, fmt.Errorf("invalid status %q", in.Status)
	}
	if len(in.Categories) == 0 {
		return nil, fmt.Errorf("at least one category is required")
	}
	opensAt, err := time.Parse(time.RFC3339, in.RegistrationOpensAt)
	if err != nil {
		return nil, fmt.Errorf("registration_opens_at: %w", err)
	}
	closesAt, err := time.Parse(time.RFC3339, in.RegistrationClosesAt)
	if err != nil {
		return nil, fmt.Errorf("registration_closes_at: %w", err)
	}
	if !closesAt.After(opensAt) {
		return nil, fmt.Errorf("registration_closes_at must be after registration_opens_at")
	}
	if in.MaxTeams != nil && *in.MaxTeams <= 0 {
		return nil, fmt.Errorf("max_teams must be positive")
	}

	id := in.EventID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	return &domain.Event{
		ID:                   id,
		Season:               in.Season,
		Name:                 in.Name,
		Location:             in.Location,
		Status:               in.Status,
		Categories:           in.Categories,
		RegistrationOpensAt:  opensAt,
		RegistrationClosesAt: closesAt,
		MaxTeams:             in.MaxTeams,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

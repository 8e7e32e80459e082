package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/portal-go-api/internal/kv"
	"github.com/noah-isme/portal-go-api/internal/models"
)

// UserRepository persists account records, the subject-id reverse mapping,
// and the global student roster.
type UserRepository interface {
	// Create writes the account record and its userid reverse mapping.
	Create(ctx context.Context, user models.User) error
	GetByUsername(ctx context.Context, username string) (models.User, bool, error)
	UsernameByID(ctx context.Context, id string) (string, bool, error)
	// AddToRoster inserts a student into the all_students set. Inserting an
	// already present username is a no-op.
	AddToRoster(ctx context.Context, entry models.RosterEntry) error
	Roster(ctx context.Context) ([]models.RosterEntry, error)
}

type userRepository struct {
	store kv.Store
}

// NewUserRepository builds a KV-backed user repository.
func NewUserRepository(store kv.Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user %s: %w", user.Username, err)
	}

	if err := r.store.Set(ctx, kv.UserKey(user.Username), payload); err != nil {
		return fmt.Errorf("failed to store user %s: %w", user.Username, err)
	}

	// The reverse mapping is written second; a crash between the two writes
	// leaves an account that cannot be resolved from a token, which the
	// identity resolver reports instead of papering over.
	username, err := json.Marshal(user.Username)
	if err != nil {
		return fmt.Errorf("failed to encode username: %w", err)
	}

	if err := r.store.Set(ctx, kv.UserIDKey(user.ID), username); err != nil {
		return fmt.Errorf("failed to store userid mapping for %s: %w", user.Username, err)
	}

	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (models.User, bool, error) {
	payload, exists, err := r.store.Get(ctx, kv.UserKey(username))
	if err != nil || !exists {
		return models.User{}, false, err
	}

	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return models.User{}, false, fmt.Errorf("failed to decode user %s: %w", username, err)
	}

	return user, true, nil
}

func (r *userRepository) UsernameByID(ctx context.Context, id string) (string, bool, error) {
	payload, exists, err := r.store.Get(ctx, kv.UserIDKey(id))
	if err != nil || !exists {
		return "", false, err
	}

	var username string
	if err := json.Unmarshal(payload, &username); err != nil {
		return "", false, fmt.Errorf("failed to decode userid mapping: %w", err)
	}

	return username, true, nil
}

func (r *userRepository) AddToRoster(ctx context.Context, entry models.RosterEntry) error {
	roster, err := r.Roster(ctx)
	if err != nil {
		return err
	}

	for _, existing := range roster {
		if existing.Username == entry.Username {
			return nil
		}
	}

	roster = append(roster, entry)

	payload, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}

	if err := r.store.Set(ctx, kv.RosterKey, payload); err != nil {
		return fmt.Errorf("failed to store roster: %w", err)
	}

	return nil
}

func (r *userRepository) Roster(ctx context.Context) ([]models.RosterEntry, error) {
	payload, exists, err := r.store.Get(ctx, kv.RosterKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []models.RosterEntry{}, nil
	}

	var roster []models.RosterEntry
	if err := json.Unmarshal(payload, &roster); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}

	return roster, nil
}

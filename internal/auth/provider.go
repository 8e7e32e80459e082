// Package auth plays the role of the external identity provider: it owns
// credential records under its own key namespace, mints bearer tokens, and
// verifies them back to a stable subject id. The rest of the portal only
// ever consumes subject ids.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/portal-go-api/internal/kv"
)

var (
	// ErrBadCredentials indicates an unknown username or wrong password.
	ErrBadCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a token that failed verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrAlreadyRegistered indicates a credential record already exists.
	ErrAlreadyRegistered = errors.New("credential already registered")
)

const credentialPrefix = "authcred:"

type credentialRecord struct {
	SubjectID    string `json:"subjectId"`
	PasswordHash string `json:"passwordHash"`
}

// Provider authenticates credentials and verifies bearer tokens.
type Provider interface {
	// Register creates a credential record and returns the new subject id.
	Register(ctx context.Context, username, password string) (string, error)
	// Login checks the password and returns a signed bearer token.
	Login(ctx context.Context, username, password string) (string, error)
	// Verify validates a bearer token and returns its subject id.
	Verify(ctx context.Context, token string) (string, error)
}

type jwtProvider struct {
	store  kv.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTProvider builds a Provider that signs HS256 tokens and keeps bcrypt
// password hashes in the supplied store.
func NewJWTProvider(store kv.Store, secret string, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &jwtProvider{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (p *jwtProvider) Register(ctx context.Context, username, password string) (string, error) {
	key := credentialPrefix + username

	_, exists, err := p.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read credential record: %w", err)
	}
	if exists {
		return "", ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	record := credentialRecord{
		SubjectID:    uuid.NewString(),
		PasswordHash: string(hash),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode credential record: %w", err)
	}

	if err := p.store.Set(ctx, key, payload); err != nil {
		return "", fmt.Errorf("failed to store credential record: %w", err)
	}

	return record.SubjectID, nil
}

func (p *jwtProvider) Login(ctx context.Context, username, password string) (string, error) {
	payload, exists, err := p.store.Get(ctx, credentialPrefix+username)
	if err != nil {
		return "", fmt.Errorf("failed to read credential record: %w", err)
	}
	if !exists {
		return "", ErrBadCredentials
	}

	var record credentialRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return "", fmt.Errorf("failed to decode credential record: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}

	issuedAt := p.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      record.SubjectID,
		"username": username,
		"iat":      issuedAt.Unix(),
		"exp":      issuedAt.Add(p.ttl).Unix(),
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (p *jwtProvider) Verify(_ context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrInvalidToken
	}

	return subject, nil
}

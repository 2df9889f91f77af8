// Package keyring stores the bearer token that authenticates CLI and browser
// clients to the daemon. The OS keyring is preferred; a 0600 file in the
// config directory is used where no keyring service is available.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	Service    = "dayplan"
	TokenField = "rpc-token"
	tokenBytes = 32
)

// ErrNotFound is returned when no token has been stored yet.
var ErrNotFound = errors.New("token not found")

// TokenStore persists a single token.
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

// SystemStore keeps the token in the OS keyring.
type SystemStore struct {
	Service string
	User    string
}

// NewSystemStore returns the store used by the daemon.
func NewSystemStore() *SystemStore {
	return &SystemStore{Service: Service, User: TokenField}
}

func (s *SystemStore) Get() (string, error) {
	v, err := keyringGet(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SystemStore) Set(token string) error {
	return keyringSet(s.Service, s.User, token)
}

func (s *SystemStore) Delete() error {
	err := keyringDelete(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// NewToken returns a random hex token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// EnsureToken returns the stored token, creating and storing one first if
// the store is empty.
func EnsureToken(s TokenStore) (string, error) {
	tok, err := s.Get()
	if err == nil && strings.TrimSpace(tok) != "" {
		return strings.TrimSpace(tok), nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}
	tok, err = NewToken()
	if err != nil {
		return "", err
	}
	if err := s.Set(tok); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return tok, nil
}

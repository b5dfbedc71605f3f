// Package credstore provides the in-memory login credential table loaded
// from a YAML file at process start.
package credstore

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"wardgate/internal/domain"
)

// Compile-time check.
var _ domain.CredentialStore = (*Memory)(nil)

// Memory is a read-only credential table held in memory. It is populated
// once at construction and never mutated, so unsynchronized concurrent
// lookups are safe.
type Memory struct {
	byUsername map[string]domain.Credential
}

// NewMemory builds a Memory store from the given credentials. Duplicate
// usernames are a configuration defect.
func NewMemory(creds []domain.Credential) (*Memory, error) {
	m := &Memory{byUsername: make(map[string]domain.Credential, len(creds))}
	for _, c := range creds {
		if c.Username == "" {
			return nil, domain.ErrValidation("credential with empty username")
		}
		if c.Password == "" {
			return nil, domain.ErrValidation("credential %q has an empty password", c.Username)
		}
		if _, dup := m.byUsername[c.Username]; dup {
			return nil, domain.ErrValidation("duplicate username %q in credential table", c.Username)
		}
		m.byUsername[c.Username] = c
	}
	return m, nil
}

// Lookup returns the credential for username, or a NotFoundError.
func (m *Memory) Lookup(_ context.Context, username string) (*domain.Credential, error) {
	c, ok := m.byUsername[username]
	if !ok {
		return nil, domain.ErrNotFound("credential %q not found", username)
	}
	return &c, nil
}

// Len returns the number of stored credentials.
func (m *Memory) Len() int { return len(m.byUsername) }

// credentialFile is the on-disk YAML shape of the credential table.
type credentialFile struct {
	Users []struct {
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"users"`
}

// LoadYAMLFile parses a YAML credential file into a Memory store.
//
// Expected shape:
//
//	users:
//	  - username: admin
//	    password: admin123
//	    display_name: Administrator
func LoadYAMLFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}

	var file credentialFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse credential file %s: %w", path, err)
	}
	if len(file.Users) == 0 {
		return nil, domain.ErrValidation("credential file %s contains no users", path)
	}

	creds := make([]domain.Credential, 0, len(file.Users))
	for _, u := range file.Users {
		creds = append(creds, domain.Credential{
			Username:    u.Username,
			Password:    u.Password,
			DisplayName: u.DisplayName,
		})
	}
	return NewMemory(creds)
}

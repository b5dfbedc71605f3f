package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardgate/internal/domain"
)

func TestNewMemory_LookupRoundtrip(t *testing.T) {
	m, err := NewMemory([]domain.Credential{
		{Username: "admin", Password: "admin123", DisplayName: "Administrator"},
		{Username: "viewer", Password: "hunter2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	c, err := m.Lookup(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin123", c.Password)
	assert.Equal(t, "Administrator", c.DisplayName)
}

func TestNewMemory_Unknown(t *testing.T) {
	m, err := NewMemory([]domain.Credential{{Username: "admin", Password: "x"}})
	require.NoError(t, err)

	_, err = m.Lookup(context.Background(), "nope")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestNewMemory_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		creds []domain.Credential
	}{
		{"duplicate username", []domain.Credential{
			{Username: "admin", Password: "a"},
			{Username: "admin", Password: "b"},
		}},
		{"empty username", []domain.Credential{{Username: "", Password: "a"}}},
		{"empty password", []domain.Credential{{Username: "admin", Password: ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMemory(tt.creds)
			var validation *domain.ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	content := `users:
  - username: admin
    password: admin123
    display_name: Administrator
  - username: viewer
    password: hunter2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m, err := LoadYAMLFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	c, err := m.Lookup(context.Background(), "viewer")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", c.Password)
}

func TestLoadYAMLFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadYAMLFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty users", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("users: []\n"), 0o600))
		_, err := LoadYAMLFile(path)
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("users: [\n"), 0o600))
		_, err := LoadYAMLFile(path)
		assert.Error(t, err)
	})
}

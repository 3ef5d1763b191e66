package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:   "valid json config",
			config: Config{Backend: BackendJSON, DataDir: "/tmp/data"},
		},
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
		},
		{
			name:   "empty DataDir is valid at config level",
			config: Config{Backend: BackendJSON},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDefaultDBFile(t *testing.T) {
	assert.Equal(t, "db.json", DefaultDBFile(BackendJSON))
	assert.Equal(t, "db.sqlite", DefaultDBFile(BackendSQLite))
	assert.Equal(t, "db.json", DefaultDBFile(""))
}

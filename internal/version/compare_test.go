package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/market-sim/pkg/errors"
)

func TestCheckConfigCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		binary        string
		config        string
		expectError   bool
		errorContains string
	}{
		{name: "exact match", binary: "0.3.0", config: "0.3.0"},
		{name: "binary patch higher", binary: "0.3.2", config: "0.3.0"},
		{name: "config patch higher", binary: "0.3.0", config: "0.3.7"},
		{name: "v prefix on both", binary: "v1.4.0", config: "v1.4.1"},
		{name: "v prefix on one side", binary: "v1.4.0", config: "1.4.0"},
		{name: "empty config version", binary: "0.3.0", config: ""},
		{name: "binary is main", binary: "main", config: "9.9.9"},
		{name: "config is main", binary: "0.3.0", config: "main"},
		{
			name:          "minor differs",
			binary:        "0.4.0",
			config:        "0.3.0",
			expectError:   true,
			errorContains: "minor version mismatch",
		},
		{
			name:          "major differs",
			binary:        "2.0.0",
			config:        "1.0.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:          "invalid binary version",
			binary:        "banana",
			config:        "1.0.0",
			expectError:   true,
			errorContains: "invalid binary version",
		},
		{
			name:          "invalid config version",
			binary:        "1.0.0",
			config:        "not-a-version",
			expectError:   true,
			errorContains: "invalid config version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfigCompatibility(tt.binary, tt.config)
			if !tt.expectError {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.True(t, errors.HasCode(err, errors.ErrCodeIncompatibleVersion))
		})
	}
}

func TestGetVersion(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "v9.8.7"
	assert.Equal(t, "v9.8.7", GetVersion())
}

// SPDX-License-Identifier: MIT

package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/ctgflow/config"
	"github.com/katalvlaran/ctgflow/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ctgflow.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefaultsValid(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.BoundScreening)
	assert.Equal(t, sparse.OrderMinimumDegree, cfg.SparseOrdering())
	assert.Greater(t, cfg.EffectiveWorkers(), 0)
}

func TestLoad_OverridesKeepDefaults(t *testing.T) {
	p := writeFile(t, "violation_cost: 1000\nworkers: 3\nordering: natural\nlog_level: debug\n")
	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, cfg.ViolationCost)
	assert.Equal(t, 3, cfg.EffectiveWorkers())
	assert.Equal(t, sparse.OrderNatural, cfg.SparseOrdering())
	assert.Equal(t, sparse.DefaultPivotThreshold, cfg.PivotThreshold)
	assert.True(t, cfg.BoundScreening)
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_BoundScreeningOff(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "bound_screening: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.BoundScreening)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative cost", "violation_cost: -1\n"},
		{"negative workers", "workers: -2\n"},
		{"pivot too large", "pivot_threshold: 1.5\n"},
		{"pivot zero", "pivot_threshold: 0\n"},
		{"ordering", "ordering: amd\n"},
		{"level", "log_level: loud\n"},
		{"format", "log_format: xml\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tc.body))
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

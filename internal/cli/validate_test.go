package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	content := `
function: sph_bessel
rows:
  - {n: 0, x: 1.0, expected: 0.8414709848078965}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid")
	assert.Contains(t, out, "1 rows")
}

func TestValidateInvalidDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("function: f\nrows:\n  - {n: -2, x: 1.0, expected: 0.5}\n"), 0644))

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E_DATASET")
}

func TestValidateJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	content := `
function: sph_bessel
rows:
  - {n: 0, x: 1.0, expected: 0.8414709848078965}
  - {n: 1, x: 1.0, expected: 0.30116867893975674}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := execute(t, "validate", path, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, float64(2), data["rows"])
}

func TestValidateMissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

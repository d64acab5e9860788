package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specfun/sfbench/internal/report"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunMissingDatabaseFlag(t *testing.T) {
	_, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Contains(t, err.Error(), "db")
}

func TestRunEndToEnd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")

	out, err := execute(t, "run", "--db", dbPath, "--min-time", "1ms", "--repeats", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "sfbench")
	assert.Contains(t, out, "ns/call")

	// Both default variants recorded, sharing one run ID.
	sink, err := report.Open(dbPath)
	require.NoError(t, err)
	defer sink.Close()

	recs, err := sink.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, recs[0].RunID, recs[1].RunID)
	assert.Equal(t, "sfbench", recs[0].Source)
	assert.Equal(t, "sfbench (no internal promotion)", recs[1].Source)
	for _, r := range recs {
		assert.Contains(t, r.Series, "sph_bessel")
		assert.Contains(t, r.Series, "tests selected")
		assert.GreaterOrEqual(t, r.ElapsedSeconds, 0.0)
		assert.Greater(t, r.Calls, 0)
		assert.LessOrEqual(t, r.RowsUsed, r.RowsTotal)
		assert.Contains(t, r.Group, "Library Comparison with")
	}
}

func TestRunWithSeriesVariant(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")

	_, err := execute(t, "run", "--db", dbPath, "--min-time", "1ms", "--repeats", "1", "--series")
	require.NoError(t, err)

	sink, err := report.Open(dbPath)
	require.NoError(t, err)
	defer sink.Close()

	recs, err := sink.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "sfbench/series", recs[2].Source)
	// The series implementation cannot evaluate large-argument rows,
	// so screening shrinks the working set below the full table.
	assert.Less(t, recs[2].RowsUsed, recs[2].RowsTotal)
}

func TestRunJSONOutput(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")

	out, err := execute(t, "run", "--db", dbPath, "--min-time", "1ms", "--repeats", "1", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestRunCustomDataset(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "small.yaml")
	content := `
function: sph_bessel
rows:
  - {n: 0, x: 1.0, expected: 0.8414709848078965}
  - {n: 1, x: 1.0, expected: 0.30116867893975674}
  - {n: 2, x: 1.0, expected: 0.06203505201137386}
`
	require.NoError(t, os.WriteFile(dataPath, []byte(content), 0644))
	dbPath := filepath.Join(dir, "results.db")

	_, err := execute(t, "run", "--db", dbPath, "--dataset", dataPath, "--min-time", "1ms", "--repeats", "1")
	require.NoError(t, err)

	sink, err := report.Open(dbPath)
	require.NoError(t, err)
	defer sink.Close()

	recs, err := sink.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, 3, recs[0].RowsTotal)
	assert.Equal(t, 3, recs[0].RowsUsed)
	assert.Contains(t, recs[0].Series, "(3/3 tests selected)")
}

// An unreachable sink is a command error: nothing gets benchmarked if
// the result cannot be recorded.
func TestRunSinkUnavailable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := execute(t, "run", "--db", filepath.Join(blocker, "results.db"), "--min-time", "1ms")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunBadDataset(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(dataPath, []byte("function: f\nrows: []\n"), 0644))

	_, err := execute(t, "run", "--db", filepath.Join(dir, "r.db"), "--dataset", dataPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

// A dataset no variant can reproduce leaves nothing to time: the run
// must fail rather than benchmark an empty working set.
func TestRunScreeningRejectsAllRows(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "wrong.yaml")
	// Schema-valid rows whose reference values are far from anything
	// the implementations compute, so screening drops every row.
	content := `
function: sph_bessel
rows:
  - {n: 0, x: 1.0, expected: 999.0}
  - {n: 2, x: 1.0, expected: 999.0}
`
	require.NoError(t, os.WriteFile(dataPath, []byte(content), 0644))

	_, err := execute(t, "run", "--db", filepath.Join(dir, "r.db"), "--dataset", dataPath, "--min-time", "1ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected every dataset row")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "run", "--db", "x.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

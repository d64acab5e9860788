package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSink(t *testing.T) *Sink {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(series, source string) Record {
	r := NewRecord("run-1", "Library Comparison with go1.25 on linux/amd64", series, source)
	r.ElapsedSeconds = 0.25
	r.Calls = 63000
	r.RowsUsed = 63
	r.RowsTotal = 63
	r.MeanNsPerCall = 45.0
	return r
}

// Appending several records in one run produces distinct rows; none
// overwrites another.
func TestAppendIsAppendOnly(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	series := []string{
		"sph_bessel (63/63 tests selected)",
		"sph_bessel (52/63 tests selected)",
		"sph_bessel (40/63 tests selected)",
	}
	for _, sl := range series {
		require.NoError(t, s.Append(ctx, testRecord(sl, "sfbench")))
	}

	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i, r := range recs {
		assert.Equal(t, series[i], r.Series, "insertion order preserved")
	}
}

func TestAppendDuplicateIDRejected(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	rec := testRecord("sph_bessel (63/63 tests selected)", "sfbench")
	require.NoError(t, s.Append(ctx, rec))
	err := s.Append(ctx, rec)
	require.Error(t, err, "records are write-once")
}

func TestAppendValidation(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	neg := testRecord("s", "src")
	neg.ElapsedSeconds = -1
	require.Error(t, s.Append(ctx, neg))

	bad := testRecord("s", "src")
	bad.RowsUsed = 10
	bad.RowsTotal = 5
	require.Error(t, s.Append(ctx, bad))

	unlabeled := testRecord("s", "src")
	unlabeled.Group = ""
	require.Error(t, s.Append(ctx, unlabeled))
}

// An unreachable sink is fatal: Open must fail, not limp along.
func TestOpenUnavailable(t *testing.T) {
	// A path whose parent is a regular file cannot be created.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := Open(filepath.Join(blocker, "results.db"))
	require.Error(t, err)
}

func TestSinkAccumulatesAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Append(ctx, testRecord("series-a", "sfbench")))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	require.NoError(t, s2.Append(ctx, testRecord("series-b", "sfbench")))

	recs, err := s2.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

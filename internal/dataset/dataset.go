// Package dataset loads reference tables for the benchmark harness.
//
// A dataset file is YAML, validated against an embedded CUE schema
// before decoding. Each row is a fixed tuple: integer order, real
// argument, expected reference value. Rows are immutable once loaded
// and their file order is preserved for reproducible runs.
package dataset

import (
	_ "embed"
	"fmt"
)

//go:embed default.yaml
var defaultYAML []byte

// Row is one test case: the order and argument passed to the function
// under test, and the precomputed reference result used for screening.
type Row struct {
	N        int     `yaml:"n"`
	X        float64 `yaml:"x"`
	Expected float64 `yaml:"expected"`
}

// Table is an ordered, immutable sequence of rows for one function.
type Table struct {
	// Function names the routine the rows were generated for.
	Function string `yaml:"function"`

	// Rows in file order.
	Rows []Row `yaml:"rows"`

	// Source is the path the table was loaded from, or "embedded".
	Source string `yaml:"-"`
}

// Default returns the reference table compiled into the binary, so the
// tool runs with no dataset argument. The table is re-parsed per call;
// callers own the returned value.
func Default() (*Table, error) {
	t, err := parse("embedded", defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", err)
	}
	return t, nil
}

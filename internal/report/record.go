package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one comparable benchmark data point, keyed for later
// tabulation by (group, series, source).
type Record struct {
	ID        string `json:"id"`
	RunID     string `json:"run_id"`
	CreatedAt string `json:"created_at"`

	// Group identifies the platform/toolchain, e.g.
	// "Library Comparison with go1.25 on linux/amd64".
	Group string `json:"group"`

	// Series identifies the function and how much of the dataset was
	// used, e.g. "sph_bessel (63/63 tests selected)".
	Series string `json:"series"`

	// Source identifies the implementation variant.
	Source string `json:"source"`

	ElapsedSeconds  float64 `json:"elapsed_seconds"`
	Calls           int     `json:"calls"`
	RowsUsed        int     `json:"rows_used"`
	RowsTotal       int     `json:"rows_total"`
	MeanNsPerCall   float64 `json:"mean_ns_per_call"`
	StddevNsPerCall float64 `json:"stddev_ns_per_call"`
}

// NewRecord stamps a record with a fresh ID and UTC timestamp. RunID is
// supplied by the caller so all variants of one run share it.
func NewRecord(runID, group, series, source string) Record {
	return Record{
		ID:        uuid.NewString(),
		RunID:     runID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Group:     group,
		Series:    series,
		Source:    source,
	}
}

func (r Record) validate() error {
	if r.ID == "" || r.RunID == "" {
		return fmt.Errorf("record missing id")
	}
	if r.Group == "" || r.Series == "" || r.Source == "" {
		return fmt.Errorf("record missing labels")
	}
	if r.ElapsedSeconds < 0 {
		return fmt.Errorf("negative elapsed time %g", r.ElapsedSeconds)
	}
	if r.RowsUsed > r.RowsTotal {
		return fmt.Errorf("rows used %d exceeds total %d", r.RowsUsed, r.RowsTotal)
	}
	return nil
}

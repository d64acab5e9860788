package report

import (
	"context"
	"math"
	"slices"
)

// Matrix is the accumulated comparison view: one table per group, one
// row per series, one column per source. Cell values are per-call
// costs normalized within their row, so the fastest implementation of
// each function reads 1.00.
type Matrix struct {
	Tables []TableView `json:"tables"`
}

// TableView is the comparison table for one group label.
type TableView struct {
	Group   string      `json:"group"`
	Sources []string    `json:"sources"`
	Rows    []SeriesRow `json:"rows"`
}

// SeriesRow holds one series' cells, index-aligned with Sources. A nil
// cell means that source was never benchmarked for this series.
type SeriesRow struct {
	Series string  `json:"series"`
	Cells  []*Cell `json:"cells"`
}

// Cell is one (series, source) timing.
type Cell struct {
	MeanNsPerCall float64 `json:"mean_ns_per_call"`
	Relative      float64 `json:"relative"`
}

// Matrix tabulates all records. Groups, series, and sources appear in
// first-insertion order; when the same (group, series, source) was
// recorded more than once across runs, the latest record wins.
func (s *Sink) Matrix(ctx context.Context) (Matrix, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return Matrix{}, err
	}
	return buildMatrix(recs), nil
}

// tableAcc accumulates one group's records preserving first-insertion
// order of sources and series.
type tableAcc struct {
	sources []string
	series  []string
	cells   map[string]map[string]float64 // series -> source -> mean ns/call
}

func buildMatrix(recs []Record) Matrix {
	var groups []string
	accs := map[string]*tableAcc{}

	for _, r := range recs {
		acc, ok := accs[r.Group]
		if !ok {
			acc = &tableAcc{cells: map[string]map[string]float64{}}
			accs[r.Group] = acc
			groups = append(groups, r.Group)
		}
		if !slices.Contains(acc.sources, r.Source) {
			acc.sources = append(acc.sources, r.Source)
		}
		if _, ok := acc.cells[r.Series]; !ok {
			acc.series = append(acc.series, r.Series)
			acc.cells[r.Series] = map[string]float64{}
		}
		acc.cells[r.Series][r.Source] = r.MeanNsPerCall
	}

	var m Matrix
	for _, group := range groups {
		acc := accs[group]
		tv := TableView{Group: group, Sources: acc.sources}
		for _, series := range acc.series {
			row := SeriesRow{Series: series, Cells: make([]*Cell, len(acc.sources))}
			best := math.Inf(1)
			for si, src := range acc.sources {
				mean, ok := acc.cells[series][src]
				if !ok {
					continue
				}
				row.Cells[si] = &Cell{MeanNsPerCall: mean}
				if mean < best {
					best = mean
				}
			}
			for _, c := range row.Cells {
				if c != nil && best > 0 {
					c.Relative = c.MeanNsPerCall / best
				}
			}
			tv.Rows = append(tv.Rows, row)
		}
		m.Tables = append(m.Tables, tv)
	}
	return m
}

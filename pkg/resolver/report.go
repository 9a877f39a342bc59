package resolver

import (
	"github.com/matzehuels/ccreverse/pkg/asset"
	"github.com/matzehuels/ccreverse/pkg/report"
)

// Report counts what a resolution run saw and produced.
type Report struct {
	Documents int
	Records   map[asset.Kind]int

	// Skipped counts records with an unexpected structure.
	Skipped int
	// Unresolved counts records whose identifier could not be resolved.
	Unresolved int
	// MissingNatives counts native files that were not in the file index.
	MissingNatives int
	// BadIdentifiers counts non-string identifier fields.
	BadIdentifiers int

	Pictures     int // single-frame textures
	Sheets       int // stitched sprite sheets
	Orphans      int // images no record referenced
	Fonts        int
	DroppedFonts int

	// Canceled is set when the context ended before the second phase
	// completed; the plan then holds a partial result.
	Canceled bool

	Graph report.Graph
}

func newReport() Report {
	return Report{Records: make(map[asset.Kind]int)}
}

// RecordCount returns the total number of typed records seen.
func (r Report) RecordCount() int {
	n := 0
	for _, c := range r.Records {
		n += c
	}
	return n
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/ccreverse/pkg/report"
)

// RenderGraph renders the texture graph of a run in the given format.
func RenderGraph(ctx context.Context, g report.Graph, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	dot := g.ToDOT()
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		data, err := report.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

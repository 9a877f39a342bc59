package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ccreverse/pkg/errors"
	"github.com/matzehuels/ccreverse/pkg/pipeline"
)

func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "graph <source>",
		Short: "Render which frames, sheets and fonts come from which texture",
		Long: `Resolve a build without writing a project and render its texture graph.

Textures are boxes, sprite frames ellipses and bitmap fonts notes. Stitched
sprite sheets are highlighted, orphan images are dashed.

Examples:
  ccreverse graph build/web-mobile > textures.dot
  ccreverse graph build/web-mobile -o textures.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipeline.OptionsFromConfig(cfg)
			opts.Source = args[0]
			opts.DryRun = true
			opts.Logger = c.Logger

			if format == "" {
				format = pipeline.FormatDOT
				if output != "" {
					if format, err = graphFormat(output); err != nil {
						return err
					}
				}
			}
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}

			result, err := c.newRunner().Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}
			data, err := pipeline.RenderGraph(cmd.Context(), result.Report.Graph, format)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "write %s", output)
			}
			printSuccess("Graph written")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "dot or svg (default from the output extension, else dot)")
	registerGraphCompletions(cmd)

	return cmd
}

// graphFormat derives the report format from a file extension.
func graphFormat(path string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", fmt.Errorf("graph file %s: %w", path, err)
	}
	return format, nil
}

// writeGraph renders the texture graph of result to path.
func writeGraph(ctx context.Context, result *pipeline.Result, path string) error {
	format, err := graphFormat(path)
	if err != nil {
		return err
	}
	data, err := pipeline.RenderGraph(ctx, result.Report.Graph, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ccreverse/pkg/config"
	"github.com/matzehuels/ccreverse/pkg/errors"
	"github.com/matzehuels/ccreverse/pkg/observability"
	"github.com/matzehuels/ccreverse/pkg/pipeline"
)

// reverseFlags holds the command-line flags of the reverse command. Only
// flags the user set override the configuration.
type reverseFlags struct {
	output         string
	noMeta         bool
	prettify       bool
	skipTextures   bool
	skipAudio      bool
	skipAnimations bool
	dryRun         bool
	maxParallel    int
	graph          string
}

func (c *CLI) reverseCommand() *cobra.Command {
	var flags reverseFlags

	cmd := &cobra.Command{
		Use:   "reverse [source]",
		Short: "Rebuild an editor project from a built bundle",
		Long: `Rebuild a Cocos Creator 2.x editor project from a web or mini-game build.

The source directory must contain src/settings.js and res/. Without an
argument the source comes from ccreverse.toml or CCREVERSE_SOURCE.

Examples:
  ccreverse reverse build/web-mobile
  ccreverse reverse build/web-mobile -o recovered --skip-audio
  ccreverse reverse build/web-mobile --dry-run --graph textures.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.reverseOptions(cmd, args, flags)
			if err != nil {
				return err
			}
			return c.runReverse(cmd.Context(), opts, flags.graph)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "output project directory (default \"project\")")
	f.BoolVar(&flags.noMeta, "no-meta", false, "do not write .meta files")
	f.BoolVar(&flags.prettify, "prettify", true, "indent JSON output")
	f.BoolVar(&flags.skipTextures, "skip-textures", false, "do not extract textures and sprite sheets")
	f.BoolVar(&flags.skipAudio, "skip-audio", false, "do not extract audio clips")
	f.BoolVar(&flags.skipAnimations, "skip-animations", false, "do not extract animation clips")
	f.BoolVar(&flags.dryRun, "dry-run", false, "resolve everything but write nothing")
	f.IntVar(&flags.maxParallel, "max-parallel", 0, "concurrent file operations (default 4)")
	f.StringVar(&flags.graph, "graph", "", "also write the texture graph (.dot or .svg)")
	registerReverseCompletions(cmd)

	return cmd
}

// reverseOptions layers flags the user set over the loaded configuration.
func (c *CLI) reverseOptions(cmd *cobra.Command, args []string, flags reverseFlags) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.OptionsFromConfig(cfg)
	if len(args) == 1 {
		opts.Source = args[0]
	}

	set := cmd.Flags().Changed
	if set("output") {
		opts.Output = flags.output
	}
	if set("no-meta") {
		opts.CreateMeta = !flags.noMeta
	}
	if set("prettify") {
		opts.Prettify = flags.prettify
	}
	if set("skip-textures") {
		opts.SkipTextures = flags.skipTextures
	}
	if set("skip-audio") {
		opts.SkipAudio = flags.skipAudio
	}
	if set("skip-animations") {
		opts.SkipAnimations = flags.skipAnimations
	}
	if set("max-parallel") {
		opts.MaxParallel = flags.maxParallel
	}
	opts.DryRun = flags.dryRun
	opts.Logger = c.Logger

	if opts.Source == "" {
		return opts, errors.New(errors.ErrCodeInvalidInput,
			"no source directory: pass one as argument, set source in %s or set %s", config.DefaultFile, config.EnvSource)
	}
	if flags.graph != "" {
		if _, err := graphFormat(flags.graph); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func (c *CLI) runReverse(ctx context.Context, opts pipeline.Options, graphPath string) error {
	spinner := newSpinner(ctx, os.Stderr, "Loading build")
	hooks := &phaseHooks{logger: c.Logger, spinner: spinner}
	observability.SetPipelineHooks(hooks)
	observability.SetRecordHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	prog := newProgress(c.Logger)
	spinner.Start()
	result, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Reconstruction failed")
		return err
	}
	spinner.Stop()
	hooks.logCounters()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if opts.DryRun {
		printInfo("Dry run: %d writes and %d copies planned", result.Stats.Writes, result.Stats.Copies)
	} else {
		prog.done(fmt.Sprintf("Reconstructed %d assets", result.Stats.Records))
		printSuccess("Project written")
		printFile(opts.Output)
	}
	printSummary(result)

	if graphPath != "" {
		if err := writeGraph(ctx, result, graphPath); err != nil {
			return err
		}
		printFile(graphPath)
	}

	if !opts.DryRun {
		abs, err := filepath.Abs(opts.Output)
		if err != nil {
			abs = opts.Output
		}
		printNextStep("Open in Cocos Creator 2.x", abs)
	}
	return nil
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ccreverse/pkg/asset"
	"github.com/matzehuels/ccreverse/pkg/errors"
	"github.com/matzehuels/ccreverse/pkg/fileindex"
	"github.com/matzehuels/ccreverse/pkg/imagesize"
	"github.com/matzehuels/ccreverse/pkg/observability"
	"github.com/matzehuels/ccreverse/pkg/output"
	"github.com/matzehuels/ccreverse/pkg/project"
	"github.com/matzehuels/ccreverse/pkg/resolver"
	"github.com/matzehuels/ccreverse/pkg/settings"
)

// Runner executes the reconstruction pipeline.
//
// The Runner holds no run state; one Runner may serve several runs with
// different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner logging to logger, or to log.Default when
// logger is nil.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Input is the loaded build: its settings and the index of its files.
type Input struct {
	Settings *settings.Settings
	Files    *fileindex.Index
}

// Execute runs load → scan → resolve → scaffold → flush.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	in, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Files = in.Files.Len()

	r.Logger.Info("loaded build",
		"files", in.Files.Len(),
		"documents", len(in.Files.Documents()),
		"packed", in.Settings.Table.Len(),
		"duration", result.Stats.LoadTime)

	plan := output.NewPlan(output.PlanOptions{CreateMeta: opts.CreateMeta, Prettify: opts.Prettify})
	env := resolver.Env{
		Table:   in.Settings.Table,
		Files:   in.Files,
		Images:  imagesize.New(opts.ImageCacheSize),
		Plan:    plan,
		Options: opts.ResolverOptions(),
		Logger:  opts.Logger,
	}

	// Stage 2: Scan
	scanStart := time.Now()
	pending, err := r.Scan(ctx, in, env)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	result.Stats.ScanTime = time.Since(scanStart)

	// Stage 3: Resolve
	resolveStart := time.Now()
	plan, report := pending.Resolve(ctx)
	if report.Canceled {
		return nil, errors.Canceled(ctx, "resolve")
	}
	result.Plan = plan
	result.Report = report
	result.Stats.Documents = report.Documents
	result.Stats.Records = report.RecordCount()
	result.Stats.ResolveTime = time.Since(resolveStart)

	r.Logger.Info("resolved assets",
		"records", report.RecordCount(),
		"pictures", report.Pictures,
		"sheets", report.Sheets,
		"orphans", report.Orphans,
		"fonts", report.Fonts,
		"duration", result.Stats.ScanTime+result.Stats.ResolveTime)
	if report.Unresolved > 0 || report.Skipped > 0 || report.DroppedFonts > 0 {
		r.Logger.Warn("some assets were not fully reconstructed",
			"unresolved", report.Unresolved,
			"skipped", report.Skipped,
			"dropped_fonts", report.DroppedFonts,
			"missing_natives", report.MissingNatives)
	}

	// Stage 4: Scaffold
	sum, err := project.Write(plan, in.Settings, project.Options{SourceDir: opts.Source, Logger: opts.Logger})
	if err != nil {
		return nil, fmt.Errorf("scaffold: %w", err)
	}
	result.Stats.Plugins = sum.Plugins
	result.Stats.Writes = len(plan.Writes())
	result.Stats.Copies = len(plan.Copies())

	if opts.DryRun {
		r.Logger.Info("dry run, nothing written",
			"writes", result.Stats.Writes,
			"copies", result.Stats.Copies)
		return result, nil
	}

	// Stage 5: Flush
	flusher := &output.Flusher{Root: opts.Output, MaxParallel: opts.MaxParallel, Logger: opts.Logger}
	fs, err := flusher.Flush(ctx, plan)
	result.Stats.FlushTime = fs.Duration
	result.Stats.Failed = fs.Failed
	result.Stats.Bytes = fs.Bytes
	if err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	r.Logger.Info("wrote project",
		"dir", opts.Output,
		"writes", fs.Writes,
		"copies", fs.Copies,
		"failed", fs.Failed,
		"duration", fs.Duration)

	return result, nil
}

// Load reads the build settings and indexes the build's files. Missing or
// unreadable settings and a missing resource directory are fatal.
func (r *Runner) Load(ctx context.Context, opts Options) (*Input, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, errors.Canceled(ctx, "load")
	}

	s, err := settings.Load(opts.Settings)
	if err != nil {
		return nil, err
	}

	var extra []string
	if s.HasSubpackages() {
		extra = append(extra, opts.SubpackagesDir())
		r.Logger.Debug("including sub-packages", "names", s.Subpackages)
	}
	files, err := fileindex.Scan(opts.ResDir(), extra...)
	if err != nil {
		return nil, err
	}
	return &Input{Settings: s, Files: files}, nil
}

// Scan runs the first resolution phase over every import document of in.
// Documents that cannot be read or decoded are logged and skipped.
func (r *Runner) Scan(ctx context.Context, in *Input, env resolver.Env) (p *resolver.Pending, err error) {
	docs := in.Files.Documents()
	start := time.Now()
	observability.Pipeline().OnScanStart(ctx, len(docs))

	scanner := resolver.NewScanner(env)
	records := 0
	defer func() {
		observability.Pipeline().OnScanComplete(ctx, len(docs), records, time.Since(start), err)
	}()

	for _, path := range docs {
		if ctx.Err() != nil {
			return nil, errors.Canceled(ctx, "scan")
		}
		doc, derr := asset.LoadDocument(path)
		if derr != nil {
			r.Logger.Warn("skipping unreadable document", "path", path, "err", derr)
			continue
		}
		if serr := scanner.Scan(ctx, doc); serr != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, serr, "scan %s", path)
		}
	}

	records = scanner.Records()
	return scanner.Finish(), nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

package generator

import (
	"context"
	"fmt"

	"github.com/tristendillon/httpskin/core/cache"
	"github.com/tristendillon/httpskin/core/config"
	"github.com/tristendillon/httpskin/core/logger"
	"github.com/tristendillon/httpskin/core/models"
	"github.com/tristendillon/httpskin/core/sink"
	"github.com/tristendillon/httpskin/core/ui"
	"github.com/tristendillon/httpskin/core/walker"
)

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BasePackage:     cfg.BasePackage,
		ClassName:       cfg.ClassName,
		TransportImport: cfg.TransportImport,
		ResultImport:    cfg.ResultImport,
		DefaultParent:   cfg.DefaultParent,
	}
}

// Project runs generation for one configured source tree. The walker and
// its cache live as long as the project, so repeated runs in watch mode
// only rescan changed files.
type Project struct {
	Config    *config.Config
	Walker    *walker.Walker
	Generator *Generator
	Sink      sink.OutputSink
	Diag      Diagnostics
	Progress  *ui.Pipeline
}

func NewProject(cfg *config.Config, out sink.OutputSink, diag Diagnostics) (*Project, error) {
	if diag == nil {
		diag = LoggerDiagnostics{Debug: cfg.Debug}
	}
	gen, err := New(OptionsFromConfig(cfg), diag)
	if err != nil {
		return nil, err
	}

	exclude := append([]string{cfg.Output}, cfg.Watch.Exclude...)
	return &Project{
		Config:    cfg,
		Walker:    walker.NewWalker(cfg.Dir, exclude, cache.NewFileCache(nil)),
		Generator: gen,
		Sink:      out,
		Diag:      diag,
	}, nil
}

type RunReport struct {
	Files    int
	Problems []string
	Result   *Result
}

// Failures counts scan problems and skipped methods.
func (r *RunReport) Failures() int {
	n := len(r.Problems)
	if r.Result != nil {
		n += len(r.Result.Skipped)
	}
	return n
}

// Scan walks the configured sources and manifests.
func (p *Project) Scan() ([]*models.ParsedFile, error) {
	progress := p.progress()
	defer progress.Finish()
	return p.scan(progress)
}

func (p *Project) scan(progress *ui.Pipeline) ([]*models.ParsedFile, error) {
	files, err := p.Walker.Discover(p.Config.SourceDirs(), p.Config.ManifestFiles())
	if err != nil {
		return nil, err
	}
	bar := progress.NextPhase(len(files))
	return p.Walker.Process(files, func(f models.DiscoveredFile) {
		bar.Describe(f.RelPath)
		bar.Increment()
	})
}

// Run scans, generates and writes the unit. Per-method failures still
// write the unit without those methods and are counted in the report; a
// returned error means nothing was written.
func (p *Project) Run(ctx context.Context) (*RunReport, error) {
	report, err := p.run(ctx)
	if err != nil {
		return nil, err
	}

	result := report.Result
	logger.Info("Generated %s with %d methods from %d interfaces", result.Path, result.Methods, result.Interfaces)
	if n := report.Failures(); n > 0 {
		logger.Warn("%d endpoint(s) could not be generated", n)
	}
	p.Walker.Cache.LogStats()
	return report, nil
}

// run does the work behind the progress bars, which are gone by the time
// Run logs its summary.
func (p *Project) run(ctx context.Context) (*RunReport, error) {
	progress := p.progress()
	defer progress.Finish()

	parsed, err := p.scan(progress)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}

	report := &RunReport{Files: len(parsed), Problems: walker.Problems(parsed)}
	for _, problem := range report.Problems {
		p.Diag.Error("%s", problem)
	}

	bar := progress.NextPhase(2)
	bar.Describe(p.Generator.Options().OutputPath())
	result, err := p.Generator.Generate(walker.Interfaces(parsed))
	if err != nil {
		return nil, fmt.Errorf("generation aborted: %w", err)
	}
	report.Result = result
	bar.Increment()

	if err := p.Sink.WriteFile(ctx, result.Path, []byte(result.Source)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", result.Path, err)
	}
	bar.Increment()
	return report, nil
}

func (p *Project) progress() *ui.Pipeline {
	if p.Progress != nil {
		return p.Progress
	}
	pipeline := ui.NewPipeline([]ui.Phase{ui.PhaseScanning, ui.PhaseGenerating})
	if logger.IsVerbose() {
		pipeline.Disable()
	}
	return pipeline
}

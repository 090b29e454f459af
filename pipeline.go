package ppttranslator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/engchina/No.1-PPT-Translator/pptx"
)

// failurePrefix wraps every error that puts a run into StateFailed.
const failurePrefix = "translation failed"

// logSeparator is printed between slides in the detailed log.
const logSeparator = "-------------------------------------------"

// PipelineConfig configures a Pipeline. Providers and observer are injected
// once at construction; a Pipeline is then good for any number of sequential
// runs.
type PipelineConfig struct {
	// Generic serves models without a routing prefix (OpenAI-compatible).
	Generic ProviderClient

	// Dedicated serves models starting with DedicatedModelPrefix.
	Dedicated ProviderClient

	// Observer receives progress, status, log and stop-poll callbacks.
	// Nil means NopObserver.
	Observer Observer

	// Retry bounds per-unit attempts. Zero value means DefaultRetryPolicy.
	Retry RetryPolicy

	// Cache stores finished translations across units and runs. Optional.
	Cache TranslationCache

	// RequestsPerMinute paces provider requests. Zero disables pacing.
	RequestsPerMinute int

	// Prompts overrides the built-in prompt templates. Nil uses defaults.
	Prompts *Prompts

	// OutputDir receives translated decks. Empty means an "outputs"
	// directory next to the input file.
	OutputDir string
}

// Pipeline translates whole presentations: open, count, translate slide by
// slide, save. One run at a time per Pipeline.
type Pipeline struct {
	cfg        PipelineConfig
	obs        Observer
	translator *Translator
	state      atomic.Int32
}

// NewPipeline wires a Pipeline from its configuration.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	obs := cfg.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}

	p := &Pipeline{
		cfg: cfg,
		obs: obs,
	}
	p.state.Store(int32(StateIdle))

	opts := []TranslatorOption{
		WithRetryPolicy(cfg.Retry),
		WithLogFunc(p.logf),
	}
	if cfg.Cache != nil {
		opts = append(opts, WithCache(cfg.Cache))
	}
	if cfg.RequestsPerMinute > 0 {
		opts = append(opts, WithRateLimit(RateLimitConfig{RequestsPerMinute: cfg.RequestsPerMinute}))
	}
	if cfg.Prompts != nil {
		opts = append(opts, WithPrompts(*cfg.Prompts))
	}
	p.translator = NewTranslator(cfg.Generic, cfg.Dedicated, opts...)

	return p
}

// State returns the current lifecycle state of the pipeline.
func (p *Pipeline) State() RunState {
	return RunState(p.state.Load())
}

// Run translates the deck at inputPath into targetLang using modelID and
// writes the result next to the input (or into the configured output
// directory). It returns ErrStopped when the observer's stop signal or a
// context cancellation aborts the run; any other error means the run failed
// and no output was written.
func (p *Pipeline) Run(ctx context.Context, modelID, inputPath, targetLang string) (result *Result, err error) {
	defer func() {
		switch {
		case err == nil:
			p.setState(StateCompleted)
		case errors.Is(err, ErrStopped):
			p.setState(StateAborted)
		default:
			p.setState(StateFailed)
		}
	}()

	acct := NewProgressAccountant()

	p.setState(StateLoading)
	p.status("Loading presentation...")
	p.logf("Input file: %s", inputPath)
	p.logf("Model: %s", modelID)
	p.logf("Target language: %s", targetLang)

	if _, statErr := os.Stat(inputPath); statErr != nil {
		return nil, p.failf(&NotFoundError{Path: inputPath})
	}
	p.progress(acct.Checkpoint(checkpointLoading))

	doc, openErr := pptx.Open(inputPath)
	if openErr != nil {
		return nil, p.failf(openErr)
	}
	p.progress(acct.Checkpoint(checkpointOpened))

	p.setState(StateAnalyzing)
	p.status("Analyzing translatable content...")
	total, _ := CountUnits(doc)
	acct.SetTotal(total)
	p.logf("Slides: %d", doc.SlideCount())
	p.logf("Translatable text units: %d", total)
	p.progress(acct.Checkpoint(checkpointAnalyzed))

	p.setState(StateTranslating)
	slides := doc.Slides()
	for i, slide := range slides {
		if p.stopRequested(ctx) {
			p.logf("Stop requested. Aborting without saving.")
			p.status("Translation stopped")
			return nil, ErrStopped
		}

		p.status(fmt.Sprintf("Translating slide %d/%d...", i+1, len(slides)))
		p.logf("Translating slide %d/%d", i+1, len(slides))
		p.progress(acct.SlideStart(i, len(slides)))

		for _, unit := range SlideUnits(slide) {
			translated, unitErr := p.translator.Translate(ctx, unit.Source(), targetLang, modelID)
			if unitErr != nil {
				if errors.Is(unitErr, context.Canceled) {
					p.logf("Stop requested. Aborting without saving.")
					p.status("Translation stopped")
					return nil, ErrStopped
				}
				return nil, p.failf(unitErr)
			}
			unit.Apply(translated)
			p.progress(acct.UnitDone())
		}

		p.logf(logSeparator)
	}

	p.setState(StateSaving)
	p.status("Saving translated presentation...")
	p.progress(acct.Checkpoint(checkpointSaving))

	outputPath, pathErr := p.outputPath(inputPath, targetLang)
	if pathErr != nil {
		return nil, p.failf(pathErr)
	}
	p.logf("Output file: %s", outputPath)
	p.progress(acct.Checkpoint(checkpointNamed))

	if saveErr := doc.Save(outputPath); saveErr != nil {
		return nil, p.failf(&SaveError{Path: outputPath, Cause: saveErr})
	}
	p.progress(acct.Checkpoint(checkpointWritten))

	p.status("Translation complete")
	p.logf("Translation complete: %s", outputPath)
	p.progress(acct.Checkpoint(checkpointDone))

	return &Result{
		OutputPath: outputPath,
		Slides:     len(slides),
		Units:      acct.Processed(),
	}, nil
}

// outputPath derives "{stem}_{target}{ext}" inside the output directory,
// creating the directory when needed.
func (p *Pipeline) outputPath(inputPath, targetLang string) (string, error) {
	dir := p.cfg.OutputDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(inputPath), "outputs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &SaveError{Path: dir, Cause: err}
	}

	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), ext)
	return filepath.Join(dir, stem+"_"+targetLang+ext), nil
}

func (p *Pipeline) setState(state RunState) {
	p.state.Store(int32(state))
}

func (p *Pipeline) stopRequested(ctx context.Context) bool {
	return p.obs.ShouldStop() || ctx.Err() != nil
}

func (p *Pipeline) failf(err error) error {
	return fmt.Errorf("%s: %w", failurePrefix, err)
}

func (p *Pipeline) status(status string) {
	p.obs.OnStatus(status)
}

func (p *Pipeline) progress(percent int) {
	p.obs.OnProgress(percent)
}

func (p *Pipeline) logf(format string, args ...any) {
	p.obs.OnLog(fmt.Sprintf(format, args...))
}

// Command ppt-translator translates PowerPoint decks with AI while keeping
// run-level formatting intact.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	ppttranslator "github.com/engchina/No.1-PPT-Translator"
	"github.com/engchina/No.1-PPT-Translator/cache"
	"github.com/engchina/No.1-PPT-Translator/config"
	"github.com/engchina/No.1-PPT-Translator/logging"
	"github.com/engchina/No.1-PPT-Translator/pptx"
	"github.com/engchina/No.1-PPT-Translator/provider"
	"github.com/engchina/No.1-PPT-Translator/server"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = ppttranslator.Version
	commit    = ppttranslator.GitCommit
	buildDate = ppttranslator.BuildDate
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ppt-translator",
		Short: ppttranslator.Description,
		Long: `ppt-translator translates the text of PowerPoint presentations with AI
while keeping each run's formatting: bold words stay bold, colored words
stay colored, in the translated positions.

Configuration comes from the environment (or a .env file in the working
directory); flags override it per invocation. Run "ppt-translator validate"
to check the configuration before a long deck.

Commands:
  translate   Translate one or more .pptx files
  validate    Check configuration and provider connectivity
  serve       Run the HTTP + WebSocket job service
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTranslateCmd(),
		newValidateCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

type translateArgs struct {
	model       string
	lang        string
	outputDir   string
	redisURL    string
	cacheTTL    int
	rpm         int
	promptsFile string
	quiet       bool
	dryRun      bool
}

func newTranslateCmd() *cobra.Command {
	var a translateArgs

	cmd := &cobra.Command{
		Use:   "translate [flags] deck.pptx [deck2.pptx ...]",
		Short: "Translate PowerPoint decks",
		Long: `Translate one or more .pptx files into the target language.

Each deck is written to the output directory as <name>_<Language>.pptx.
Slide text, table cells and speaker notes are translated; footers, slide
numbers, dates and purely numeric cells are left alone.

Examples:
  # Translate a deck to the configured default language
  ppt-translator translate quarterly.pptx

  # Translate to French with a specific model
  ppt-translator translate --lang fr --model gpt-4o quarterly.pptx

  # Share the translation cache between machines
  ppt-translator translate --redis-url redis://localhost:6379 deck.pptx

  # Show what would be translated without calling the provider
  ppt-translator translate --dry-run deck.pptx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args, a)
		},
	}

	cmd.Flags().StringVar(&a.model, "model", "", "Model to use (default: OPENAI_MODEL_NAME or gpt-4o)")
	cmd.Flags().StringVar(&a.lang, "lang", "", "Target language name or BCP 47 code (default: DEFAULT_TARGET_LANGUAGE)")
	cmd.Flags().StringVar(&a.outputDir, "output-dir", "", "Directory for translated decks (default: outputs/ next to each input)")
	cmd.Flags().StringVar(&a.redisURL, "redis-url", "", "Redis URL for a shared translation cache (default: in-memory)")
	cmd.Flags().IntVar(&a.cacheTTL, "cache-ttl", config.DefaultCacheTTL, "Cache TTL in seconds (0 disables caching)")
	cmd.Flags().IntVar(&a.rpm, "rpm", 0, "Max provider requests per minute (0 disables pacing)")
	cmd.Flags().StringVar(&a.promptsFile, "prompts", "", "YAML file overriding the prompt templates")
	cmd.Flags().BoolVar(&a.quiet, "quiet", false, "Suppress progress output")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "List translatable units without calling the provider")

	return cmd
}

func runTranslate(cmd *cobra.Command, paths []string, a translateArgs) error {
	if a.dryRun {
		return runDryRun(cmd.OutOrStdout(), paths)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if a.model == "" {
		a.model = cfg.OpenAIModel
	}
	lang := cfg.DefaultTargetLanguage
	if a.lang != "" {
		lang = a.lang
	}
	lang = ppttranslator.ResolveLanguage(lang)

	if a.outputDir != "" {
		cfg.OutputDirectory = a.outputDir
	}
	if a.redisURL != "" {
		cfg.RedisURL = a.redisURL
	}
	if cmd.Flags().Changed("cache-ttl") {
		cfg.CacheTTLSeconds = a.cacheTTL
	}
	if cmd.Flags().Changed("rpm") {
		cfg.RequestsPerMinute = a.rpm
	}
	if a.promptsFile != "" {
		cfg.PromptsFile = a.promptsFile
	}

	pcfg, err := pipelineConfig(cfg)
	if err != nil {
		return err
	}

	obs := newCLIObserver(a.quiet)
	pcfg.Observer = obs

	// First interrupt asks the run to stop at the next slide boundary; a
	// second one exits immediately.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logWarning("Stopping after the current slide (interrupt again to quit now)")
		obs.requestStop()
		<-sigCh
		logError("Forced exit")
		os.Exit(130)
	}()

	pipe := ppttranslator.NewPipeline(pcfg)
	for _, path := range paths {
		if !a.quiet {
			logInfo("Translating %s to %s with %s", filepath.Base(path), lang, a.model)
		}

		result, err := pipe.Run(context.Background(), a.model, path, lang)
		obs.finish()
		if errors.Is(err, ppttranslator.ErrStopped) {
			logWarning("Translation stopped, no output written for %s", filepath.Base(path))
			return nil
		}
		if err != nil {
			return err
		}

		logSuccess("Saved %s (%d slides, %d units)", result.OutputPath, result.Slides, result.Units)
	}

	return nil
}

// runDryRun lists the units a translation run would send to the provider.
func runDryRun(w io.Writer, paths []string) error {
	for _, path := range paths {
		doc, err := pptx.Open(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "Dry run: %s\n", filepath.Base(path))

		total := 0
		for i, slide := range doc.Slides() {
			units := ppttranslator.SlideUnits(slide)
			if len(units) == 0 {
				continue
			}
			fmt.Fprintf(w, "Slide %d:\n", i+1)
			for _, u := range units {
				text := u.Source()
				if len(text) > 60 {
					text = text[:57] + "..."
				}
				fmt.Fprintf(w, "  [%s] %q\n", u.Kind, text)
			}
			total += len(units)
		}

		fmt.Fprintf(w, "Total: %d translatable units\n", total)
	}

	return nil
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check configuration and provider connectivity",
		Long: `Load configuration from the environment and .env, then run every check:
credentials present, dedicated settings complete, output directory writable,
and the generic endpoint reachable. All findings are reported at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			probe := provider.NewOpenAIClient(provider.OpenAIConfig{
				APIKey:  cfg.OpenAIAPIKey,
				BaseURL: cfg.OpenAIBaseURL,
			})

			problems := cfg.Validate(ctx, probe)
			if len(problems) == 0 {
				logSuccess("Configuration OK")
				logInfo("Default model: %s", cfg.OpenAIModel)
				logInfo("Default target language: %s", cfg.DefaultTargetLanguage)
				return nil
			}

			for _, p := range problems {
				logError("%s", p)
			}
			return fmt.Errorf("%d configuration problem(s)", len(problems))
		},
	}
}

// ---------------------------------------------------------------------------
// serve
// ---------------------------------------------------------------------------

func newServeCmd() *cobra.Command {
	var (
		addr      string
		maxJobs   int
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP + WebSocket job service",
		Long: `Serve the translation pipeline over HTTP. Jobs are created with
POST /api/v1/jobs and report live progress over WebSocket at
GET /api/v1/jobs/{id}/events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			format, err := logging.ParseFormat(logFormat)
			if err != nil {
				return err
			}
			logging.InitLogger(level, format)

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			base, err := pipelineConfig(cfg)
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Addr:            addr,
				MaxJobs:         maxJobs,
				DefaultModel:    cfg.OpenAIModel,
				DefaultLanguage: cfg.DefaultTargetLanguage,
				Base:            base,
			})

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			sigCh := make(chan os.Signal, 2)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				logInfo("Shutting down (interrupt again to quit now)")
				go func() {
					<-sigCh
					logError("Forced exit")
					os.Exit(1)
				}()

				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					return err
				}
				return <-errCh
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "Listen address")
	cmd.Flags().IntVar(&maxJobs, "max-jobs", server.DefaultMaxJobs, "Max concurrently running translation jobs")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&logFormat, "log-format", "json", "Log format: json or text")

	return cmd
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", ppttranslator.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(w, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(w, "  built:   %s\n", buildDate)
			}
		},
	}
}

// ---------------------------------------------------------------------------
// shared wiring
// ---------------------------------------------------------------------------

// pipelineConfig assembles providers, cache and prompt overrides from the
// loaded configuration.
func pipelineConfig(cfg *config.Config) (ppttranslator.PipelineConfig, error) {
	pcfg := ppttranslator.PipelineConfig{
		Generic: provider.NewOpenAIClient(provider.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
		}),
		Dedicated: provider.NewDedicatedClient(provider.DedicatedConfig{
			Endpoint:      cfg.GenAIEndpoint,
			APIKey:        cfg.GenAIAPIKey,
			CompartmentID: cfg.CompartmentID,
		}),
		Cache:             buildCache(cfg.RedisURL, cfg.CacheTTLSeconds),
		RequestsPerMinute: cfg.RequestsPerMinute,
		OutputDir:         cfg.OutputDirectory,
	}

	if cfg.PromptsFile != "" {
		prompts, err := config.LoadPrompts(cfg.PromptsFile)
		if err != nil {
			return ppttranslator.PipelineConfig{}, err
		}
		pcfg.Prompts = &prompts
	}

	return pcfg, nil
}

// buildCache prefers Redis when configured and falls back to the in-memory
// cache when Redis is unreachable. A TTL of zero disables caching.
func buildCache(redisURL string, ttlSeconds int) ppttranslator.TranslationCache {
	if redisURL != "" {
		c, err := cache.NewRedisCache(cache.RedisConfig{URL: redisURL, TTL: ttlSeconds})
		if err == nil {
			return c
		}
		logWarning("Redis cache unavailable, using in-memory cache: %v", err)
	}

	if ttlSeconds <= 0 {
		return nil
	}
	return cache.NewInMemoryCache(ttlSeconds)
}

// ---------------------------------------------------------------------------
// observer
// ---------------------------------------------------------------------------

// cliObserver renders pipeline events to stderr: statuses and log lines as
// full lines, progress as an in-place percentage. ShouldStop is flipped by
// the interrupt handler.
type cliObserver struct {
	quiet bool
	stop  atomic.Bool

	mu           sync.Mutex
	progressOpen bool
}

func newCLIObserver(quiet bool) *cliObserver {
	return &cliObserver{quiet: quiet}
}

func (o *cliObserver) OnProgress(percent int) {
	if o.quiet {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r"+colorBlue+"[%3d%%]"+colorReset, percent)
	o.progressOpen = true
}

func (o *cliObserver) OnStatus(status string) {
	if o.quiet {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.breakProgress()
	logInfo("%s", status)
}

func (o *cliObserver) OnLog(line string) {
	if o.quiet {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.breakProgress()
	fmt.Fprintln(os.Stderr, line)
}

func (o *cliObserver) ShouldStop() bool {
	return o.stop.Load()
}

func (o *cliObserver) requestStop() {
	o.stop.Store(true)
}

// finish closes a dangling progress line so following output starts clean.
func (o *cliObserver) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.breakProgress()
}

// breakProgress must be called with mu held.
func (o *cliObserver) breakProgress() {
	if o.progressOpen {
		fmt.Fprint(os.Stderr, "\n")
		o.progressOpen = false
	}
}

var _ ppttranslator.Observer = (*cliObserver)(nil)

// Command verbiage syncs and inspects a local verbiage term cache.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ZaguanLabs/verbiage"
	"github.com/ZaguanLabs/verbiage/internal/config"
	"github.com/ZaguanLabs/verbiage/internal/telemetry"
	"github.com/ZaguanLabs/verbiage/markup"
	"github.com/ZaguanLabs/verbiage/notify"
	"github.com/ZaguanLabs/verbiage/remote"
	"github.com/ZaguanLabs/verbiage/store"
	"github.com/redis/go-redis/v9"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = verbiage.Version
	commit    = verbiage.GitCommit
	buildDate = verbiage.BuildDate
)

const usage = `Usage: verbiage [flags] [command] [args]

Commands:
  sync                 Bring the cache in line with the remote (default)
  terms [locale]       Print cached terms as JSON
  status               Show what the cache holds
  clear                Remove every cached entry
  render <file> [loc]  Fill data-verbiage markup from the cache
  export <file>        Write a JSON snapshot of the cache ("-" for stdout)
  import <file>        Load a snapshot into the cache

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the resolved settings of one invocation.
type options struct {
	cfg        config.Config
	locales    verbiage.LocaleSet
	output     string
	jsonOutput bool
	quiet      bool
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("verbiage", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	baseURL := fs.String("base-url", cfg.BaseURL, "Verbiage service root (default: built-in)")
	locales := fs.String("locales", cfg.LocaleSet().String(), "Comma-separated locale codes")
	tag := fs.String("tag", cfg.Tag, "Tag passed to the generate request")
	storeDSN := fs.String("store", cfg.Store, "Store DSN (memory://, redis://, bolt://path, sqlite://path)")
	keyPrefix := fs.String("key-prefix", cfg.KeyPrefix, "Prefix of every cache key")
	timeout := fs.Duration("timeout", cfg.Timeout, "Timeout for remote requests")
	notifyRedis := fs.String("notify-redis", cfg.NotifyRedis, "Redis URL to publish loading events to")
	notifyStream := fs.String("notify-stream", cfg.NotifyStream, "Redis stream for loading events")
	output := fs.String("output", "", "Output file for render (default: stdout)")
	outputShort := fs.String("o", "", "Output file (short for --output)")
	jsonOutput := fs.Bool("json", false, "Output results as JSON")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	verbose := fs.Bool("verbose", cfg.Verbose, "Log sync steps to stderr")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", verbiage.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	// Handle -o alias for --output
	if *outputShort != "" && *output == "" {
		*output = *outputShort
	}

	cfg.BaseURL = *baseURL
	cfg.Tag = *tag
	cfg.Store = *storeDSN
	cfg.KeyPrefix = *keyPrefix
	cfg.Timeout = *timeout
	cfg.NotifyRedis = *notifyRedis
	cfg.NotifyStream = *notifyStream
	cfg.Verbose = *verbose

	opts := options{
		cfg:        cfg,
		locales:    verbiage.ParseLocaleSet(*locales),
		output:     *output,
		jsonOutput: *jsonOutput,
		quiet:      *quiet,
	}
	if err := verbiage.ValidateLocales(opts.locales); err != nil {
		return err
	}

	command := "sync"
	rest := fs.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, verbiage.Name, verbiage.Version)
	if err != nil {
		fmt.Fprintf(stderr, "warning: tracing disabled: %v\n", err)
	}
	defer shutdown(ctx)

	backend, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer backend.Close()

	switch command {
	case "sync":
		return runSync(ctx, backend, opts, stdout, stderr)
	case "terms":
		return runTerms(backend, opts, rest, stdout)
	case "status":
		return runStatus(backend, opts, stdout)
	case "clear":
		return runClear(backend, opts, stdout, stderr)
	case "render":
		return runRender(backend, opts, rest, stdout, stderr)
	case "export":
		return runExport(backend, opts, rest, stdout, stderr)
	case "import":
		return runImport(backend, opts, rest, stdout, stderr)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// newSyncer builds a Syncer over backend. Logging and notifications are only
// wired for commands that talk to the remote.
func newSyncer(backend store.Backend, opts options, stderr io.Writer) (*verbiage.Syncer, func(), error) {
	syncOpts := []verbiage.Option{
		verbiage.WithLocales(opts.locales),
		verbiage.WithTag(opts.cfg.Tag),
		verbiage.WithKeyPrefix(opts.cfg.KeyPrefix),
	}
	if opts.cfg.Verbose {
		syncOpts = append(syncOpts, verbiage.WithLogger(log.New(stderr, "", log.LstdFlags)))
	}

	cleanup := func() {}
	if opts.cfg.NotifyRedis != "" {
		redisOpts, err := redis.ParseURL(opts.cfg.NotifyRedis)
		if err != nil {
			return nil, cleanup, fmt.Errorf("parsing notify redis URL: %w", err)
		}
		client := redis.NewClient(redisOpts)
		cleanup = func() { _ = client.Close() }

		syncOpts = append(syncOpts, verbiage.WithNotifier(notify.NewStreamNotifier(client,
			notify.WithStream(opts.cfg.NotifyStream),
			notify.WithScope(opts.locales, opts.cfg.Tag),
		)))
	}

	src := remote.NewHTTPSource(remote.HTTPConfig{
		BaseURL: opts.cfg.BaseURL,
		Timeout: opts.cfg.Timeout,
	})
	return verbiage.New(backend, src, syncOpts...), cleanup, nil
}

// SyncOutput represents the JSON output of the sync command.
type SyncOutput struct {
	Decision       verbiage.Decision `json:"decision"`
	Fetched        bool              `json:"fetched"`
	LocalesWritten int               `json:"locales_written"`
	Locales        []string          `json:"locales"`
	ElapsedMs      int64             `json:"elapsed_ms"`
}

func runSync(ctx context.Context, backend store.Backend, opts options, stdout, stderr io.Writer) error {
	syncer, cleanup, err := newSyncer(backend, opts, stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	if !opts.quiet && !opts.jsonOutput {
		fmt.Fprintf(stderr, "Syncing %s...\n", opts.locales)
	}

	start := time.Now()
	result, err := syncer.Sync(ctx)
	if err != nil {
		return fmt.Errorf("sync failed in %s: %w", syncer.State(), err)
	}
	elapsed := time.Since(start)

	if opts.jsonOutput {
		return writeJSON(stdout, SyncOutput{
			Decision:       result.Decision,
			Fetched:        result.Fetched,
			LocalesWritten: result.LocalesWritten,
			Locales:        opts.locales,
			ElapsedMs:      elapsed.Milliseconds(),
		})
	}

	fmt.Fprintf(stdout, "Cache %s", result.Decision)
	if result.Fetched {
		fmt.Fprintf(stdout, ", fetched %d locale(s)", result.LocalesWritten)
	} else {
		fmt.Fprint(stdout, ", up to date")
	}
	fmt.Fprintln(stdout)

	if !opts.quiet {
		fmt.Fprintf(stderr, "Done in %v\n", elapsed.Round(time.Millisecond))
	}
	return nil
}

func runTerms(backend store.Backend, opts options, args []string, stdout io.Writer) error {
	syncer, cleanup, err := newSyncer(backend, opts, io.Discard)
	if err != nil {
		return err
	}
	defer cleanup()

	terms := syncer.Terms()
	if len(args) == 0 {
		return writeJSON(stdout, terms)
	}

	locale := args[0]
	localeTerms, ok := terms[locale]
	if !ok {
		return fmt.Errorf("locale %q is not cached", locale)
	}
	return writeJSON(stdout, localeTerms)
}

// StatusOutput represents the JSON output of the status command.
type StatusOutput struct {
	Store      string                     `json:"store"`
	Requested  []string                   `json:"requested"`
	Stored     []string                   `json:"stored"`
	Unchanged  bool                       `json:"unchanged"`
	Complete   bool                       `json:"complete"`
	LastUpdate *verbiage.UpdateTimestamps `json:"last_update,omitempty"`
	Locales    []LocaleStatus             `json:"locales"`
}

// LocaleStatus describes one stored locale.
type LocaleStatus struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Cached    bool   `json:"cached"`
	Terms     int    `json:"terms"`
}

func runStatus(backend store.Backend, opts options, stdout io.Writer) error {
	repo := verbiage.NewRepository(backend, verbiage.NewKeys(opts.cfg.KeyPrefix))

	stored := repo.Locales()
	status := StatusOutput{
		Store:     opts.cfg.Store,
		Requested: opts.locales,
		Stored:    stored,
		Unchanged: verbiage.NewLocaleValidator(repo).IsUnchanged(opts.locales),
		Complete:  verbiage.NewIntegrityChecker(repo).IsComplete(),
		Locales:   []LocaleStatus{},
	}
	if ts, ok := repo.LastUpdate(); ok {
		status.LastUpdate = &ts
	}
	for _, locale := range stored {
		terms, ok := repo.Terms(locale)
		status.Locales = append(status.Locales, LocaleStatus{
			Code:      locale,
			Name:      verbiage.LocaleName(locale),
			Direction: verbiage.Direction(locale),
			Cached:    ok,
			Terms:     len(terms),
		})
	}

	if opts.jsonOutput {
		return writeJSON(stdout, status)
	}

	fmt.Fprintf(stdout, "Store:      %s\n", status.Store)
	fmt.Fprintf(stdout, "Requested:  %s\n", opts.locales)
	fmt.Fprintf(stdout, "Stored:     %s\n", stored)
	if status.LastUpdate != nil {
		fmt.Fprintf(stdout, "Updated:    verbiages=%s terms=%s\n", status.LastUpdate.Verbiages, status.LastUpdate.Terms)
	} else {
		fmt.Fprintf(stdout, "Updated:    never\n")
	}
	fmt.Fprintf(stdout, "Valid:      %v\n", status.Unchanged && status.Complete)
	for _, l := range status.Locales {
		state := fmt.Sprintf("%d terms", l.Terms)
		if !l.Cached {
			state = "missing"
		}
		fmt.Fprintf(stdout, "  %-6s %-24s %s %s\n", l.Code, l.Name, l.Direction, state)
	}
	return nil
}

func runClear(backend store.Backend, opts options, stdout, stderr io.Writer) error {
	syncer, cleanup, err := newSyncer(backend, opts, stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := syncer.ClearCache(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	if !opts.quiet {
		fmt.Fprintln(stdout, "Cache cleared")
	}
	return nil
}

// RenderOutput represents the JSON output of the render command.
type RenderOutput struct {
	Content  string   `json:"content"`
	Locale   string   `json:"locale"`
	Replaced int      `json:"replaced"`
	Missing  []string `json:"missing"`
}

func runRender(backend store.Backend, opts options, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("render requires an input file")
	}

	inputPath := args[0]
	data, err := os.ReadFile(inputPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	locale := opts.locales[0]
	if len(args) > 1 {
		locale = args[1]
	}

	syncer, cleanup, err := newSyncer(backend, opts, stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	terms, ok := syncer.Terms()[locale]
	if !ok {
		return fmt.Errorf("locale %q is not cached; run sync first", locale)
	}

	result, err := markup.NewRenderer().Render(string(data), locale, terms)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	var out io.Writer = stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if opts.jsonOutput {
		missing := result.Missing
		if missing == nil {
			missing = []string{}
		}
		return writeJSON(out, RenderOutput{
			Content:  result.Content,
			Locale:   locale,
			Replaced: result.Replaced,
			Missing:  missing,
		})
	}

	fmt.Fprint(out, result.Content)

	if !opts.quiet {
		fmt.Fprintf(stderr, "\nRendered %s as %s\n", filepath.Base(inputPath), locale)
		fmt.Fprintf(stderr, "  Replaced: %d\n", result.Replaced)
		fmt.Fprintf(stderr, "  Missing:  %d\n", len(result.Missing))
		for _, key := range result.Missing {
			fmt.Fprintf(stderr, "    - %s\n", key)
		}
	}
	return nil
}

func runExport(backend store.Backend, opts options, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("export requires an output file")
	}

	metadata := map[string]string{"locales": opts.locales.String()}
	if opts.cfg.Tag != "" {
		metadata["tag"] = opts.cfg.Tag
	}

	exporter := store.NewExporter(backend)
	var (
		n   int
		err error
	)
	if args[0] == "-" {
		n, err = exporter.Export(stdout, opts.cfg.KeyPrefix, metadata)
	} else {
		n, err = exporter.ExportToFile(args[0], opts.cfg.KeyPrefix, metadata)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if !opts.quiet {
		fmt.Fprintf(stderr, "Exported %d entries\n", n)
	}
	return nil
}

func runImport(backend store.Backend, opts options, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("import requires an input file")
	}

	result, err := store.NewImporter(backend).ImportFromFile(args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if opts.jsonOutput {
		return writeJSON(stdout, result)
	}
	if !opts.quiet {
		fmt.Fprintf(stdout, "Imported %d entries", result.Imported)
		if result.Failed > 0 {
			fmt.Fprintf(stdout, " (%d failed)", result.Failed)
		}
		fmt.Fprintln(stdout)
		if len(result.Metadata) > 0 {
			keys := make([]string, 0, len(result.Metadata))
			for k := range result.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(stdout, "  %s: %s\n", k, result.Metadata[k])
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

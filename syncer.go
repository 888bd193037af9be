package verbiage

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ZaguanLabs/verbiage"

// RemoteSource is the remote verbiage service.
type RemoteSource interface {
	// LastUpdate returns when verbiages and terms last changed remotely.
	LastUpdate(ctx context.Context) (UpdateTimestamps, error)
	// Generate returns the terms of every requested locale. tag may be empty.
	Generate(ctx context.Context, locales LocaleSet, tag string) (TermsByLocale, error)
}

// Syncer keeps the cached terms of a locale set in line with a RemoteSource.
//
// A Syncer is meant for a single caller. Several Syncers sharing one store
// are not coordinated in any way.
type Syncer struct {
	locales     LocaleSet
	tag         string
	keyPrefix   string
	source      RemoteSource
	notifier    Notifier
	logger      *log.Logger
	tracer      trace.Tracer
	diagnostics func(error)

	repo      *Repository
	validator *LocaleValidator
	checker   *IntegrityChecker
	detector  *StalenessDetector
	writer    *TermWriter

	mu    sync.Mutex
	state State
}

// Option is a functional option for configuring the Syncer.
type Option func(*Syncer)

// WithLocales sets the requested locale set. An empty set keeps
// DefaultLocales.
func WithLocales(locales LocaleSet) Option {
	return func(s *Syncer) {
		if len(locales) > 0 {
			s.locales = append(LocaleSet(nil), locales...)
		}
	}
}

// WithTag sets the tag passed along with every generate request.
func WithTag(tag string) Option {
	return func(s *Syncer) {
		s.tag = tag
	}
}

// WithKeyPrefix sets the prefix of every store key.
func WithKeyPrefix(prefix string) Option {
	return func(s *Syncer) {
		s.keyPrefix = prefix
	}
}

// WithNotifier sets the receiver of loading started/finished events.
func WithNotifier(n Notifier) Option {
	return func(s *Syncer) {
		s.notifier = n
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(s *Syncer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Syncer) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithDiagnostics registers a hook receiving soft failures, such as
// ErrMalformedPayload, that are otherwise dropped silently.
func WithDiagnostics(fn func(error)) Option {
	return func(s *Syncer) {
		s.diagnostics = fn
	}
}

// New creates a Syncer over store and source. No I/O happens until Sync.
func New(store Store, source RemoteSource, opts ...Option) *Syncer {
	s := &Syncer{
		locales: append(LocaleSet(nil), DefaultLocales...),
		source:  source,
		logger:  log.New(io.Discard, "", 0),
		tracer:  otel.Tracer(tracerName),
		state:   StateInit,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.repo = NewRepository(store, NewKeys(s.keyPrefix))
	s.validator = NewLocaleValidator(s.repo)
	s.checker = NewIntegrityChecker(s.repo)
	s.detector = NewStalenessDetector(s.repo)
	s.writer = NewTermWriter(s.repo, s.report)

	return s
}

// Open creates a Syncer and runs a first Sync. The Syncer is returned even
// when the sync fails so cached terms stay readable.
func Open(ctx context.Context, store Store, source RemoteSource, opts ...Option) (*Syncer, *SyncResult, error) {
	s := New(store, source, opts...)
	result, err := s.Sync(ctx)
	return s, result, err
}

// Sync brings the cache up to date.
//
// When the stored locale set matches the requested one and every locale has
// terms stored, terms are only refetched if the remote timestamps are newer
// than the stored baseline. Otherwise the cache is cleared and rebuilt.
//
// A fetch failure is returned as is; whatever was written before it stays in
// the store and State keeps reporting the failed step.
func (s *Syncer) Sync(ctx context.Context) (*SyncResult, error) {
	ctx, span := s.tracer.Start(ctx, "verbiage.Sync",
		trace.WithAttributes(attribute.String("verbiage.locales", s.locales.String())),
	)
	defer span.End()

	s.setState(StateDeciding)

	var (
		result *SyncResult
		err    error
	)
	if s.validator.IsUnchanged(s.locales) && s.checker.IsComplete() {
		result, err = s.refresh(ctx)
	} else {
		result, err = s.rebuild(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("verbiage.decision", string(result.Decision)),
		attribute.Bool("verbiage.fetched", result.Fetched),
		attribute.Int("verbiage.locales_written", result.LocalesWritten),
	)
	s.setState(StateIdle)
	return result, nil
}

// refresh handles a valid cache: fetch terms only when the remote is newer.
func (s *Syncer) refresh(ctx context.Context) (*SyncResult, error) {
	s.setState(StateCheckingStaleness)

	remote, err := s.fetchLastUpdate(ctx)
	if err != nil {
		return nil, err
	}

	newer, err := s.detector.IsNewer(remote)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Decision: DecisionFresh}
	if !newer {
		s.logger.Printf("verbiage: cache up to date: locales=%s", s.locales)
		return result, nil
	}

	written, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	result.Fetched = true
	result.LocalesWritten = written
	return result, nil
}

// rebuild handles an invalid cache: clear, store the new locale set and
// baseline, then fetch.
func (s *Syncer) rebuild(ctx context.Context) (*SyncResult, error) {
	s.setState(StateClearing)

	// Terms of locales dropped from the set go too, so no orphaned entries
	// survive a locale change.
	doomed := append(LocaleSet(nil), s.locales...)
	for _, locale := range s.repo.Locales() {
		if !doomed.Contains(locale) {
			doomed = append(doomed, locale)
		}
	}
	if err := s.repo.RemoveTerms(doomed); err != nil {
		return nil, err
	}
	if err := s.repo.SetLocales(s.locales); err != nil {
		return nil, err
	}

	remote, err := s.fetchLastUpdate(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetLastUpdate(remote); err != nil {
		return nil, err
	}

	written, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &SyncResult{Decision: DecisionStale, Fetched: true, LocalesWritten: written}, nil
}

// load fetches and persists terms, bracketed by the lifecycle events.
func (s *Syncer) load(ctx context.Context) (int, error) {
	s.setState(StateFetching)
	s.notify(ctx, EventLoadingStarted)

	terms, err := s.source.Generate(ctx, s.locales, s.tag)
	if err != nil {
		s.logger.Printf("verbiage: generate failed: locales=%s: %v", s.locales, err)
		return 0, err
	}

	written, err := s.writer.Persist(terms)
	if err != nil {
		return written, err
	}

	s.logger.Printf("verbiage: terms stored: locales=%s, written=%d", s.locales, written)
	s.notify(ctx, EventLoadingFinished)
	return written, nil
}

func (s *Syncer) fetchLastUpdate(ctx context.Context) (UpdateTimestamps, error) {
	remote, err := s.source.LastUpdate(ctx)
	if err != nil {
		s.logger.Printf("verbiage: last-update failed: %v", err)
		return UpdateTimestamps{}, err
	}
	if remote.IsZero() {
		s.report(ErrMalformedPayload)
	}
	return remote, nil
}

func (s *Syncer) notify(ctx context.Context, event Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Printf("verbiage: notify %s failed: %v", event, err)
	}
}

func (s *Syncer) report(err error) {
	s.logger.Printf("verbiage: %v ignored", err)
	if s.diagnostics != nil {
		s.diagnostics(err)
	}
}

// Terms returns the cached terms of every stored locale. Locales without a
// readable entry map to an empty TermMap. No network access happens.
func (s *Syncer) Terms() TermsByLocale {
	out := make(TermsByLocale)
	for _, locale := range s.repo.Locales() {
		terms, ok := s.repo.Terms(locale)
		if !ok {
			terms = TermMap{}
		}
		out[locale] = terms
	}
	return out
}

// ClearCache removes the terms of every stored locale, the update
// timestamps and the locale set. Clearing an empty cache is a no-op.
func (s *Syncer) ClearCache() error {
	return errors.Join(
		s.repo.RemoveTerms(s.repo.Locales()),
		s.repo.RemoveLastUpdate(),
		s.repo.RemoveLocales(),
	)
}

// Valid reports whether the cache holds complete terms for the requested
// locale set.
func (s *Syncer) Valid() bool {
	return s.validator.IsUnchanged(s.locales) && s.checker.IsComplete()
}

// State returns the current step of the sync state machine.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Syncer) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Locales returns the requested locale set.
func (s *Syncer) Locales() LocaleSet {
	return append(LocaleSet(nil), s.locales...)
}

// Tag returns the generate request tag.
func (s *Syncer) Tag() string {
	return s.tag
}

// Repository returns the typed view over the store.
func (s *Syncer) Repository() *Repository {
	return s.repo
}

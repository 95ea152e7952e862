package dux

// Logger is an interface for logging operations.
// *log/slog.Logger satisfies it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option configures a Store.
type Option func(*config)

// config holds all configuration options
type config struct {
	logger         Logger
	middlewares    []Middleware
	observability  Observability
	journal        Journal
	onJournalError func(error)
}

// defaultConfig returns the default configuration
func defaultConfig() *config {
	return &config{}
}

// WithLogger sets the logger for the store.
// Without a logger the store is silent.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMiddleware adds middleware to the dispatch pipeline.
// Middleware runs in the order given, first added outermost, before the
// reducer and the re-entrancy guard.
func WithMiddleware(mws ...Middleware) Option {
	return func(c *config) {
		c.middlewares = append(c.middlewares, mws...)
	}
}

// WithObservability sets the instrumentation hooks invoked around
// dispatches and subscriber fan-out.
func WithObservability(obs Observability) Option {
	return func(c *config) {
		c.observability = obs
	}
}

// WithJournal records every successful dispatch in the given journal.
// Journal failures never fail the dispatch; they are reported to the
// OnJournalError handler, or logged when none is set.
func WithJournal(journal Journal) Option {
	return func(c *config) {
		c.journal = journal
	}
}

// WithOnJournalError sets the handler for journal append failures.
func WithOnJournalError(fn func(error)) Option {
	return func(c *config) {
		c.onJournalError = fn
	}
}

package migration

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultKey is the storage key holding the completed set.
const DefaultKey = "completed-migrations"

const tracerName = "github.com/bartekus/monarch/pkg/migration"

type options struct {
	key            string
	logger         *slog.Logger
	tracer         trace.Tracer
	missingAsError bool
}

// Option configures a Runner or a CompletionStore.
type Option func(*options)

// WithKey sets the storage key of the completed set.
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer sets the tracer used for run and task spans.
// The default comes from the global otel TracerProvider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithMissingDependencyErrors makes Run return a *MissingDependencyError
// instead of re-panicking when a task resolves an unregistered dependency.
func WithMissingDependencyErrors() Option {
	return func(o *options) {
		o.missingAsError = true
	}
}

func newOptions(opts []Option) options {
	o := options{
		key:    DefaultKey,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

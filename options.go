package dispatch

import (
	"fmt"
	"github.com/go-logr/logr"
	"github.com/imdario/mergo"
	"time"
)

type (
	// Validator validates a bound bean.
	Validator interface {
		Validate(target any) error
	}

	// Options control resolution and invocation.
	// The zero value is usable and completed by DefaultOptions.
	Options struct {
		// StrictScalars fails resolution of a scalar parameter without
		// a Binding instead of skipping it with a diagnostic.
		StrictScalars bool `koanf:"strictScalars"`

		// TimeLayout parses time.Time parameters.
		TimeLayout string `koanf:"timeLayout"`

		// ListSeparator splits the default literal of container parameters.
		ListSeparator string `koanf:"listSeparator"`

		Logger    logr.Logger `koanf:"-"`
		Validator Validator   `koanf:"-"`
		Filters   []Filter    `koanf:"-"`
	}

	// Option customizes Options.
	Option func(*Options)
)

// DefaultOptions are merged into any Options not explicitly set.
var DefaultOptions = Options{
	TimeLayout:    time.RFC3339,
	ListSeparator: ",",
}

// WithLogger assigns the logger used for diagnostics.
func WithLogger(logger logr.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithValidator assigns the Validator applied to beans.
func WithValidator(validator Validator) Option {
	return func(o *Options) {
		o.Validator = validator
	}
}

// WithStrictScalars fails on scalar parameters without a Binding.
func WithStrictScalars() Option {
	return func(o *Options) {
		o.StrictScalars = true
	}
}

// WithOptions replaces the options wholesale before defaults apply.
func WithOptions(options Options) Option {
	return func(o *Options) {
		*o = options
	}
}

// MergeOptions fills the unset fields of into from from.
func MergeOptions(from, into *Options) error {
	return mergo.Merge(into, from, mergo.WithAppendSlice)
}

func buildOptions(opts []Option) Options {
	var options Options
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if err := MergeOptions(&DefaultOptions, &options); err != nil {
		panic(fmt.Errorf("dispatch: unable to merge default options: %w", err))
	}
	if options.Logger.GetSink() == nil {
		options.Logger = logr.Discard()
	}
	return options
}

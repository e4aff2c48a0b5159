package log

import (
	"fmt"
	"github.com/go-logr/logr"
	"github.com/miruken-go/dispatch"
	"reflect"
	"time"
)

// Filter logs basic handler execution details.
type Filter struct {
	root      logr.Logger
	verbosity int
}

// NewFilter builds a new Filter for logging.
// verbosity is used to control the level of logging.
func NewFilter(root logr.Logger, verbosity int) *Filter {
	if root.GetSink() == nil {
		root = logr.Discard()
	}
	return &Filter{root, verbosity}
}

// InitWithTag reads the verbosity from a `log:"verbosity=2"` tag.
func (f *Filter) InitWithTag(tag reflect.StructTag) error {
	if log, ok := tag.Lookup("log"); ok {
		_, err := fmt.Sscanf(log, "verbosity=%d", &f.verbosity)
		return err
	}
	return nil
}

func (f *Filter) Order() int {
	return dispatch.FilterStageLogging
}

func (f *Filter) Next(
	desc *dispatch.HandlerDescriptor,
	args *dispatch.ArgumentVector,
	next dispatch.Next,
) (dispatch.Render, error) {
	logger := ContextLogger(f.root, desc)
	logger.V(f.verbosity).Info("handling", "args", args.String())
	start := time.Now()
	out, err := next(desc, args)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error(err, "failed", "elapsed", elapsed)
		return out, err
	}
	logger.V(f.verbosity).Info("completed", "elapsed", elapsed)
	return out, nil
}

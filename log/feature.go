package log

import (
	"github.com/go-logr/logr"
	"github.com/miruken-go/dispatch"
)

// Installer configures logging support.
type Installer struct {
	root      logr.Logger
	verbosity int
}

func (v *Installer) SetVerbosity(verbosity int) {
	v.verbosity = verbosity
}

// Verbosity sets the default Verbosity level when logging.
func Verbosity(verbosity int) func(installer *Installer) {
	return func(installer *Installer) {
		installer.SetVerbosity(verbosity)
	}
}

// Feature creates and configures logging support.
// The root logger also becomes the dispatch.Options Logger.
func Feature(
	rootLogger logr.Logger,
	config     ...func(installer *Installer),
) dispatch.Option {
	installer := &Installer{root: rootLogger}
	for _, configure := range config {
		if configure != nil {
			configure(installer)
		}
	}
	return func(o *dispatch.Options) {
		dispatch.WithLogger(installer.root)(o)
		dispatch.WithFilters(NewFilter(installer.root, installer.verbosity))(o)
	}
}

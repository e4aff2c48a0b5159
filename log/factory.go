package log

import (
	"github.com/go-logr/logr"
	"github.com/miruken-go/dispatch"
)

// ContextLogger returns a logger named for the handler type.
func ContextLogger(
	root logr.Logger,
	desc *dispatch.HandlerDescriptor,
) logr.Logger {
	if desc == nil {
		return root
	}
	if typ := desc.Type(); typ != nil && desc.Target() != nil {
		return root.WithName(typ.String()).WithValues("method", desc.Name())
	}
	return root.WithName(desc.Name())
}

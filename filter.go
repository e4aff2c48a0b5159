package dispatch

import (
	"sort"
)

// Filter stage priorities.
const (
	FilterStage              = 0
	FilterStageLogging       = 10
	FilterStageAuthorization = 30
	FilterStageValidation    = 50
)

type (
	// Next advances to the next step in the invocation pipeline.
	Next func(
		desc *HandlerDescriptor,
		args *ArgumentVector,
	) (Render, error)

	// Filter defines a middleware step around the handler call.
	// Filters run after the arguments are resolved.
	Filter interface {
		Order() int
		Next(
			desc *HandlerDescriptor,
			args *ArgumentVector,
			next Next,
		) (Render, error)
	}

	// FilterFunc adapts a function to a Filter at FilterStage.
	FilterFunc func(
		desc *HandlerDescriptor,
		args *ArgumentVector,
		next Next,
	) (Render, error)
)


// FilterFunc

func (f FilterFunc) Order() int {
	return FilterStage
}

func (f FilterFunc) Next(
	desc *HandlerDescriptor,
	args *ArgumentVector,
	next Next,
) (Render, error) {
	return f(desc, args, next)
}

// WithFilters appends filters to the invocation pipeline.
func WithFilters(filters ...Filter) Option {
	return func(o *Options) {
		for _, filter := range filters {
			if filter != nil {
				o.Filters = append(o.Filters, filter)
			}
		}
	}
}

// orderedFilters sorts by Order keeping registration order
// for equal stages. Negative orders run last.
func orderedFilters(filters []Filter) []Filter {
	ordered := make([]Filter, len(filters))
	copy(ordered, filters)
	sort.SliceStable(ordered, func(i, j int) bool {
		order1, order2 := ordered[i].Order(), ordered[j].Order()
		if order1 < 0 {
			return false
		}
		if order2 < 0 {
			return true
		}
		return order1 < order2
	})
	return ordered
}

// pipeline chains filters in order ending with the terminal step.
func pipeline(filters []Filter, terminal Next) Next {
	next := terminal
	for i := len(filters) - 1; i >= 0; i-- {
		filter, proceed := filters[i], next
		next = func(desc *HandlerDescriptor, args *ArgumentVector) (Render, error) {
			return filter.Next(desc, args, proceed)
		}
	}
	return next
}

package koanf

import (
	"fmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/maps"
	"github.com/miruken-go/dispatch"
	"strconv"
)

// Load reads dispatch.Options at path of the Koanf instance and
// completes them with dispatch.DefaultOptions.
// https://github.com/knadh/koanf
func Load(k *koanf.Koanf, path string) (dispatch.Options, error) {
	if k == nil {
		panic("k cannot be nil")
	}
	var options dispatch.Options
	if err := k.UnmarshalWithConf(path, &options, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return options, fmt.Errorf("config: %w", err)
	}
	if err := dispatch.MergeOptions(&dispatch.DefaultOptions, &options); err != nil {
		return options, fmt.Errorf("config: %w", err)
	}
	return options, nil
}

// Options returns a dispatch.Option applying the options at path.
// Apply it before options that customize individual settings.
func Options(k *koanf.Koanf, path string) (dispatch.Option, error) {
	options, err := Load(k, path)
	if err != nil {
		return nil, err
	}
	return dispatch.WithOptions(options), nil
}

// Merge extends the default merge to convert maps with integral
// keys, e.g. from environment variables, into slices.
func Merge(src, dest map[string]any) error {
	ConvertSlices(src)
	maps.Merge(src, dest)
	return nil
}

// MergeStrict extends the strict merge to convert maps with
// integral keys into slices.
func MergeStrict(src, dest map[string]any) error {
	ConvertSlices(src)
	return maps.MergeStrict(src, dest)
}

// ConvertSlices replaces nested maps whose keys are all integers
// with slices ordered by key.
// It returns the slice and true if m itself is convertible.
func ConvertSlices(m map[string]any) ([]any, bool) {
	var slice []any
	convertible := true
	for key, val := range m {
		if nested, ok := val.(map[string]any); ok {
			if s, ok := ConvertSlices(nested); ok {
				val, m[key] = s, s
			}
		}
		if !convertible {
			continue
		}
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 {
			convertible = false
			continue
		}
		if i >= len(slice) {
			grown := make([]any, i+1)
			copy(grown, slice)
			slice = grown
		}
		slice[i] = val
	}
	if convertible && slice != nil {
		return slice, true
	}
	return nil, false
}

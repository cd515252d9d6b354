package vdsmerge

import (
	"errors"
	"log/slog"
	"runtime"
)

// MergeOption configures MergeGenerator and Merge.
// This follows the functional options pattern.
//
// Example:
//
//	plan, err := vdsmerge.MergeGenerator(uris, shapes,
//	    vdsmerge.WithAxis(0),
//	    vdsmerge.WithTargetShape(vdsmerge.Shape{10, 20, 1024}),
//	    vdsmerge.WithOrder(order),
//	    vdsmerge.WithAdvancedIndexing(false),
//	)
type MergeOption func(*mergeConfig) error

type mergeConfig struct {
	axis        int
	newaxis     bool
	target      Shape
	order       Order
	advanced    bool
	logger      *slog.Logger
	concurrency int
}

func defaultMergeConfig() mergeConfig {
	return mergeConfig{
		newaxis:     true,
		order:       OrderC,
		advanced:    true,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// WithAxis sets the merge axis (default 0). Negative values count from the end.
func WithAxis(axis int) MergeOption {
	return func(c *mergeConfig) error {
		c.axis = axis
		return nil
	}
}

// WithNewAxis selects stacking (true, the default) or concatenation (false).
func WithNewAxis(newaxis bool) MergeOption {
	return func(c *mergeConfig) error {
		c.newaxis = newaxis
		return nil
	}
}

// WithTargetShape reshapes the merged array. Nil keeps the merged shape.
func WithTargetShape(shape Shape) MergeOption {
	return func(c *mergeConfig) error {
		c.target = shape.Clone()
		return nil
	}
}

// WithOrder sets the traversal order used for reshaping and for pairing
// selected elements (default OrderC).
func WithOrder(o Order) MergeOption {
	return func(c *mergeConfig) error {
		c.order = o.Copy()
		return nil
	}
}

// WithAdvancedIndexing allows (default) or forbids IndexArray selectors.
// Forbid it when the consumer only understands hyperslabs, e.g. when
// declaring a virtual dataset layout.
func WithAdvancedIndexing(allow bool) MergeOption {
	return func(c *mergeConfig) error {
		c.advanced = allow
		return nil
	}
}

// WithLogger sets the logger for plan diagnostics (debug level only).
func WithLogger(logger *slog.Logger) MergeOption {
	return func(c *mergeConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithConcurrency bounds how many sources Merge and Apply copy at once.
// Default: GOMAXPROCS.
func WithConcurrency(n int) MergeOption {
	return func(c *mergeConfig) error {
		if n < 1 {
			return errors.New("concurrency must be at least 1")
		}
		c.concurrency = n
		return nil
	}
}

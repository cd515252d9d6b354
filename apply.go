package vdsmerge

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Merge stacks (or concatenates) arrays and optionally reshapes the result, by
// planning the merge and applying every index pair.
func Merge[T any](arrays []*Array[T], opts ...MergeOption) (*Array[T], error) {
	plan, err := MergeSources(arrays, opts...)
	if err != nil {
		return nil, err
	}
	return Apply(context.Background(), plan, func(_ context.Context, a *Array[T]) (*Array[T], error) {
		return a, nil
	})
}

// Apply executes a plan into a new array. resolve turns a source handle into
// its data. Sources fill disjoint output regions and are copied concurrently,
// bounded by WithConcurrency.
func Apply[T any, S any](ctx context.Context, plan *Plan[S], resolve func(context.Context, S) (*Array[T], error)) (*Array[T], error) {
	if plan.shape == nil {
		return nil, fmt.Errorf("apply: %w: plan has no sources", ErrShapeMismatch)
	}
	out, err := Zeros[T](plan.shape)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(plan.cfg.concurrency)

	i := 0
	for src, gen := range plan.Fill() {
		n := i
		i++
		g.Go(func() error {
			arr, err := resolve(ctx, src)
			if err != nil {
				return fmt.Errorf("resolve source %d: %w", n, err)
			}
			if !arr.shape.Equal(plan.shapes[n]) {
				return fmt.Errorf("%w: source %d has shape %v, planned %v",
					ErrShapeMismatch, n, arr.shape, plan.shapes[n])
			}
			for in, sel := range gen() {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := CopySelection(out, sel, arr, in, plan.cfg.order); err != nil {
					return fmt.Errorf("source %d: %w", n, err)
				}
			}
			return nil
		})
		if ctx.Err() != nil {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	plan.cfg.logger.Debug("merge applied", "sources", i, "shape", plan.shape)
	return out, nil
}

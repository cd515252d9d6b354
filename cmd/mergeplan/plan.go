package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/scigolib/vdsmerge"
)

// parseShape parses a comma-separated list of extents. An empty string
// yields a nil shape.
func parseShape(s string) (vdsmerge.Shape, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	shape := make(vdsmerge.Shape, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("extent %q: %w", f, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("extent %d must not be negative", v)
		}
		shape[i] = v
	}
	return shape, nil
}

// sources names n sources of the same shape.
func sources(n int, shape vdsmerge.Shape) ([]string, []vdsmerge.Shape) {
	names := make([]string, n)
	shapes := make([]vdsmerge.Shape, n)
	for i := range names {
		names[i] = fmt.Sprintf("source_%d", i)
		shapes[i] = shape
	}
	return names, shapes
}

// printPlan writes the output shape and every selection pair of the plan.
func printPlan(w io.Writer, plan *vdsmerge.Plan[string]) error {
	if _, err := fmt.Fprintf(w, "Output shape %v, order %s\n", plan.Shape(), plan.Order()); err != nil {
		return err
	}
	pairs := 0
	for src, gen := range plan.Fill() {
		for in, out := range gen() {
			if _, err := fmt.Fprintf(w, "  %-10s %s -> %s\n", src, in, out); err != nil {
				return err
			}
			pairs++
		}
	}
	_, err := fmt.Fprintf(w, "%d sources, %d selection pairs\n", plan.Len(), pairs)
	return err
}

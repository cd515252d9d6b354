// Package main provides a command-line utility to inspect merge plans.
// It prints the (input, output) selection pairs that stack or concatenate
// same-shaped sources and reshape the result, then checks that the plan
// writes every output element exactly once.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/scigolib/vdsmerge"
)

func main() {
	// Define command-line flags
	shapeFlag := flag.String("shape", "", "Shape of every source, e.g. 2,3")
	n := flag.Int("n", 2, "Number of sources")
	axis := flag.Int("axis", 0, "Merge axis (negative counts from the end)")
	concat := flag.Bool("concat", false, "Concatenate along axis instead of stacking")
	targetFlag := flag.String("target", "", "Target shape after merging, e.g. 3,4")
	layout := flag.String("order", "C", "Fill order: C or F")
	caxes := flag.String("caxes", "", "Continuous axes: empty, all, or a list such as 0,1")
	basic := flag.Bool("basic", false, "Use hyperslab selections only (no index arrays)")
	verbose := flag.Bool("v", false, "Log plan diagnostics")
	flag.Parse()

	if *shapeFlag == "" || *n < 1 {
		fmt.Println("Usage: mergeplan -shape 2,3 [flags]")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	shape, err := parseShape(*shapeFlag)
	if err != nil {
		log.Fatalf("Invalid -shape: %v", err)
	}
	target, err := parseShape(*targetFlag)
	if err != nil {
		log.Fatalf("Invalid -target: %v", err)
	}
	order, err := vdsmerge.ParseOrder(*layout, *caxes)
	if err != nil {
		log.Fatalf("Invalid order: %v", err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	names, shapes := sources(*n, shape)
	plan, err := vdsmerge.MergeGenerator(names, shapes,
		vdsmerge.WithAxis(*axis),
		vdsmerge.WithNewAxis(!*concat),
		vdsmerge.WithTargetShape(target),
		vdsmerge.WithOrder(order),
		vdsmerge.WithAdvancedIndexing(!*basic),
		vdsmerge.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to plan merge: %v", err)
	}

	if err := printPlan(os.Stdout, plan); err != nil {
		log.Fatalf("Failed to print plan: %v", err)
	}

	if err := plan.Validate(); err != nil {
		log.Fatalf("Invalid plan: %v", err)
	}
	fmt.Println("Plan covers every output element exactly once.")
}

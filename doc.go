// Package vdsmerge plans how many same-shaped arrays are merged into one.
//
// The typical use is building an HDF5 virtual dataset from the files of a
// detector scan: every file holds a few frames, and the virtual dataset
// presents them as one array shaped like the scan grid. The package never
// opens a file. It only works with shapes and produces selection pairs:
//
//	plan, err := vdsmerge.MergeGenerator(files, shapes,
//	    vdsmerge.WithTargetShape(vdsmerge.Shape{10, 20, 1024, 1024}),
//	    vdsmerge.WithOrder(vdsmerge.OrderC.WithAllContinuous()),
//	    vdsmerge.WithAdvancedIndexing(false),
//	)
//	for file, gen := range plan.Fill() {
//	    for in, out := range gen() {
//	        // output[out] = file[in]
//	    }
//	}
//
// Order controls the traversal used for reshaping, including continuous
// (snake) axes for raster scans that sweep back and forth. The compression
// helpers turn coordinate lists into slices, VirtualLayout converts a plan to
// hyperslab mappings, and Merge and Apply execute a plan on in-memory arrays.
package vdsmerge

// Package testutil provides testing utilities for sframe.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Generation
//
//	rng := testutil.NewRNG(seed)
//	labels := rng.Labels(100)        // unique string labels
//	perm := rng.Perm(100)
//
// # Frame Fixtures
//
//	f := testutil.Frame("f1", 4, 2)             // deterministic float frame
//	g := testutil.MixedFrame("f2", 4, 3)        // int, string, bool columns
//	r := rng.Frame("f3", 100, 8)                // random floats
package testutil

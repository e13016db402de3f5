// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for PGO profile generation. They cover
// the hot paths of a rusk invocation:
//   - task file parsing and lookup
//   - registry building and cycle validation
//   - placeholder interpolation and condition evaluation
//   - native and virtual runtime execution
//   - the end-to-end task pipeline
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -run '^$' -bench . -cpuprofile default.pgo
package benchmark

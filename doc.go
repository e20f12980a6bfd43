// Package ordina is a constrained-ordination toolkit for community ecology:
// canonical correspondence analysis (CCA) of a samples × features abundance
// table against a samples × constraints environmental table.
//
// What is inside?
//
//	• Dense matrices with safe accessors, weighted statistics and a thin SVD
//	• Labeled tables with CSV ingestion and export
//	• CCA with both scaling conventions, biplot scores and per-block ranks
//	• A CLI for single runs and bounded-concurrency batches
//
// Why ordina?
//
//   - Deterministic: identical inputs give bit-identical coordinates
//   - Safe surface: sentinel errors, never a panic on user input
//   - Pure Go: gonum for the factorization, nothing cgo
//
// Under the hood, everything is organized under these packages:
//
//	matrix/        Dense storage, validators, kernels, statistics, SVD & least squares
//	table/         labeled tables, CSV reader/writer
//	ordination/    CCA and its immutable Results
//	internal/      CLI configuration and report writers
//	cmd/ordina/    command-line entry point (run, batch)
//
// Quick example:
//
//	y, _ := table.FromRows(sites, species, counts)
//	x, _ := table.FromRows(sites, []string{"ph", "depth"}, env)
//	res, err := ordination.CCA(y, x, ordination.Scaling1)
//
//	go install github.com/katalvlaran/ordina/cmd/ordina@latest
package ordina

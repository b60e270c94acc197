// Package pipeline orchestrates a full scrape run: all source adapters fetch
// concurrently, their output is normalized and merged into one canonical
// dataset, and a metadata document summarizes the run. A failed source only
// shrinks the dataset; the run itself always completes.
package pipeline

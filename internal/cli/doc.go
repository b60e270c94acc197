// Package cli wires the zwemsterdam commands: "scrape" runs the pipeline and
// writes the dataset, "optisport" runs the browser-session fetch that feeds
// the Optisport cache.
package cli

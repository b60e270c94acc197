// Package storage persists the pipeline's outputs: the canonical dataset
// (data.json), its metadata document (metadata.json) and the intermediate
// Optisport cache that decouples the browser fetch from the pipeline run.
package storage

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/favstats/zwemsterdam/internal/pipeline"
	"github.com/favstats/zwemsterdam/internal/session"
)

// OutputFormat specifies the run-summary format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// RunResult is the summary printed after a scrape run.
type RunResult struct {
	GeneratedAt   string         `json:"generated_at"`
	TotalSessions int            `json:"total_sessions"`
	Pools         []string       `json:"pools"`
	ByPool        map[string]int `json:"by_pool"`
	Added         int            `json:"added"`
	Removed       int            `json:"removed"`
}

func newRunResult(sessions []session.Session, metadata *pipeline.Metadata, diff *session.DiffResult) *RunResult {
	byPool := make(map[string]int)
	for _, s := range sessions {
		byPool[s.Pool]++
	}
	return &RunResult{
		GeneratedAt:   metadata.LastUpdated,
		TotalSessions: metadata.TotalSessions,
		Pools:         metadata.Pools,
		ByPool:        byPool,
		Added:         len(diff.Added),
		Removed:       len(diff.Removed),
	}
}

// WriteOutput writes the run summary in the requested format.
func WriteOutput(w io.Writer, result *RunResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeText(w io.Writer, result *RunResult) error {
	fmt.Fprintf(w, "Exported %d sessions across %d pools.\n", result.TotalSessions, len(result.Pools))
	for _, pool := range result.Pools {
		fmt.Fprintf(w, "  %-35s %4d\n", pool, result.ByPool[pool])
	}
	if result.Added > 0 || result.Removed > 0 {
		fmt.Fprintf(w, "Changes since previous export: %d added, %d removed.\n", result.Added, result.Removed)
	}
	return nil
}

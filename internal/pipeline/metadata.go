package pipeline

import (
	"sort"
	"time"

	"github.com/favstats/zwemsterdam/internal/config"
	"github.com/favstats/zwemsterdam/internal/scraper"
	"github.com/favstats/zwemsterdam/internal/session"
)

// localTimeLayout is the Dutch display format used for lastUpdatedLocal.
const localTimeLayout = "02-01-2006 15:04"

// DataSource is a static description of one upstream source, published in
// the metadata document so the dashboard can credit its sources.
type DataSource struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Pools       []string `json:"pools"`
}

// Metadata is the run summary written next to the dataset.
type Metadata struct {
	LastUpdated      string       `json:"lastUpdated"`      // RFC3339 UTC
	LastUpdatedLocal string       `json:"lastUpdatedLocal"` // display string, Europe/Amsterdam
	TotalSessions    int          `json:"totalSessions"`
	Pools            []string     `json:"pools"`
	DataSources      []DataSource `json:"dataSources"`
}

func dataSources(cfg *config.Config) []DataSource {
	municipalPools := make([]string, 0, len(scraper.DefaultMunicipalPools))
	for _, p := range scraper.DefaultMunicipalPools {
		municipalPools = append(municipalPools, p.Name)
	}

	return []DataSource{
		{
			Name:        "Gemeente Amsterdam",
			Description: "Dagroosters van de gemeentelijke zwembaden, per datum opgevraagd",
			URL:         cfg.Sources.Municipal,
			Pools:       municipalPools,
		},
		{
			Name:        "Het Marnix",
			Description: "Weekrooster via de agenda van hetmarnix.nl",
			URL:         cfg.Sources.Marnix,
			Pools:       []string{"Het Marnix"},
		},
		{
			Name:        "Sportfondsen",
			Description: "Zwemrooster uit de roosterpagina van het Sportfondsenbad",
			URL:         cfg.Sources.Sportfondsen,
			Pools:       []string{"Sportfondsenbad Amsterdam-Oost"},
		},
		{
			Name:        "Duranbad",
			Description: "Openingstijden van de roosterpagina, inclusief tijdelijke aangepaste roosters",
			URL:         cfg.Sources.Duranbad,
			Pools:       []string{"Duranbad"},
		},
		{
			Name:        "Optisport",
			Description: "Rooster via de Optisport API, opgehaald met een browsersessie",
			URL:         cfg.Sources.Optisport,
			Pools:       []string{"Sloterparkbad"},
		},
	}
}

func buildMetadata(cfg *config.Config, sessions []session.Session, now time.Time) *Metadata {
	seen := make(map[string]bool)
	pools := make([]string, 0)
	for _, s := range sessions {
		if !seen[s.Pool] {
			seen[s.Pool] = true
			pools = append(pools, s.Pool)
		}
	}
	sort.Strings(pools)

	local := now
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		local = now.In(loc)
	}

	return &Metadata{
		LastUpdated:      now.UTC().Format(time.RFC3339),
		LastUpdatedLocal: local.Format(localTimeLayout),
		TotalSessions:    len(sessions),
		Pools:            pools,
		DataSources:      dataSources(cfg),
	}
}

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PoolConfig maps a canonical pool name to its public website. The website is
// attached to every exported session for that pool.
type PoolConfig struct {
	Name    string `yaml:"name"`
	Website string `yaml:"website"`
}

// SourceURLs holds the upstream base URLs. They are configurable because the
// upstream domains have moved before (the Sportfondsen migration broke scrapes
// silently until the output shrank).
type SourceURLs struct {
	Municipal    string `yaml:"municipal"`
	Marnix       string `yaml:"marnix"`
	Sportfondsen string `yaml:"sportfondsen"`
	Duranbad     string `yaml:"duranbad"`
	Optisport    string `yaml:"optisport"`
}

// Config is the top-level application configuration.
type Config struct {
	// DataDir is where data.json, metadata.json and the optisport cache
	// are written.
	DataDir string `yaml:"data_dir"`

	// CacheFile is the optisport intermediate cache file name, relative to
	// DataDir.
	CacheFile string `yaml:"cache_file"`

	// Timezone is the IANA zone used for the localized timestamp and for
	// deciding "today" during override checks.
	Timezone string `yaml:"timezone"`

	// Pools is the static pool → website mapping.
	Pools []PoolConfig `yaml:"pools"`

	Sources SourceURLs `yaml:"sources"`
}

// DefaultConfig returns the built-in configuration covering all known pools.
func DefaultConfig() *Config {
	return &Config{
		DataDir:   "data",
		CacheFile: "optisport.json",
		Timezone:  "Europe/Amsterdam",
		Pools: []PoolConfig{
			{Name: "Zuiderbad", Website: "https://www.amsterdam.nl/zuiderbad"},
			{Name: "De Mirandabad", Website: "https://www.amsterdam.nl/demirandabad"},
			{Name: "Flevoparkbad", Website: "https://www.amsterdam.nl/flevoparkbad"},
			{Name: "Noorderparkbad", Website: "https://www.amsterdam.nl/noorderparkbad"},
			{Name: "Bijlmerbad", Website: "https://www.amsterdam.nl/bijlmerbad"},
			{Name: "Het Marnix", Website: "https://www.hetmarnix.nl"},
			{Name: "Sportfondsenbad Amsterdam-Oost", Website: "https://www.sportfondsenbadamsterdamoost.nl"},
			{Name: "Duranbad", Website: "https://www.duranbad.nl"},
			{Name: "Sloterparkbad", Website: "https://www.optisport.nl/sloterparkbad"},
		},
		Sources: SourceURLs{
			Municipal:    "https://www.amsterdam.nl/api/zwemrooster",
			Marnix:       "https://www.hetmarnix.nl/wp/wp-admin/admin-ajax.php",
			Sportfondsen: "https://www.sportfondsenbadamsterdamoost.nl/zwemrooster",
			Duranbad:     "https://www.duranbad.nl",
			Optisport:    "https://www.optisport.nl",
		},
	}
}

// Normalize fills missing values with defaults so a partially-filled config
// file still behaves.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.CacheFile == "" {
		c.CacheFile = def.CacheFile
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if len(c.Pools) == 0 {
		c.Pools = def.Pools
	}
	if c.Sources.Municipal == "" {
		c.Sources.Municipal = def.Sources.Municipal
	}
	if c.Sources.Marnix == "" {
		c.Sources.Marnix = def.Sources.Marnix
	}
	if c.Sources.Sportfondsen == "" {
		c.Sources.Sportfondsen = def.Sources.Sportfondsen
	}
	if c.Sources.Duranbad == "" {
		c.Sources.Duranbad = def.Sources.Duranbad
	}
	if c.Sources.Optisport == "" {
		c.Sources.Optisport = def.Sources.Optisport
	}
}

// Website looks up the configured website for a pool. A pool missing from the
// mapping yields an empty string; the pipeline passes such sessions through
// rather than failing the run.
func (c *Config) Website(pool string) string {
	for _, p := range c.Pools {
		if p.Name == pool {
			return p.Website
		}
	}
	return ""
}

// Load reads configuration from a YAML file. A missing file is not an error:
// the defaults are written there so the operator has something to edit.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename).
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".zwemsterdam-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

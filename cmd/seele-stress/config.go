package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/plus3/seele/looper"
)

// Config describes one stress run. It is read from an optional YAML file and
// then overridden by any flag given explicitly on the command line.
type Config struct {
	Duration       time.Duration  `yaml:"duration"`
	Entities       int            `yaml:"entities"`
	Components     int            `yaml:"components"`
	Systems        int            `yaml:"systems"`
	Churn          int            `yaml:"churn"`
	Seed           int64          `yaml:"seed"`
	GCPauseMetrics bool           `yaml:"gc_pause_metrics"`
	Looper         looper.Options `yaml:"looper"`

	Profile  string `yaml:"-"`
	Snapshot string `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		Duration:   10 * time.Second,
		Entities:   10000,
		Components: 64,
		Systems:    32,
		Churn:      100,
		Seed:       1,
		Looper:     looper.DefaultOptions(),
	}
}

func readConfig(r io.Reader, cfg *Config) error {
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !eris.Is(err, io.EOF) {
		return eris.Wrap(err, "failed to decode stress config")
	}
	cfg.Looper = looper.DefaultOptions().Merge(cfg.Looper)
	return nil
}

func parseConfig(args []string) (Config, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("seele-stress", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML file with the run configuration.")
	duration := fs.Duration("duration", cfg.Duration, "The total duration the test should run for.")
	entities := fs.Int("entities", cfg.Entities, "The initial number of entities to create.")
	components := fs.Int("components", cfg.Components, "The number of component types to define.")
	systems := fs.Int("systems", cfg.Systems, "The number of counting systems to register.")
	churn := fs.Int("churn", cfg.Churn, "Structural changes queued per update.")
	seed := fs.Int64("seed", cfg.Seed, "Random seed.")
	gcPauseMetrics := fs.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := fs.String("profile", "", "Write a profile to the working directory: cpu or mem.")
	snapshot := fs.String("snapshot", "", "Write the final world to this YAML file and verify it loads.")

	if err := fs.Parse(args); err != nil {
		return Config{}, eris.Wrap(err, "failed to parse flags")
	}

	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			return Config{}, eris.Wrapf(err, "failed to open %s", *configPath)
		}
		defer f.Close()

		if err := readConfig(f, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Duration = *duration
		case "entities":
			cfg.Entities = *entities
		case "components":
			cfg.Components = *components
		case "systems":
			cfg.Systems = *systems
		case "churn":
			cfg.Churn = *churn
		case "seed":
			cfg.Seed = *seed
		case "gc-pause-metrics":
			cfg.GCPauseMetrics = *gcPauseMetrics
		}
	})
	cfg.Profile = *profileMode
	cfg.Snapshot = *snapshot

	if cfg.Components < 1 {
		return Config{}, eris.Errorf("components must be positive, got %d", cfg.Components)
	}
	switch cfg.Profile {
	case "", "cpu", "mem":
	default:
		return Config{}, eris.Errorf("unknown profile mode %q", cfg.Profile)
	}

	return cfg, nil
}

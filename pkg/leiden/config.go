package leiden

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages driver defaults using Viper, mirroring
// graph-clustering-algorithm/pkg/louvain/config.go's Config. It is the
// ambient convenience layer on top of the value-typed Options the three
// public entry points accept directly; callers who don't want a viper
// dependency never have to touch Config.
type Config struct {
	v *viper.Viper
}

// NewConfig creates a Config with spec.md's defaults.
func NewConfig() *Config {
	v := viper.New()

	v.SetDefault("algorithm.resolution", 1.0)
	v.SetDefault("algorithm.randomness", 0.01)
	v.SetDefault("algorithm.iterations", 10)
	v.SetDefault("algorithm.trials", 1)
	v.SetDefault("algorithm.use_modularity", true)
	v.SetDefault("algorithm.max_cluster_size", 50)
	v.SetDefault("algorithm.random_seed", time.Now().UnixNano())

	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile loads overrides from a YAML/JSON/TOML file.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

func (c *Config) Resolution() float64     { return c.v.GetFloat64("algorithm.resolution") }
func (c *Config) Randomness() float64     { return c.v.GetFloat64("algorithm.randomness") }
func (c *Config) Iterations() int         { return c.v.GetInt("algorithm.iterations") }
func (c *Config) Trials() int             { return c.v.GetInt("algorithm.trials") }
func (c *Config) UseModularity() bool     { return c.v.GetBool("algorithm.use_modularity") }
func (c *Config) MaxClusterSize() int     { return c.v.GetInt("algorithm.max_cluster_size") }
func (c *Config) RandomSeed() int64       { return c.v.GetInt64("algorithm.random_seed") }
func (c *Config) LogLevel() string        { return c.v.GetString("logging.level") }

// Set allows dynamic configuration changes.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// Options builds the value-typed Options this Config currently describes,
// for callers that want Config's defaulting/file-loading convenience but
// the core entry points' plain-value signature.
func (c *Config) Options() Options {
	seed := uint64(c.RandomSeed())
	return Options{
		Resolution:    c.Resolution(),
		Randomness:    c.Randomness(),
		Iterations:    c.Iterations(),
		UseModularity: c.UseModularity(),
		Trials:        c.Trials(),
		MaxClusterSize: c.MaxClusterSize(),
		Seed:          &seed,
	}
}

// CreateLogger builds a zerolog logger from this Config, matching the
// teacher's CreateLogger construction.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "leiden").Logger()
}

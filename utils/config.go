package utils

import (
	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defaultDataDir             = "./data"
	defaultLogLevel            = "info"
	defaultCompactionThreshold = 1 << 20
)

var InstanceConfig = NewDefaultConfig()

type Config struct {
	DataDir  string
	LogLevel string
	// CompactionThreshold is the stale-byte count that triggers
	// compaction on the next write. The CLI passes it to the engine
	// unchanged; a zero value makes every write compact.
	CompactionThreshold int64
}

func NewDefaultConfig() Config {
	return Config{
		DataDir:             defaultDataDir,
		LogLevel:            defaultLogLevel,
		CompactionThreshold: defaultCompactionThreshold,
	}
}

// Parse overlays YAML settings onto the config. The threshold accepts
// human-readable sizes ("512K", "1M").
func (c *Config) Parse(data []byte) error {
	var aux struct {
		DataDir             string `yaml:"data_dir"`
		LogLevel            string `yaml:"log_level"`
		CompactionThreshold string `yaml:"compaction_threshold"`
	}

	if err := yaml.Unmarshal(data, &aux); err != nil {
		return errors.Wrap(err, "unmarshal configuration")
	}

	if aux.DataDir != "" {
		c.DataDir = aux.DataDir
	}
	if aux.LogLevel != "" {
		c.LogLevel = aux.LogLevel
	}
	if aux.CompactionThreshold != "" {
		n, err := bytefmt.ToBytes(aux.CompactionThreshold)
		if err != nil {
			return errors.Wrapf(err, "invalid compaction_threshold %q", aux.CompactionThreshold)
		}
		c.CompactionThreshold = int64(n)
	}
	return nil
}

package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logcask/logcask/utils"
)

func TestNewDefaultConfig(t *testing.T) {
	config := utils.NewDefaultConfig()
	assert.Equal(t, "./data", config.DataDir)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, int64(1<<20), config.CompactionThreshold)
}

func TestParseOverlaysSettings(t *testing.T) {
	data := []byte(`
data_dir: /var/lib/logcask
log_level: debug
compaction_threshold: 512K
`)
	config := utils.NewDefaultConfig()
	require.Nil(t, config.Parse(data))
	assert.Equal(t, "/var/lib/logcask", config.DataDir)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, int64(512*1024), config.CompactionThreshold)
}

func TestParseKeepsDefaultsForOmittedSettings(t *testing.T) {
	config := utils.NewDefaultConfig()
	require.Nil(t, config.Parse([]byte("log_level: error\n")))
	assert.Equal(t, "./data", config.DataDir)
	assert.Equal(t, "error", config.LogLevel)
	assert.Equal(t, int64(1<<20), config.CompactionThreshold)
}

func TestParseRejectsBadInput(t *testing.T) {
	config := utils.NewDefaultConfig()
	assert.NotNil(t, config.Parse([]byte("data_dir: [")))
	assert.NotNil(t, config.Parse([]byte("compaction_threshold: ten bytes\n")))
}

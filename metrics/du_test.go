package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logcask/logcask/metrics"
)

func TestDiskUsage(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "store.log"), make([]byte, 1024), 0o600))
	require.Nil(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o770))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "sub", "extra"), make([]byte, 512), 0o600))

	assert.Equal(t, int64(1536), metrics.DiskUsage(dir))
}

func TestDiskUsageEmptyDirectory(t *testing.T) {
	assert.Equal(t, int64(0), metrics.DiskUsage(t.TempDir()))
}

package metrics

import (
	"os"
	"path/filepath"

	"github.com/logcask/logcask/utils/log"
)

// DiskUsage returns the total size of the regular files under path.
func DiskUsage(path string) int64 {
	var totalSize int64
	err := filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		log.Error("get the disk usage of the directory %s: %v", path, err)
	}
	return totalSize
}

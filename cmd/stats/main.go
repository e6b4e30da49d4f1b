package stats

import (
	"fmt"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/logcask/logcask/cask"
	"github.com/logcask/logcask/metrics"
	"github.com/logcask/logcask/utils"
)

const (
	usage   = "stats"
	short   = "Print store statistics"
	long    = "This command prints the key count and byte accounting of the store"
	example = "logcask stats --data-dir ./data"
)

var (
	// Cmd is the stats command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    executeStats,
	}
)

// executeStats implements the stats command.
func executeStats(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	store, err := cask.Open(utils.InstanceConfig.DataDir)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer store.Close()

	st := store.Stats()
	fmt.Printf("keys:        %d\n", st.Keys)
	fmt.Printf("log size:    %s\n", bytefmt.ByteSize(uint64(st.LogBytes)))
	fmt.Printf("live:        %s\n", bytefmt.ByteSize(uint64(st.LiveBytes)))
	fmt.Printf("uncompacted: %s\n", bytefmt.ByteSize(uint64(st.UncompactedBytes)))
	fmt.Printf("disk usage:  %s\n", bytefmt.ByteSize(uint64(metrics.DiskUsage(utils.InstanceConfig.DataDir))))
	return nil
}

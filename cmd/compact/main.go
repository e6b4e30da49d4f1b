package compact

import (
	"fmt"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/logcask/logcask/cask"
	"github.com/logcask/logcask/utils"
)

const (
	usage   = "compact"
	short   = "Rewrite the log to contain only live records"
	long    = "This command compacts the store's log, reclaiming space held by overwritten records and tombstones"
	example = "logcask compact --data-dir ./data"
)

var (
	// Cmd is the compact command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    executeCompact,
	}
)

// executeCompact implements the compact command.
func executeCompact(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	store, err := cask.Open(utils.InstanceConfig.DataDir)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer store.Close()

	before := store.Stats().LogBytes
	if err := store.Compact(); err != nil {
		return err
	}
	after := store.Stats().LogBytes

	reclaimed := before - after
	if reclaimed < 0 {
		reclaimed = 0
	}
	fmt.Printf("compacted %s: %s -> %s (reclaimed %s)\n",
		utils.InstanceConfig.DataDir,
		bytefmt.ByteSize(uint64(before)),
		bytefmt.ByteSize(uint64(after)),
		bytefmt.ByteSize(uint64(reclaimed)))
	return nil
}

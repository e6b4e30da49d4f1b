package set

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/logcask/logcask/cask"
	"github.com/logcask/logcask/utils"
)

const (
	usage   = "set <KEY> <VALUE>"
	short   = "Store a value under a key"
	long    = "This command durably stores the given value under the given key"
	example = "logcask set user Alice"
)

var (
	// Cmd is the set command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		Args:    cobra.ExactArgs(2),
		RunE:    executeSet,
	}
)

// executeSet implements the set command.
func executeSet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	store, err := cask.Open(utils.InstanceConfig.DataDir)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer store.Close()
	store.SetCompactionThreshold(utils.InstanceConfig.CompactionThreshold)

	return store.Set(args[0], args[1])
}

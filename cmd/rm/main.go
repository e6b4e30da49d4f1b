package rm

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/logcask/logcask/cask"
	"github.com/logcask/logcask/utils"
)

const (
	usage   = "rm <KEY>"
	short   = "Remove a key"
	long    = "This command removes the given key, or fails if the key is absent"
	example = "logcask rm user"
)

var (
	// Cmd is the rm command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Aliases: []string{"remove"},
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    executeRm,
	}
)

// executeRm implements the rm command.
func executeRm(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	store, err := cask.Open(utils.InstanceConfig.DataDir)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer store.Close()
	store.SetCompactionThreshold(utils.InstanceConfig.CompactionThreshold)

	return store.Remove(args[0])
}

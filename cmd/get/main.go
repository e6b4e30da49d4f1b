package get

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/logcask/logcask/cask"
	"github.com/logcask/logcask/utils"
)

const (
	usage   = "get <KEY>"
	short   = "Print the value stored under a key"
	long    = "This command prints the value stored under the given key, or fails if the key is absent"
	example = "logcask get user"
)

var (
	// Cmd is the get command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    executeGet,
	}
)

// executeGet implements the get command.
func executeGet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	store, err := cask.Open(utils.InstanceConfig.DataDir)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer store.Close()

	value, ok, err := store.Get(args[0])
	if err != nil {
		return errors.Wrap(err, "failed to read key")
	}
	if !ok {
		return errors.New("Key not found")
	}
	fmt.Println(value)
	return nil
}

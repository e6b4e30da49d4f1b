package bench

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/logcask/logcask/cask"
	"github.com/logcask/logcask/utils"
)

const (
	usage   = "bench"
	short   = "Run a write/read throughput benchmark against the store"
	long    = "This command measures sequential write, random read and overwrite throughput of the store"
	example = "logcask bench --data-dir ./bench_data -n 10000"

	countDesc     = "number of operations per phase"
	valueSizeDesc = "size of each value in bytes"

	// Keep compaction out of the timed phases.
	benchThreshold = 100 << 20
)

var (
	// Cmd is the bench command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    executeBench,
	}
	count     int
	valueSize int
)

// nolint:gochecknoinits // cobra's standard way to initialize flags
func init() {
	Cmd.Flags().IntVarP(&count, "count", "n", 10000, countDesc)
	Cmd.Flags().IntVar(&valueSize, "value-size", 100, valueSizeDesc)
}

// executeBench implements the bench command.
func executeBench(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	store, err := cask.Open(utils.InstanceConfig.DataDir)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer store.Close()
	store.SetCompactionThreshold(benchThreshold)

	value := strings.Repeat("0", valueSize)

	start := time.Now()
	for i := 0; i < count; i++ {
		if err := store.Set(fmt.Sprintf("key_%06d", i), value); err != nil {
			return err
		}
	}
	report("sequential writes", count, time.Since(start))

	rng := rand.New(rand.NewSource(42))
	start = time.Now()
	for i := 0; i < count; i++ {
		key := fmt.Sprintf("key_%06d", rng.Intn(count))
		if _, _, err := store.Get(key); err != nil {
			return err
		}
	}
	report("random reads", count, time.Since(start))

	start = time.Now()
	for i := 0; i < count; i++ {
		if err := store.Set("hot_key", value); err != nil {
			return err
		}
	}
	report("overwrites", count, time.Since(start))

	st := store.Stats()
	fmt.Printf("log size %s, live %s, uncompacted %s\n",
		bytefmt.ByteSize(uint64(st.LogBytes)),
		bytefmt.ByteSize(uint64(st.LiveBytes)),
		bytefmt.ByteSize(uint64(st.UncompactedBytes)))
	return nil
}

func report(phase string, ops int, elapsed time.Duration) {
	fmt.Printf("%-17s %7d ops in %10v (%9.0f ops/sec)\n",
		phase, ops, elapsed, float64(ops)/elapsed.Seconds())
}

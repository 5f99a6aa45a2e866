package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backbone81/record-log/pkg/wal"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Initializes a new write-ahead log.",
	Long:         `Initializes a new write-ahead log.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		initialized, err := wal.IsInitialized(walConfig.File)
		if err != nil {
			return err
		}
		if initialized {
			return fmt.Errorf("WAL already initialized at %q", walConfig.File)
		}

		if err := wal.Init(walConfig.File); err != nil {
			return err
		}
		fmt.Printf("WAL initialized at %q.\n", walConfig.File)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/backbone81/record-log/internal/config"
)

var (
	filePath   string
	configPath string

	// walConfig is the configuration after applying the config file and the flags. It is available to all commands.
	walConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wal-cli",
	Short: "A tool for interacting with write-ahead logs.",
	Long:  `A tool for interacting with write-ahead logs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		walConfig = config.DefaultConfig()
		if configPath != "" {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			walConfig = loaded
		}
		if cmd.Flags().Changed("file") {
			walConfig.File = filePath
		}
		return walConfig.Validate()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&filePath,
		"file",
		"f",
		config.DefaultConfig().File,
		"The file the write-ahead log is stored in. Overrides the config file.",
	)

	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"The YAML config file to load.",
	)
}

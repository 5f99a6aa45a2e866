package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/backbone81/record-log/pkg/wal"
)

var catHex bool

// catCmd represents the cat command.
var catCmd = &cobra.Command{
	Use:          "cat",
	Short:        "Prints all records of the write-ahead log.",
	Long:         `Prints all records of the write-ahead log together with their offset in the file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := wal.NewReader(walConfig.File)
		if err != nil {
			return err
		}
		defer func() {
			if err := reader.Close(); err != nil {
				fmt.Println(err)
			}
		}()

		for reader.Next() {
			value := reader.Value()
			if catHex {
				fmt.Printf("%d\t%s\n", value.Offset, hex.EncodeToString(value.Data))
			} else {
				fmt.Printf("%d\t%q\n", value.Offset, value.Data)
			}
		}
		if !errors.Is(reader.Err(), io.EOF) {
			return reader.Err()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catCmd)

	catCmd.Flags().BoolVar(
		&catHex,
		"hex",
		false,
		"Print the records hex encoded.",
	)
}

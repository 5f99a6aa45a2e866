package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/backbone81/record-log/pkg/wal"
)

var appendStdin bool

// appendCmd represents the append command.
var appendCmd = &cobra.Command{
	Use:          "append [record...]",
	Short:        "Appends records to the write-ahead log.",
	Long:         `Appends every argument as a record to the write-ahead log. With --stdin every line read from standard input becomes a record.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		records := make([][]byte, 0, len(args))
		for _, arg := range args {
			records = append(records, []byte(arg))
		}
		if appendStdin {
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
			for scanner.Scan() {
				records = append(records, append([]byte{}, scanner.Bytes()...))
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading standard input: %w", err)
			}
		}

		writerOptions, err := walConfig.WriterOptions()
		if err != nil {
			return err
		}

		reader, err := wal.NewReader(walConfig.File)
		if err != nil {
			return err
		}
		for reader.Next() {
			// Move to the end of the WAL.
		}
		readErr := reader.Err()
		offset := reader.Offset()

		writer, err := reader.ToWriter(writerOptions...)
		if err != nil {
			return errors.Join(err, reader.Close())
		}
		if !errors.Is(readErr, io.EOF) {
			fmt.Printf("Cut off the WAL at offset %d: %s\n", offset, readErr)
		}
		for _, record := range records {
			if err := writer.AddRecord(record); err != nil {
				return errors.Join(err, writer.Close())
			}
		}
		length := writer.Length()
		if err := writer.Close(); err != nil {
			return err
		}
		fmt.Printf("Appended %d records, the WAL has %d bytes now.\n", len(records), length)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(appendCmd)

	appendCmd.Flags().BoolVar(
		&appendStdin,
		"stdin",
		false,
		"Read records from standard input, one record per line.",
	)
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/backbone81/record-log/pkg/wal"
)

// describeCmd represents the describe command.
var describeCmd = &cobra.Command{
	Use:          "describe",
	Short:        "Provides detailed information about the write-ahead log.",
	Long:         `Provides detailed information about the write-ahead log.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fileInfo, err := os.Stat(walConfig.File)
		if err != nil {
			return err
		}

		reader, err := wal.NewReader(walConfig.File)
		if err != nil {
			return err
		}
		defer func() {
			if err := reader.Close(); err != nil {
				fmt.Println(err)
			}
		}()

		var records int
		var recordBytes int64
		var largestRecord int
		for reader.Next() {
			records++
			recordBytes += int64(len(reader.Value().Data))
			largestRecord = max(largestRecord, len(reader.Value().Data))
		}

		status := "clean"
		if !errors.Is(reader.Err(), io.EOF) {
			status = reader.Err().Error()
		}

		fmt.Printf("File:           %s\n", reader.FilePath())
		fmt.Printf("Size:           %d\n", fileInfo.Size())
		fmt.Printf("Blocks:         %d\n", (fileInfo.Size()+wal.BlockSize-1)/wal.BlockSize)
		fmt.Printf("Records:        %d\n", records)
		fmt.Printf("Record Bytes:   %d\n", recordBytes)
		fmt.Printf("Largest Record: %d\n", largestRecord)
		fmt.Printf("Dropped Bytes:  %d\n", reader.DroppedBytes())
		fmt.Printf("Valid Length:   %d\n", reader.Offset())
		fmt.Printf("Block Offset:   %d\n", reader.Offset()%wal.BlockSize)
		fmt.Printf("Sync Policy:    %s\n", walConfig.SyncPolicy)
		fmt.Printf("Status:         %s\n", status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

package main

import "github.com/backbone81/record-log/cmd/wal-cli/cmd"

func main() {
	cmd.Execute()
}

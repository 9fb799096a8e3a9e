package main

import (
	"github.com/spf13/cobra"

	"fsbridge/internal/fileops"
)

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a file's contents line by line",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	src, err := resolveArg(args[0])
	if err != nil {
		return err
	}
	runOp(fileops.Request{Verb: fileops.VerbCat, Source: src})
	return nil
}

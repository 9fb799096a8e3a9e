package main

import (
	"github.com/spf13/cobra"

	"fsbridge/internal/fileops"
)

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show metadata, MIME type, and volume usage for a path",
	Args:  cobra.ExactArgs(1),
	RunE:  runStat,
}

func init() {
	rootCmd.AddCommand(statCmd)
}

func runStat(cmd *cobra.Command, args []string) error {
	src, err := resolveArg(args[0])
	if err != nil {
		return err
	}
	runOp(fileops.Request{Verb: fileops.VerbStat, Source: src})
	return nil
}

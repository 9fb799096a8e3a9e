package main

import (
	"github.com/spf13/cobra"

	"fsbridge/internal/fileops"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory, including missing parents",
	Args:  cobra.ExactArgs(1),
	RunE:  runMkdir,
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
}

func runMkdir(cmd *cobra.Command, args []string) error {
	src, err := resolveArg(args[0])
	if err != nil {
		return err
	}
	runOp(fileops.Request{Verb: fileops.VerbMkdir, Source: src})
	return nil
}

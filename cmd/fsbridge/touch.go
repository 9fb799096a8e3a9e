package main

import (
	"github.com/spf13/cobra"

	"fsbridge/internal/fileops"
)

var touchCmd = &cobra.Command{
	Use:   "touch <path>",
	Short: "Create an empty file or bump its modification time",
	Args:  cobra.ExactArgs(1),
	RunE:  runTouch,
}

func init() {
	rootCmd.AddCommand(touchCmd)
}

func runTouch(cmd *cobra.Command, args []string) error {
	src, err := resolveArg(args[0])
	if err != nil {
		return err
	}
	runOp(fileops.Request{Verb: fileops.VerbTouch, Source: src})
	return nil
}

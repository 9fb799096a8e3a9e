package main

import (
	"github.com/spf13/cobra"

	"fsbridge/internal/fileops"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove a file or directory tree",
	Long: `Remove a file or directory (directories are removed recursively).
Removal always requires --force. Protected system paths are refused
even with --force.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	src, err := resolveArg(args[0])
	if err != nil {
		return err
	}
	runOp(fileops.Request{Verb: fileops.VerbRm, Source: src, Force: force})
	return nil
}

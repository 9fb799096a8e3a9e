package main

import (
	"github.com/spf13/cobra"

	"fsbridge/internal/fileops"
)

var mvCmd = &cobra.Command{
	Use:   "mv <source> <dest>",
	Short: "Move or rename a file or directory",
	Long: `Move a file or directory. Moves across filesystems fall back to a
staged copy-then-delete, so the source is never lost halfway.
Overwriting an existing file requires --force.`,
	Args: cobra.ExactArgs(2),
	RunE: runMv,
}

func init() {
	rootCmd.AddCommand(mvCmd)
}

func runMv(cmd *cobra.Command, args []string) error {
	src, err := resolveArg(args[0])
	if err != nil {
		return err
	}
	dst, err := resolveArg(args[1])
	if err != nil {
		return err
	}
	runOp(fileops.Request{Verb: fileops.VerbMv, Source: src, Dest: &dst, Force: force})
	return nil
}

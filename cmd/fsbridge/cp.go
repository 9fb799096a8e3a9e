package main

import (
	"github.com/spf13/cobra"

	"fsbridge/internal/fileops"
)

var cpCmd = &cobra.Command{
	Use:   "cp <source> <dest>",
	Short: "Copy a file or directory tree",
	Long: `Copy a file, symlink, or directory tree. Copying into an existing
directory places the source under it. Overwriting an existing file
requires --force.`,
	Args: cobra.ExactArgs(2),
	RunE: runCp,
}

func init() {
	rootCmd.AddCommand(cpCmd)
}

func runCp(cmd *cobra.Command, args []string) error {
	src, err := resolveArg(args[0])
	if err != nil {
		return err
	}
	dst, err := resolveArg(args[1])
	if err != nil {
		return err
	}
	runOp(fileops.Request{Verb: fileops.VerbCp, Source: src, Dest: &dst, Force: force})
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"fsbridge/internal/fileops"
)

var (
	lsPattern   string
	lsRecursive bool
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a directory, or summarize a single file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().StringVarP(&lsPattern, "pattern", "p", "", "Glob pattern to filter entries (doublestar syntax)")
	lsCmd.Flags().BoolVarP(&lsRecursive, "recursive", "r", false, "Walk the whole subtree")
}

// lsTarget defaults the listing to the current directory
func lsTarget(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func runLs(cmd *cobra.Command, args []string) error {
	src, err := resolveArg(lsTarget(args))
	if err != nil {
		return err
	}
	runOp(fileops.Request{
		Verb:      fileops.VerbLs,
		Source:    src,
		LsOptions: fileops.LsOptions{Pattern: lsPattern, Recursive: lsRecursive},
	})
	return nil
}

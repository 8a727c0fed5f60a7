package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typebridge/typebridge/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("typebridge %s@%s %s %s\n",
			version.Version(), version.GetGitCommit(), version.Platform(), version.GetBuildDate())
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}

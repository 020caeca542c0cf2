package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	VERSION   = "dev"
	GITCOMMIT = "last commit"
)

var rootCmd = &cobra.Command{
	Use:   "ethfill",
	Short: "ethfill - fill the unset fields of an Ethereum transaction",
	Args:  cobra.MinimumNArgs(1),
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ethfill", version())
		},
	}

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func version() string {
	return fmt.Sprintf("%s (commit:%s)", VERSION, GITCOMMIT)
}

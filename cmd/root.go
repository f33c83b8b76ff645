package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Version: fmt.Sprintf("%s, %s/%s", "0.1.0", runtime.GOOS, runtime.GOARCH),
	Use:     "hmb",
	Short:   "Home made backup: pack a list of paths into one timestamped tar archive.",
	Long: `A small CLI that reads a JSON config listing files and folders,
	and writes them into a single timestamped tar archive (optionally gzip,
	bzip2, xz or zstd compressed) inside a destination directory.`,
}

// Execute adds all child commands to the root command and sets flags.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

}

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/hinkolas/hmb/internal/backup"
	"github.com/hinkolas/hmb/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {

	// Create-Command Flags
	createCmd.Flags().BoolP("debug", "d", false, "Enable debug mode")
	createCmd.Flags().StringP("config", "i", "", "Path to configuration file (required)")

	// Mark config flag as required
	createCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(createCmd)

}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new backup archive from the specified configuration",
	Run: func(cmd *cobra.Command, args []string) {

		debug, _ := cmd.Flags().GetBool("debug")
		logger, err := createLogger(debug)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer logger.Sync()

		configPath := cmd.Flag("config").Value.String()
		reporter := tui.NewReporter(os.Stdout)

		builder := backup.NewBuilder(
			backup.WithReporter(reporter),
			backup.WithLogger(logger),
		)

		archivePath, err := builder.Create(configPath)
		if err != nil {
			var fatalErr *backup.FatalError
			switch {
			case errors.Is(err, backup.ErrConfigMissing):
				fmt.Println("Can't find a config file at", configPath)
			case errors.Is(err, backup.ErrUnsupportedMode):
				fmt.Println(err)
			case errors.As(err, &fatalErr):
				logger.Error("backup failed", zap.String("step", fatalErr.Op), zap.Error(fatalErr.Err))
				fmt.Printf("Error: %v\n", err)
			default:
				fmt.Printf("Error: %v\n", err)
			}
			logger.Sync()
			os.Exit(1)
		}

		reporter.Finish(fmt.Sprintf("✓ Backup successfully stored at %s", archivePath))

	},
}

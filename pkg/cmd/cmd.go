// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yvesmh/harmonia/pkg/app"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "harmonia",
		Short: "Upload broker and asset gateway for the Harmonia music school",
	}

	serveCmd = &cobra.Command{
		Use:     "serve",
		Short:   "start the HTTP server",
		Aliases: []string{"server", "run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewApp(configPath).Run()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the config file")

	rootCmd.AddCommand(serveCmd)

	registerConfigsCommands()
	registerDBCommands()
	registerKVCommands()
	registerMQCommands()
}

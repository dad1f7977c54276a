package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/hire-agent/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the agents over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		d := mustSetup(ctx)
		defer d.close()

		serverDeps, err := d.serverDeps()
		if err != nil {
			return err
		}

		return server.Run(ctx, viper.GetString("server.listen"), server.New(serverDeps, d.logger), d.logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", ":8080", "address to listen on")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

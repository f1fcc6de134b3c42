package main

import (
	"os"

	"github.com/spf13/cobra"
)

const relayLongDesc string = `relay forwards chat conversations from a browser frontend to the
OpenAI Chat Completions API without exposing the API key to the client.

  relay serve     Run the HTTP relay (default)
  relay config    Print the effective configuration`

const relayShortDesc string = "Chat completion relay"

func newRelayCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:          "relay",
		Short:        relayShortDesc,
		Long:         relayLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to a config file (default: ./config.yaml or ./config/config.yaml)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(newConfigCmd())
	return cmd
}

func main() {
	if err := newRelayCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

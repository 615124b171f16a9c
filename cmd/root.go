package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "phoenixd-dash",
	Short: "Dashboard backend for a phoenixd Lightning node",
	Long:  "A dashboard backend that proxies the phoenixd REST API, relays payment events to browser clients over WebSocket, and keeps a local log of incoming payments.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"raiden-channel-tui/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// -------------------- MAIN --------------------

var (
	flagConfig      string
	flagRPC         string
	flagAddress     string
	flagPrintResult bool
)

var rootCmd = &cobra.Command{
	Use:   "channel-tui",
	Short: "Open payment channels from the terminal",
	Long: `channel-tui collects the parameters for opening a payment channel:
partner address, token network, initial deposit and settle timeout.
Connected token networks are read from the configured Ethereum RPC endpoint.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newModel(options{
			configPath: flagConfig,
			rpcURL:     flagRPC,
			ownAddress: flagAddress,
		})
		defer m.cancel()

		p := tea.NewProgram(&m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run program: %w", err)
		}

		if flagPrintResult {
			for _, r := range m.results {
				fmt.Fprintln(cmd.OutOrStdout(), r.JSON())
			}
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", config.DefaultPath(), "path to the config file")
	rootCmd.Flags().StringVar(&flagRPC, "rpc", "", "Ethereum RPC URL (overrides the active config endpoint)")
	rootCmd.Flags().StringVar(&flagAddress, "address", "", "address of the local node")
	rootCmd.Flags().BoolVar(&flagPrintResult, "print-result", false, "print accepted channel parameters as JSON on exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

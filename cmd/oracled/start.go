package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-oracle/oracle/config"
	"github.com/GPTx-global/guru-oracle/oracle/daemon"
	"github.com/GPTx-global/guru-oracle/oracle/state"
)

const flagListen = "listen"

// newStartCmd runs the signature intake daemon until interrupted.
func newStartCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Collect signed node replies over HTTP and commit them once quorum is reached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok := state.FromContext(cmd.Context())
			if !ok {
				return errStateNotOpen
			}

			listen, _ := cmd.Flags().GetString(flagListen)
			if listen == "" {
				listen = getConfig().Server.Listen
			}

			d, err := daemon.New(st)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return d.Start(ctx, listen)
		},
	}

	cmd.Flags().String(flagListen, "", "listen address (default from config)")
	cmd.Annotations = map[string]string{annotationState: "true"}
	return cmd
}

package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-oracle/oracle/config"
	"github.com/GPTx-global/guru-oracle/oracle/log"
	"github.com/GPTx-global/guru-oracle/oracle/state"
	"github.com/GPTx-global/guru-oracle/x/oracle/client/cli"
)

const (
	flagHome    = "home"
	flagGenesis = "genesis"

	annotationState = "state"
)

var errStateNotOpen = errors.New("oracle state is not open")

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the oracled command tree.
func NewRootCmd() *cobra.Command {
	var (
		cfg *config.Config
		st  *state.State
	)

	closeState := func() error {
		if st == nil {
			return nil
		}
		err := st.Close()
		st = nil
		return err
	}

	rootCmd := &cobra.Command{
		Use:           "oracled",
		Short:         "Verify quorum-signed oracle responses and keep their results",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			home, _ := cmd.Flags().GetString(flagHome)

			var err error
			cfg, err = config.Load(home)
			if err != nil {
				return err
			}

			if cfg.Log.File {
				if _, err := log.ResetLogger(home, cfg.Log.Level); err != nil {
					return err
				}
			} else if err := log.InitLogger(cfg.Log.Level); err != nil {
				return err
			}

			if !needsState(cmd) {
				return nil
			}

			st, err = state.Open(cfg, log.Logger())
			if err != nil {
				return err
			}
			cmd.SetContext(state.WithState(cmd.Context(), st))

			if path, _ := cmd.Flags().GetString(flagGenesis); path != "" {
				if err := importGenesis(st, path); err != nil {
					closeState()
					return err
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, defaultHome(), "oracle daemon home directory")
	rootCmd.PersistentFlags().String(flagGenesis, "", "genesis JSON to load into an empty store")

	txCmd := cli.GetTxCmd()
	txCmd.Annotations = map[string]string{annotationState: "true"}
	queryCmd := cli.GetQueryCmd()
	queryCmd.Annotations = map[string]string{annotationState: "true"}
	exportCmd := cli.GetCmdExportGenesis()
	exportCmd.Annotations = map[string]string{annotationState: "true"}

	startCmd := newStartCmd(func() *config.Config { return cfg })

	closeStateOnExit(txCmd, closeState)
	closeStateOnExit(queryCmd, closeState)
	closeStateOnExit(startCmd, closeState)
	closeStateOnExit(exportCmd, closeState)

	rootCmd.AddCommand(
		txCmd,
		queryCmd,
		startCmd,
		exportCmd,
		cli.GetCmdCombine(),
		cli.GetCmdDigest(),
		cli.GetCmdSign(),
		cli.GetCmdFetch(),
		&cobra.Command{
			Use:   "config",
			Short: "Print the loaded configuration",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				cfg.Print()
			},
		},
	)

	return rootCmd
}

// closeStateOnExit wraps every RunE below cmd so the state is closed when the
// command returns, including on error where post-run hooks are skipped.
func closeStateOnExit(cmd *cobra.Command, closeFn func() error) {
	for _, c := range cmd.Commands() {
		closeStateOnExit(c, closeFn)
	}
	if cmd.RunE == nil {
		return
	}

	runE := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := closeFn(); err == nil {
				err = cerr
			}
		}()
		return runE(cmd, args)
	}
}

func importGenesis(st *state.State, path string) error {
	gs, err := cli.ReadGenesisFile(path)
	if err != nil {
		return err
	}

	imported, err := st.ImportGenesis(gs)
	if err != nil {
		return err
	}
	if imported {
		log.Infof("imported genesis from %s: %d nodes, %d values", path, gs.NumberOfNodes, len(gs.Data))
	} else {
		log.Infof("store already initialized, genesis %s ignored", path)
	}
	return nil
}

func needsState(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationState] == "true" {
			return true
		}
	}
	return false
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".oracled"
	}
	return filepath.Join(home, ".oracled")
}

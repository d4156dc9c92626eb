package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-oracle/oracle/state"
	"github.com/GPTx-global/guru-oracle/x/oracle"
	"github.com/GPTx-global/guru-oracle/x/oracle/keeper"
	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

// GetTxCmd returns the state changing commands for this module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      fmt.Sprintf("%s state changing subcommands", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		NewSetNumberOfNodesCmd(),
		NewSetNodeAddressCmd(),
		NewSetOracleResponseCmd(),
	)

	return cmd
}

// NewSetNumberOfNodesCmd implements the registry initialization command
func NewSetNumberOfNodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-number-of-nodes [n]",
		Short: "Reset the node registry to hold n node addresses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid number of nodes %q: %w", args[0], err)
			}
			return deliver(cmd, types.NewMsgSetNumberOfNodes(n))
		},
	}
}

// NewSetNodeAddressCmd implements the node registration command
func NewSetNodeAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-node-address [address]",
		Short: "Register the next node address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deliver(cmd, types.NewMsgSetNodeAddress(args[0]))
		},
	}
}

// NewSetOracleResponseCmd implements the oracle response submission command
func NewSetOracleResponseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-oracle-response [path/to/response.json]",
		Short: "Verify a signed oracle node reply and store its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := parseResponseFile(args[0])
			if err != nil {
				return err
			}
			return deliver(cmd, types.NewMsgSetOracleResponse(resp))
		},
	}
}

// deliver runs msg through the module handler on a branch of the state and
// prints the handler result.
func deliver(cmd *cobra.Command, msg types.Msg) error {
	st, err := getState(cmd)
	if err != nil {
		return err
	}

	var res *sdk.Result
	err = st.Execute(func(ctx sdk.Context, k *keeper.Keeper) error {
		handler := oracle.NewHandler(keeper.NewMsgServerImpl(*k))
		res, err = handler(ctx, msg)
		return err
	})
	if err != nil {
		return err
	}

	return printJSON(cmd, json.RawMessage(res.Data))
}

func getState(cmd *cobra.Command) (*state.State, error) {
	st, ok := state.FromContext(cmd.Context())
	if !ok {
		return nil, fmt.Errorf("oracle state is not open")
	}
	return st, nil
}

func parseResponseFile(path string) (types.OracleResponse, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return types.OracleResponse{}, err
	}
	return types.ParseOracleResponse(bz)
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

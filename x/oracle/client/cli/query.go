package cli

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-oracle/x/oracle/keeper"
	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

// GetQueryCmd returns the query commands for this module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      fmt.Sprintf("Querying commands for the %s module", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		GetCmdQueryRegistry(),
		GetCmdQueryData(),
	)

	return cmd
}

// GetCmdQueryRegistry implements the registry query command
func GetCmdQueryRegistry() *cobra.Command {
	return &cobra.Command{
		Use:   "registry",
		Short: "Show the node registry and its quorum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getState(cmd)
			if err != nil {
				return err
			}

			var res *keeper.QueryRegistryResponse
			err = st.Query(func(ctx sdk.Context, k *keeper.Keeper) error {
				res, err = k.Registry(sdk.WrapSDKContext(ctx))
				return err
			})
			if err != nil {
				return err
			}

			return printJSON(cmd, res)
		},
	}
}

// GetCmdQueryData implements the stored data query command
func GetCmdQueryData() *cobra.Command {
	return &cobra.Command{
		Use:   "data [uri] [jsp] [post]",
		Short: "Show the value stored for uri, json pointer and optional post body",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getState(cmd)
			if err != nil {
				return err
			}

			req := &keeper.QueryDataRequest{URI: args[0], Jsp: args[1]}
			if len(args) == 3 {
				req.Post = args[2]
			}

			var res *keeper.QueryDataResponse
			err = st.Query(func(ctx sdk.Context, k *keeper.Keeper) error {
				res, err = k.Data(sdk.WrapSDKContext(ctx), req)
				return err
			})
			if err != nil {
				return err
			}

			return printJSON(cmd, res)
		},
	}
}

// GetCmdCombine prints the canonical string nodes sign for a reply
func GetCmdCombine() *cobra.Command {
	return &cobra.Command{
		Use:   "combine [path/to/response.json]",
		Short: "Print the canonical string signed by the nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := parseResponseFile(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(types.Combine(resp.OracleRequest)))
			return err
		},
	}
}

// GetCmdDigest prints the keccak256 digest nodes sign for a reply
func GetCmdDigest() *cobra.Command {
	return &cobra.Command{
		Use:   "digest [path/to/response.json]",
		Short: "Print the digest signed by the nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := parseResponseFile(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), types.Digest(resp.OracleRequest).Hex())
			return err
		},
	}
}

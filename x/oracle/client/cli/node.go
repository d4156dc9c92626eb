package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-oracle/oracle/fetcher"
	"github.com/GPTx-global/guru-oracle/oracle/signer"
	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

const (
	flagKey   = "key"
	flagSlot  = "slot"
	flagNodes = "nodes"

	flagCid  = "cid"
	flagJsp  = "jsp"
	flagTrim = "trim"
	flagPost = "post"

	envNodeKey = "ORACLE_NODE_KEY"
)

// GetCmdSign signs a reply as the node at --slot and prints the updated reply
func GetCmdSign() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign [path/to/response.json]",
		Short: "Sign a reply with a node key and place the signature in the node's slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := parseResponseFile(args[0])
			if err != nil {
				return err
			}

			if err := signInto(cmd, &resp); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(resp.MarshalNodeJSON()))
			return err
		},
	}

	addSignFlags(cmd)
	return cmd
}

// GetCmdFetch performs a node data request and prints the node reply
func GetCmdFetch() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [uri]",
		Short: "Fetch uri, extract the json pointers and print the node reply",
		Long: `Fetch uri, extract every --jsp json pointer from the JSON reply and trim each
value by the matching --trim count. With --post the body is sent as a POST request
and trims are not used. With --key the reply is signed into --slot.`,
		Example: "oracled fetch https://www.binance.com/api/v3/time --cid 1 --jsp /serverTime --trim 4",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cid, _ := cmd.Flags().GetUint64(flagCid)
			jsps, _ := cmd.Flags().GetStringSlice(flagJsp)
			trims, _ := cmd.Flags().GetUintSlice(flagTrim)
			post, _ := cmd.Flags().GetString(flagPost)

			req := types.OracleRequest{
				Cid:  cid,
				URI:  args[0],
				Jsps: jsps,
				Post: post,
			}
			if post == "" {
				req.Trims = make([]uint64, len(jsps))
				for i := range req.Trims {
					if i < len(trims) {
						req.Trims[i] = uint64(trims[i])
					}
				}
			}

			fetched, err := fetcher.New(nil, nil).Fetch(cmd.Context(), req)
			if err != nil {
				return err
			}

			resp := types.OracleResponse{OracleRequest: fetched}
			if keyHex, _ := cmd.Flags().GetString(flagKey); keyHex != "" || os.Getenv(envNodeKey) != "" {
				if err := signInto(cmd, &resp); err != nil {
					return err
				}
			} else {
				nodes, _ := cmd.Flags().GetInt(flagNodes)
				resp.Sigs = make([]*types.Signature, nodes)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(resp.MarshalNodeJSON()))
			return err
		},
	}

	cmd.Flags().Uint64(flagCid, 0, "chain id placed in the reply")
	cmd.Flags().StringSlice(flagJsp, nil, "json pointer of a value to extract (repeatable)")
	cmd.Flags().UintSlice(flagTrim, nil, "characters to drop from the end of each value, in --jsp order")
	cmd.Flags().String(flagPost, "", "request body; switches the request to POST")
	addSignFlags(cmd)
	return cmd
}

func addSignFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagKey, "", fmt.Sprintf("hex encoded secp256k1 private key (default $%s)", envNodeKey))
	cmd.Flags().Int(flagSlot, 0, "registry index of the signing node")
	cmd.Flags().Int(flagNodes, 0, "number of signature slots in the reply")
}

// signInto signs resp with the node key and stores the signature at --slot,
// growing the slot array to --nodes.
func signInto(cmd *cobra.Command, resp *types.OracleResponse) error {
	keyHex, _ := cmd.Flags().GetString(flagKey)
	if keyHex == "" {
		keyHex = os.Getenv(envNodeKey)
	}
	s, err := signer.FromHex(keyHex)
	if err != nil {
		return err
	}

	slot, _ := cmd.Flags().GetInt(flagSlot)
	nodes, _ := cmd.Flags().GetInt(flagNodes)
	if nodes < len(resp.Sigs) {
		nodes = len(resp.Sigs)
	}
	if slot < 0 || slot >= nodes {
		return fmt.Errorf("slot %d out of range for %d nodes", slot, nodes)
	}
	for len(resp.Sigs) < nodes {
		resp.Sigs = append(resp.Sigs, nil)
	}

	sig, err := s.Sign(resp.OracleRequest)
	if err != nil {
		return err
	}
	resp.Sigs[slot] = sig
	return nil
}

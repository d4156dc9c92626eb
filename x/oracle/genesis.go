package oracle

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/GPTx-global/guru-oracle/x/oracle/keeper"
	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

// InitGenesis new oracle genesis
func InitGenesis(ctx sdk.Context, k keeper.Keeper, data types.GenesisState) {
	if err := data.Validate(); err != nil {
		panic(errorsmod.Wrapf(err, "error validating genesis"))
	}

	// Set node registry
	if data.NumberOfNodes > 0 {
		if err := k.SetNumberOfNodes(ctx, data.NumberOfNodes); err != nil {
			panic(errorsmod.Wrapf(err, "error setting number of nodes"))
		}
	}

	for _, addr := range data.NodeAddresses {
		if _, err := k.SetNodeAddress(ctx, common.HexToAddress(addr)); err != nil {
			panic(errorsmod.Wrapf(err, "error setting node address %s", addr))
		}
	}

	// Set stored oracle data
	for _, d := range data.Data {
		key, err := types.ParseDataKeyHex(d.Key)
		if err != nil {
			panic(errorsmod.Wrapf(err, "error parsing data key"))
		}
		k.SetData(ctx, key, d.Value)
	}
}

// ExportGenesis returns a GenesisState for a given context and keeper.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) types.GenesisState {
	addrs := []string{}
	for _, addr := range k.GetNodeAddresses(ctx) {
		addrs = append(addrs, addr.Hex())
	}

	data := []types.OracleData{}
	k.IterateData(ctx, func(key common.Hash, value string) bool {
		data = append(data, types.OracleData{Key: key.Hex(), Value: value})
		return false
	})

	return types.NewGenesisState(k.GetNumberOfNodes(ctx), addrs, data)
}

package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

// QueryRegistryResponse describes the node registry.
type QueryRegistryResponse struct {
	NumberOfNodes      uint64   `json:"number_of_nodes"`
	CountOfTrustNumber uint64   `json:"count_of_trust_number"`
	NodeAddresses      []string `json:"node_addresses"`
}

// QueryDataRequest identifies a stored value by the fields it was derived from.
type QueryDataRequest struct {
	URI  string `json:"uri"`
	Jsp  string `json:"jsp"`
	Post string `json:"post"`
}

// QueryDataResponse carries the stored value; Found is false when nothing was
// stored for the key.
type QueryDataResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Found bool   `json:"found"`
}

// Registry queries the node registry
func (k Keeper) Registry(c context.Context) (*QueryRegistryResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	addrs := k.GetNodeAddresses(ctx)
	hexAddrs := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		hexAddrs = append(hexAddrs, addr.Hex())
	}

	return &QueryRegistryResponse{
		NumberOfNodes:      k.GetNumberOfNodes(ctx),
		CountOfTrustNumber: k.GetCountOfTrustNumber(ctx),
		NodeAddresses:      hexAddrs,
	}, nil
}

// Data queries a stored oracle value
func (k Keeper) Data(c context.Context, req *QueryDataRequest) (*QueryDataResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}
	ctx := sdk.UnwrapSDKContext(c)

	key := types.DataKey(req.URI, req.Jsp, req.Post)
	value, found := k.GetData(ctx, key)

	return &QueryDataResponse{
		Key:   key.Hex(),
		Value: value,
		Found: found,
	}, nil
}

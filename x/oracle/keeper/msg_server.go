package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the oracle MsgServer interface
// for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// SetNumberOfNodes resets the node registry capacity
func (m msgServer) SetNumberOfNodes(c context.Context, msg *types.MsgSetNumberOfNodes) (*types.MsgSetNumberOfNodesResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	if err := m.Keeper.SetNumberOfNodes(ctx, msg.NumberOfNodes); err != nil {
		return nil, err
	}

	return &types.MsgSetNumberOfNodesResponse{
		CountOfTrustNumber: m.GetCountOfTrustNumber(ctx),
	}, nil
}

// SetNodeAddress registers the next node address
func (m msgServer) SetNodeAddress(c context.Context, msg *types.MsgSetNodeAddress) (*types.MsgSetNodeAddressResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	index, err := m.Keeper.SetNodeAddress(ctx, common.HexToAddress(msg.Address))
	if err != nil {
		return nil, err
	}

	return &types.MsgSetNodeAddressResponse{
		Index: index,
	}, nil
}

// SetOracleResponse verifies and stores a signed oracle response
func (m msgServer) SetOracleResponse(c context.Context, msg *types.MsgSetOracleResponse) (*types.MsgSetOracleResponseResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	valid, err := m.Keeper.SetOracleResponse(ctx, msg.Response)
	if err != nil {
		return nil, err
	}

	return &types.MsgSetOracleResponseResponse{
		ValidSignatures: valid,
	}, nil
}

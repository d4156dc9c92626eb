package oracle

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

// Handler processes a single oracle message.
type Handler func(ctx sdk.Context, msg types.Msg) (*sdk.Result, error)

// NewHandler creates a new handler for oracle messages
func NewHandler(msgServer types.MsgServer) Handler {
	return func(ctx sdk.Context, msg types.Msg) (*sdk.Result, error) {
		ctx = ctx.WithEventManager(sdk.NewEventManager())

		if err := msg.ValidateBasic(); err != nil {
			return nil, err
		}

		switch msg := msg.(type) {
		case *types.MsgSetNumberOfNodes:
			res, err := msgServer.SetNumberOfNodes(sdk.WrapSDKContext(ctx), msg)
			return wrapResult(ctx, res, err)

		case *types.MsgSetNodeAddress:
			res, err := msgServer.SetNodeAddress(sdk.WrapSDKContext(ctx), msg)
			return wrapResult(ctx, res, err)

		case *types.MsgSetOracleResponse:
			res, err := msgServer.SetOracleResponse(sdk.WrapSDKContext(ctx), msg)
			return wrapResult(ctx, res, err)

		default:
			err := errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
			return nil, err
		}
	}
}

func wrapResult(ctx sdk.Context, res any, err error) (*sdk.Result, error) {
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}

	return &sdk.Result{
		Data:   data,
		Events: ctx.EventManager().ABCIEvents(),
	}, nil
}

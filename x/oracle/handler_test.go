package oracle

import (
	"encoding/json"
	"testing"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"

	"github.com/GPTx-global/guru-oracle/oracle/signer"
	"github.com/GPTx-global/guru-oracle/x/oracle/keeper"
	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

type unknownMsg struct{}

func (unknownMsg) Route() string        { return types.RouterKey }
func (unknownMsg) Type() string         { return "unknown" }
func (unknownMsg) ValidateBasic() error { return nil }

func TestNewHandler(t *testing.T) {
	ctx, k := setupTest(t)
	handler := NewHandler(keeper.NewMsgServerImpl(*k))

	signers := make([]*signer.Signer, 4)
	for i := range signers {
		s, err := signer.Generate()
		require.NoError(t, err)
		signers[i] = s
	}

	req := types.OracleRequest{
		Cid:   1,
		URI:   "https://www.binance.com/api/v3/time",
		Jsps:  []string{"/serverTime"},
		Trims: []uint64{4},
		Time:  1649253252000,
		Rslts: []string{"164925325"},
	}
	sig := func(i int) *types.Signature {
		s, err := signers[i].Sign(req)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name      string
		msg       types.Msg
		expErr    error
		expData   string
		expEvents string
	}{
		{
			name:      "set number of nodes",
			msg:       types.NewMsgSetNumberOfNodes(4),
			expData:   `{"count_of_trust_number":2}`,
			expEvents: types.EventTypeSetNumberOfNodes,
		},
		{
			name:   "set number of nodes to zero",
			msg:    types.NewMsgSetNumberOfNodes(0),
			expErr: types.ErrInvalidNodeCount,
		},
		{
			name:      "register node 0",
			msg:       types.NewMsgSetNodeAddress(signers[0].Address().Hex()),
			expData:   `{"index":0}`,
			expEvents: types.EventTypeSetNodeAddress,
		},
		{
			name:   "register invalid address",
			msg:    types.NewMsgSetNodeAddress("not an address"),
			expErr: types.ErrInvalidAddress,
		},
		{
			name:      "register node 1",
			msg:       types.NewMsgSetNodeAddress(signers[1].Address().Hex()),
			expData:   `{"index":1}`,
			expEvents: types.EventTypeSetNodeAddress,
		},
		{
			name: "response below quorum",
			msg: types.NewMsgSetOracleResponse(types.OracleResponse{
				OracleRequest: req,
				Sigs:          []*types.Signature{sig(0), nil, nil, nil},
			}),
			expErr: types.ErrQuorumNotMet,
		},
		{
			name: "response with quorum",
			msg: types.NewMsgSetOracleResponse(types.OracleResponse{
				OracleRequest: req,
				Sigs:          []*types.Signature{sig(0), sig(1), nil, nil},
			}),
			expData:   `{"valid_signatures":2}`,
			expEvents: types.EventTypeSetOracleResponse,
		},
		{
			name:   "response without slots",
			msg:    types.NewMsgSetOracleResponse(types.OracleResponse{OracleRequest: req}),
			expErr: types.ErrInvalidSlots,
		},
		{
			name:   "unknown message",
			msg:    unknownMsg{},
			expErr: sdkerrors.ErrUnknownRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := handler(ctx, tt.msg)
			if tt.expErr != nil {
				require.ErrorIs(t, err, tt.expErr)
				require.Nil(t, res)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, res)
			require.JSONEq(t, tt.expData, string(res.Data))
			require.NotEmpty(t, res.Events)
			require.Equal(t, tt.expEvents, res.Events[len(res.Events)-1].Type)
		})
	}

	value, found := k.GetDataFor(ctx, req.URI, "/serverTime", "")
	require.True(t, found)
	require.Equal(t, "164925325", value)
}

func TestHandlerResultData(t *testing.T) {
	ctx, k := setupTest(t)
	handler := NewHandler(keeper.NewMsgServerImpl(*k))

	res, err := handler(ctx, types.NewMsgSetNumberOfNodes(7))
	require.NoError(t, err)

	var out types.MsgSetNumberOfNodesResponse
	require.NoError(t, json.Unmarshal(res.Data, &out))
	require.Equal(t, uint64(3), out.CountOfTrustNumber)

	// each call gets a fresh event manager
	require.Empty(t, ctx.EventManager().Events())
}

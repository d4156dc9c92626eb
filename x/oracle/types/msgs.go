package types

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
)

const (
	TypeMsgSetNumberOfNodes  = "set_number_of_nodes"
	TypeMsgSetNodeAddress    = "set_node_address"
	TypeMsgSetOracleResponse = "set_oracle_response"
)

// Msg is implemented by every oracle module message.
type Msg interface {
	Route() string
	Type() string
	ValidateBasic() error
}

var (
	_ Msg = &MsgSetNumberOfNodes{}
	_ Msg = &MsgSetNodeAddress{}
	_ Msg = &MsgSetOracleResponse{}
)

// MsgServer handles the oracle module messages.
type MsgServer interface {
	SetNumberOfNodes(context.Context, *MsgSetNumberOfNodes) (*MsgSetNumberOfNodesResponse, error)
	SetNodeAddress(context.Context, *MsgSetNodeAddress) (*MsgSetNodeAddressResponse, error)
	SetOracleResponse(context.Context, *MsgSetOracleResponse) (*MsgSetOracleResponseResponse, error)
}

// MsgSetNumberOfNodes (re)initializes the node registry.
type MsgSetNumberOfNodes struct {
	NumberOfNodes uint64 `json:"number_of_nodes"`
}

type MsgSetNumberOfNodesResponse struct {
	CountOfTrustNumber uint64 `json:"count_of_trust_number"`
}

// NewMsgSetNumberOfNodes creates a new MsgSetNumberOfNodes instance
func NewMsgSetNumberOfNodes(n uint64) *MsgSetNumberOfNodes {
	return &MsgSetNumberOfNodes{NumberOfNodes: n}
}

func (msg MsgSetNumberOfNodes) Route() string { return RouterKey }
func (msg MsgSetNumberOfNodes) Type() string  { return TypeMsgSetNumberOfNodes }

// ValidateBasic checks the node count
func (msg MsgSetNumberOfNodes) ValidateBasic() error {
	if msg.NumberOfNodes == 0 {
		return errorsmod.Wrap(ErrInvalidNodeCount, "number of nodes must be at least 1")
	}
	return nil
}

// MsgSetNodeAddress appends a node address to the registry.
type MsgSetNodeAddress struct {
	Address string `json:"address"`
}

type MsgSetNodeAddressResponse struct {
	Index uint64 `json:"index"`
}

// NewMsgSetNodeAddress creates a new MsgSetNodeAddress instance
func NewMsgSetNodeAddress(address string) *MsgSetNodeAddress {
	return &MsgSetNodeAddress{Address: address}
}

func (msg MsgSetNodeAddress) Route() string { return RouterKey }
func (msg MsgSetNodeAddress) Type() string  { return TypeMsgSetNodeAddress }

// ValidateBasic checks the address format
func (msg MsgSetNodeAddress) ValidateBasic() error {
	if !common.IsHexAddress(msg.Address) {
		return errorsmod.Wrapf(ErrInvalidAddress, "%q", msg.Address)
	}
	return nil
}

// MsgSetOracleResponse submits a signed oracle response.
type MsgSetOracleResponse struct {
	Response OracleResponse `json:"response"`
}

type MsgSetOracleResponseResponse struct {
	ValidSignatures uint64 `json:"valid_signatures"`
}

// NewMsgSetOracleResponse creates a new MsgSetOracleResponse instance
func NewMsgSetOracleResponse(resp OracleResponse) *MsgSetOracleResponse {
	return &MsgSetOracleResponse{Response: resp}
}

func (msg MsgSetOracleResponse) Route() string { return RouterKey }
func (msg MsgSetOracleResponse) Type() string  { return TypeMsgSetOracleResponse }

// ValidateBasic checks the request shape; signatures are checked by the keeper
func (msg MsgSetOracleResponse) ValidateBasic() error {
	if len(msg.Response.Sigs) == 0 {
		return errorsmod.Wrap(ErrInvalidSlots, "no signature slots")
	}
	return msg.Response.Validate()
}

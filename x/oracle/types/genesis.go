package types

import (
	"encoding/hex"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
)

// GenesisState holds the node registry and the stored oracle data.
type GenesisState struct {
	NumberOfNodes uint64       `json:"number_of_nodes"`
	NodeAddresses []string     `json:"node_addresses"`
	Data          []OracleData `json:"data"`
}

// OracleData is a single stored value keyed by its DataKey hash.
type OracleData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewGenesisState creates a new genesis state.
func NewGenesisState(numberOfNodes uint64, nodeAddresses []string, data []OracleData) GenesisState {
	return GenesisState{
		NumberOfNodes: numberOfNodes,
		NodeAddresses: nodeAddresses,
		Data:          data,
	}
}

// DefaultGenesisState returns a default genesis state with an empty registry
// and an empty store.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		NumberOfNodes: 0,
		NodeAddresses: []string{},
		Data:          []OracleData{},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if uint64(len(gs.NodeAddresses)) > gs.NumberOfNodes {
		return errorsmod.Wrapf(ErrInvalidGenesis, "%d node addresses for %d nodes", len(gs.NodeAddresses), gs.NumberOfNodes)
	}

	for i, addr := range gs.NodeAddresses {
		if !common.IsHexAddress(addr) {
			return errorsmod.Wrapf(ErrInvalidAddress, "node_addresses[%d]: %q", i, addr)
		}
	}

	seen := make(map[common.Hash]struct{}, len(gs.Data))
	for i, d := range gs.Data {
		key, err := ParseDataKeyHex(d.Key)
		if err != nil {
			return errorsmod.Wrapf(ErrInvalidGenesis, "data[%d]: %s", i, err)
		}
		if _, ok := seen[key]; ok {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate data key %s", d.Key)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// ParseDataKeyHex parses a 0x prefixed 32 byte data key.
func ParseDataKeyHex(s string) (common.Hash, error) {
	if !strings.HasPrefix(s, "0x") || len(s) != 2+2*common.HashLength {
		return common.Hash{}, errorsmod.Wrapf(ErrInvalidRequest, "invalid data key %q", s)
	}
	bz, err := hex.DecodeString(s[2:])
	if err != nil {
		return common.Hash{}, errorsmod.Wrapf(ErrInvalidRequest, "invalid data key %q", s)
	}
	return common.BytesToHash(bz), nil
}

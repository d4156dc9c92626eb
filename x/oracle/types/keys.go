package types

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// ModuleName defines the module name
	ModuleName = "oracle"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// KV Store key prefix bytes
const (
	prefixNumberOfNodes = iota + 1
	prefixRegisteredNodes
	prefixNodeAddress
	prefixOracleData
)

// KV Store key prefixes
var (
	KeyNumberOfNodes   = []byte{prefixNumberOfNodes}
	KeyRegisteredNodes = []byte{prefixRegisteredNodes}
	KeyNodeAddress     = []byte{prefixNodeAddress}
	KeyOracleData      = []byte{prefixOracleData}
)

func IDToBytes(id uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, id)
	return bz
}

// GetNodeAddressKey returns the key for the node address registered at index
func GetNodeAddressKey(index uint64) []byte {
	key := make([]byte, 0, len(KeyNodeAddress)+8)
	key = append(key, KeyNodeAddress...)
	return append(key, IDToBytes(index)...)
}

// DataKey derives the lookup key of a single extracted value. It depends only
// on the uri, the json pointer and the post body, so later responses for the
// same field overwrite earlier ones.
func DataKey(uri, jsp, post string) common.Hash {
	return crypto.Keccak256Hash([]byte(uri + jsp + post))
}

// GetOracleDataKey returns the key for storing oracle data
func GetOracleDataKey(key common.Hash) []byte {
	bz := make([]byte, 0, len(KeyOracleData)+common.HashLength)
	bz = append(bz, KeyOracleData...)
	return append(bz, key.Bytes()...)
}

// ParseOracleDataKey parses the oracle data key and returns the data hash
func ParseOracleDataKey(key []byte) (common.Hash, error) {
	if len(key) != 1+common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid oracle data key length: %d", len(key))
	}
	if key[0] != prefixOracleData {
		return common.Hash{}, fmt.Errorf("invalid oracle data key prefix: %x", key[0])
	}
	return common.BytesToHash(key[1:]), nil
}

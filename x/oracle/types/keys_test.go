package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestCountOfTrustNumber(t *testing.T) {
	testCases := []struct {
		n        uint64
		expected uint64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{5, 2},
		{7, 3},
		{10, 4},
		{16, 6},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, CountOfTrustNumber(tc.n), "n = %d", tc.n)
	}
}

func TestDataKey(t *testing.T) {
	key := DataKey("https://www.helloworld.com", "/greetings", "/say_greetings")
	require.Equal(t, crypto.Keccak256Hash([]byte("https://www.helloworld.com/greetings/say_greetings")), key)

	require.NotEqual(t, key, DataKey("https://www.helloworld.com", "/greetings", ""))
}

func TestOracleDataKey(t *testing.T) {
	key := DataKey("u", "/a", "")

	storeKey := GetOracleDataKey(key)
	require.Len(t, storeKey, 33)
	require.Equal(t, KeyOracleData[0], storeKey[0])

	parsed, err := ParseOracleDataKey(storeKey)
	require.NoError(t, err)
	require.Equal(t, key, parsed)

	_, err = ParseOracleDataKey(storeKey[:10])
	require.Error(t, err)

	_, err = ParseOracleDataKey(append([]byte{prefixNodeAddress}, key.Bytes()...))
	require.Error(t, err)
}

func TestGetNodeAddressKey(t *testing.T) {
	require.Equal(t, []byte{prefixNodeAddress, 0, 0, 0, 0, 0, 0, 0, 3}, GetNodeAddressKey(3))
}

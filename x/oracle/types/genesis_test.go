package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenesisStateValidate(t *testing.T) {
	key := DataKey("https://www.binance.com/api/v3/time", "/serverTime", "").Hex()

	testCases := []struct {
		name     string
		genState GenesisState
		expPass  bool
	}{
		{
			"default",
			*DefaultGenesisState(),
			true,
		},
		{
			"valid genesis",
			NewGenesisState(4,
				[]string{"0x2a3D7e1B9C5f2E4b6A8C0d1E3F5a7B9c1D3e5F7a", "0x1111111111111111111111111111111111111111"},
				[]OracleData{{Key: key, Value: "164925325"}},
			),
			true,
		},
		{
			"too many addresses",
			NewGenesisState(1,
				[]string{"0x1111111111111111111111111111111111111111", "0x2222222222222222222222222222222222222222"},
				nil,
			),
			false,
		},
		{
			"invalid address",
			NewGenesisState(2, []string{"guru1abc"}, nil),
			false,
		},
		{
			"invalid data key",
			NewGenesisState(0, nil, []OracleData{{Key: "0x1234", Value: "v"}}),
			false,
		},
		{
			"data key without prefix",
			NewGenesisState(0, nil, []OracleData{{Key: key[2:] + "00", Value: "v"}}),
			false,
		},
		{
			"duplicate data key",
			NewGenesisState(0, nil, []OracleData{{Key: key, Value: "a"}, {Key: key, Value: "b"}}),
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.genState.Validate()
			if tc.expPass {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestParseDataKeyHex(t *testing.T) {
	key := DataKey("u", "/a", "")

	parsed, err := ParseDataKeyHex(key.Hex())
	require.NoError(t, err)
	require.Equal(t, key, parsed)

	_, err = ParseDataKeyHex("0x" + strings.Repeat("zz", 32))
	require.ErrorIs(t, err, ErrInvalidRequest)
}

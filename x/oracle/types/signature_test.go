package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSignatureSlot(t *testing.T) {
	// all-zero sentinel is the absent slot
	require.Nil(t, NewSignatureSlot(0, [32]byte{}, [32]byte{}))

	r := common.HexToHash("0xb937ec95b75c0645719bbfbe302e7d35024a5f44162dc9d12a91f04ffc062b5e")
	s := common.HexToHash("0x5cbdfd134194d0f9df2ac9ac8b5ac2e431cbeb9a12610e78134a11e18341a761")

	sig := NewSignatureSlot(27, r, s)
	require.NotNil(t, sig)
	assert.Equal(t, uint8(27), sig.V)
	assert.Equal(t, [32]byte(r), sig.R)
	assert.Equal(t, [32]byte(s), sig.S)

	// v = 0 with non-zero r/s is a real but invalid signature, not an absent slot
	invalid := NewSignatureSlot(0, r, s)
	require.NotNil(t, invalid)
	_, err := invalid.Bytes()
	require.ErrorIs(t, err, ErrMalformedSignature)
}

func TestParseSignatureSlot(t *testing.T) {
	sig, err := ParseSignatureSlot("1:f8e1585c9c10e8121ba813015a44528089d421774ac35cee0f73b0f2b2ae26:38bcb22007487fb5dbe90434ccdbee88aa82281353e497f9d09b636a6997eecb")
	require.NoError(t, err)
	assert.Equal(t, uint8(28), sig.V)
	assert.Equal(t, [32]byte(common.HexToHash("0x00f8e1585c9c10e8121ba813015a44528089d421774ac35cee0f73b0f2b2ae26")), sig.R)
	assert.Equal(t, [32]byte(common.HexToHash("0x38bcb22007487fb5dbe90434ccdbee88aa82281353e497f9d09b636a6997eecb")), sig.S)

	sig, err = ParseSignatureSlot("0:0xb937ec95b75c0645719bbfbe302e7d35024a5f44162dc9d12a91f04ffc062b5e:0x5cbdfd134194d0f9df2ac9ac8b5ac2e431cbeb9a12610e78134a11e18341a761")
	require.NoError(t, err)
	assert.Equal(t, uint8(27), sig.V)

	parsed, err := ParseSignatureSlot(sig.String())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	// the 27/28 form is accepted as well
	sig, err = ParseSignatureSlot("28:ab:cd")
	require.NoError(t, err)
	assert.Equal(t, uint8(28), sig.V)

	// all-zero r and s is the absent slot
	for _, absent := range []string{"0:0:0", "1:00:0x00", "27:0000000000000000000000000000000000000000000000000000000000000000:00"} {
		sig, err := ParseSignatureSlot(absent)
		require.NoError(t, err, absent)
		assert.Nil(t, sig, absent)
	}

	for _, bad := range []string{
		"",
		"26:ab:cd",
		"29:ab:cd",
		"1:ab",
		"2:ab:cd",
		"x:ab:cd",
		"0:zz:cd",
		"0::cd",
		"0:00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00:cd",
	} {
		_, err := ParseSignatureSlot(bad)
		assert.ErrorIs(t, err, ErrMalformedSignature, bad)
	}
}

func TestSignatureFromBytes(t *testing.T) {
	_, err := SignatureFromBytes(make([]byte, 64))
	require.ErrorIs(t, err, ErrMalformedSignature)

	raw := make([]byte, 65)
	raw[64] = 2
	_, err = SignatureFromBytes(raw)
	require.ErrorIs(t, err, ErrMalformedSignature)

	raw[0], raw[32], raw[64] = 0xaa, 0xbb, 1
	sig, err := SignatureFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, uint8(28), sig.V)
	assert.Equal(t, byte(0xaa), sig.R[0])
	assert.Equal(t, byte(0xbb), sig.S[0])

	bz, err := sig.Bytes()
	require.NoError(t, err)
	assert.Equal(t, raw, bz)
}

func TestEthRecoverer(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	digest := crypto.Keccak256Hash([]byte("payload"))
	raw, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)
	sig, err := SignatureFromBytes(raw)
	require.NoError(t, err)

	recovered, err := EthRecoverer{}.Recover(digest, *sig)
	require.NoError(t, err)
	assert.Equal(t, addr, recovered)

	// another digest recovers to some other address
	other, err := EthRecoverer{}.Recover(crypto.Keccak256Hash([]byte("other")), *sig)
	if err == nil {
		assert.NotEqual(t, addr, other)
	}

	// r = 0 is out of range
	zeroR := *sig
	zeroR.R = [32]byte{}
	_, err = EthRecoverer{}.Recover(digest, zeroR)
	assert.ErrorIs(t, err, ErrMalformedSignature)

	badV := *sig
	badV.V = 29
	_, err = EthRecoverer{}.Recover(digest, badV)
	assert.ErrorIs(t, err, ErrMalformedSignature)
}

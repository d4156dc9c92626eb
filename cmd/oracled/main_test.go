package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/GPTx-global/guru-oracle/oracle/signer"
	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

const unsignedReply = `{"cid":1,"uri":"https://www.binance.com/api/v3/time","jsps":["/serverTime"],"trims":[4],"time":1649253252000,"rslts":["164925325"],"sigs":[null,null,null,null]}`

func run(t *testing.T, home string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"--home", home}, args...))
	require.NoError(t, cmd.Execute(), strings.Join(args, " "))
	return out.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCombineAndDigest(t *testing.T) {
	home := t.TempDir()
	path := writeFile(t, home, "reply.json", unsignedReply)

	out := run(t, home, "combine", path)
	require.Equal(t, `{"cid":1,"uri":"https://www.binance.com/api/v3/time","jsps":["/serverTime"],"trims":[4],"time":1649253252000,"rslts":["164925325"],`+"\n", out)

	out = run(t, home, "digest", path)
	expected := crypto.Keccak256Hash([]byte(`{"cid":1,"uri":"https://www.binance.com/api/v3/time","jsps":["/serverTime"],"trims":[4],"time":1649253252000,"rslts":["164925325"],`))
	require.Equal(t, expected.Hex()+"\n", out)
}

func TestSubmitSignedReply(t *testing.T) {
	home := t.TempDir()

	keys := make([]string, 4)
	addrs := make([]string, 4)
	for i := range keys {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i] = "0x" + hex.EncodeToString(crypto.FromECDSA(key))
		addrs[i] = signer.New(key).Address().Hex()
	}

	out := run(t, home, "tx", "set-number-of-nodes", "4")
	require.JSONEq(t, `{"count_of_trust_number":2}`, out)
	for i, addr := range addrs {
		out = run(t, home, "tx", "set-node-address", addr)
		var res struct {
			Index uint64 `json:"index"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Equal(t, uint64(i), res.Index)
	}

	reply := writeFile(t, home, "reply.json", unsignedReply)

	// one signature is not enough
	signed := run(t, home, "sign", reply, "--key", keys[0], "--slot", "0")
	oneSig := writeFile(t, home, "one.json", signed)

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--home", home, "tx", "set-oracle-response", oneSig})
	require.ErrorContains(t, cmd.Execute(), "Verification is failed")

	signed = run(t, home, "sign", oneSig, "--key", keys[3], "--slot", "3")
	twoSigs := writeFile(t, home, "two.json", signed)

	out = run(t, home, "tx", "set-oracle-response", twoSigs)
	require.JSONEq(t, `{"valid_signatures":2}`, out)

	out = run(t, home, "query", "data", "https://www.binance.com/api/v3/time", "/serverTime")
	var data struct {
		Value string `json:"value"`
		Found bool   `json:"found"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	require.True(t, data.Found)
	require.Equal(t, "164925325", data.Value)

	out = run(t, home, "q", "registry")
	var registry struct {
		NumberOfNodes uint64   `json:"number_of_nodes"`
		NodeAddresses []string `json:"node_addresses"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &registry))
	require.Equal(t, uint64(4), registry.NumberOfNodes)
	require.Equal(t, addrs, registry.NodeAddresses)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"serverTime":1649253252000}`))
	}))
	defer srv.Close()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	home := t.TempDir()
	out := run(t, home, "fetch", srv.URL, "--cid", "1", "--jsp", "/serverTime", "--trim", "4",
		"--key", hex.EncodeToString(crypto.FromECDSA(key)), "--slot", "2", "--nodes", "4")

	resp, err := types.ParseOracleResponse([]byte(out))
	require.NoError(t, err)
	require.Equal(t, []string{"164925325"}, resp.Rslts)
	require.Equal(t, uint64(1), resp.Cid)
	require.Len(t, resp.Sigs, 4)
	require.NotNil(t, resp.Sigs[2])

	addr, err := types.EthRecoverer{}.Recover(types.Digest(resp.OracleRequest), *resp.Sigs[2])
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), addr)
}

func TestGenesisImportExport(t *testing.T) {
	home := t.TempDir()

	addrs := make([]string, 2)
	for i := range addrs {
		s, err := signer.Generate()
		require.NoError(t, err)
		addrs[i] = s.Address().Hex()
	}
	key := types.DataKey("https://www.binance.com/api/v3/time", "/serverTime", "")
	gs := types.NewGenesisState(4, addrs, []types.OracleData{{Key: key.Hex(), Value: "164925325"}})
	bz, err := json.Marshal(gs)
	require.NoError(t, err)
	genesis := writeFile(t, home, "genesis.json", string(bz))

	out := run(t, home, "--genesis", genesis, "query", "registry")
	var registry struct {
		NumberOfNodes      uint64   `json:"number_of_nodes"`
		CountOfTrustNumber uint64   `json:"count_of_trust_number"`
		NodeAddresses      []string `json:"node_addresses"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &registry))
	require.Equal(t, uint64(4), registry.NumberOfNodes)
	require.Equal(t, uint64(2), registry.CountOfTrustNumber)
	require.Equal(t, addrs, registry.NodeAddresses)

	out = run(t, home, "query", "data", "https://www.binance.com/api/v3/time", "/serverTime")
	require.Contains(t, out, `"164925325"`)

	out = run(t, home, "export")
	var exported types.GenesisState
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Equal(t, gs, exported)

	// a second import does not touch the initialized store
	other := writeFile(t, home, "other.json", `{"number_of_nodes":1,"node_addresses":[],"data":[]}`)
	run(t, home, "--genesis", other, "export")
	out = run(t, home, "export")
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Equal(t, gs, exported)
}

func TestGenesisImportInvalid(t *testing.T) {
	home := t.TempDir()
	genesis := writeFile(t, home, "genesis.json", `{"number_of_nodes":1,"node_addresses":["0x1"],"data":[]}`)

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--home", home, "--genesis", genesis, "export"})
	require.ErrorIs(t, cmd.Execute(), types.ErrInvalidAddress)

	// the store lock was released
	out := run(t, home, "export")
	require.Contains(t, out, `"number_of_nodes": 0`)
}

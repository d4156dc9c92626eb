package types

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Combine builds the string every node signs:
//
//	{"cid":1,"uri":"...","jsps":[...],"trims":[...],"time":1,"rslts":[...],
//
// "trims" is replaced by "post" when the request has a post body. The output
// keeps the trailing comma because it is the prefix of the full node reply,
// which continues with the "sigs" field.
func Combine(r OracleRequest) []byte {
	b := make([]byte, 0, 128)

	b = append(b, `{"cid":`...)
	b = strconv.AppendUint(b, r.Cid, 10)
	b = append(b, `,"uri":`...)
	b = appendQuoted(b, r.URI)
	b = append(b, `,"jsps":`...)
	b = appendQuotedArray(b, r.Jsps)

	if r.IsPost() {
		b = append(b, `,"post":`...)
		b = appendQuoted(b, r.Post)
	} else {
		b = append(b, `,"trims":[`...)
		for i, trim := range r.Trims {
			if i > 0 {
				b = append(b, ',')
			}
			b = strconv.AppendUint(b, trim, 10)
		}
		b = append(b, ']')
	}

	b = append(b, `,"time":`...)
	b = strconv.AppendUint(b, r.Time, 10)
	b = append(b, `,"rslts":`...)
	b = appendQuotedArray(b, r.Rslts)

	return append(b, ',')
}

// Digest is the keccak256 hash of the canonical encoding.
func Digest(r OracleRequest) common.Hash {
	return crypto.Keccak256Hash(Combine(r))
}

func appendQuotedArray(b []byte, values []string) []byte {
	b = append(b, '[')
	for i, v := range values {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendQuoted(b, v)
	}
	return append(b, ']')
}

// appendQuoted writes s as a JSON string. HTML escaping stays off so that
// urls with query strings are emitted verbatim.
func appendQuoted(b []byte, s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// encoding a string never fails
	_ = enc.Encode(s)
	return append(b, bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})...)
}

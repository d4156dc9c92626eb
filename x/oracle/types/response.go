package types

import (
	"fmt"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/tidwall/gjson"
)

// ParseOracleResponse decodes the JSON reply of an oracle node:
//
//	{"cid":1,"uri":"...","jsps":[...],"trims":[...],"time":1,"rslts":[...],"sigs":["1:r:s",null]}
//
// A null entry in sigs is an absent slot.
func ParseOracleResponse(bz []byte) (OracleResponse, error) {
	if !gjson.ValidBytes(bz) {
		return OracleResponse{}, errorsmod.Wrap(ErrInvalidResponse, "malformed json")
	}

	root := gjson.ParseBytes(bz)
	if !root.IsObject() {
		return OracleResponse{}, errorsmod.Wrap(ErrInvalidResponse, "reply is not an object")
	}
	for _, field := range []string{"cid", "uri", "jsps", "time", "rslts"} {
		if !root.Get(field).Exists() {
			return OracleResponse{}, errorsmod.Wrapf(ErrInvalidResponse, "missing field %q", field)
		}
	}

	var (
		resp OracleResponse
		err  error
	)
	if resp.Cid, err = uintField(root.Get("cid")); err != nil {
		return OracleResponse{}, errorsmod.Wrapf(ErrInvalidResponse, "cid: %s", err)
	}
	if resp.Time, err = uintField(root.Get("time")); err != nil {
		return OracleResponse{}, errorsmod.Wrapf(ErrInvalidResponse, "time: %s", err)
	}
	if resp.URI, err = stringField(root.Get("uri")); err != nil {
		return OracleResponse{}, errorsmod.Wrapf(ErrInvalidResponse, "uri: %s", err)
	}
	if post := root.Get("post"); post.Exists() {
		if resp.Post, err = stringField(post); err != nil {
			return OracleResponse{}, errorsmod.Wrapf(ErrInvalidResponse, "post: %s", err)
		}
	}
	if resp.Jsps, err = stringArray(root.Get("jsps")); err != nil {
		return OracleResponse{}, errorsmod.Wrapf(ErrInvalidResponse, "jsps: %s", err)
	}
	if resp.Rslts, err = stringArray(root.Get("rslts")); err != nil {
		return OracleResponse{}, errorsmod.Wrapf(ErrInvalidResponse, "rslts: %s", err)
	}

	if trims := root.Get("trims"); trims.Exists() {
		if !trims.IsArray() {
			return OracleResponse{}, errorsmod.Wrap(ErrInvalidResponse, "trims: not an array")
		}
		resp.Trims = make([]uint64, 0, len(trims.Array()))
		for i, t := range trims.Array() {
			n, err := uintField(t)
			if err != nil {
				return OracleResponse{}, errorsmod.Wrapf(ErrInvalidResponse, "trims[%d]: %s", i, err)
			}
			resp.Trims = append(resp.Trims, n)
		}
	}

	sigs := root.Get("sigs")
	if sigs.Exists() && !sigs.IsArray() {
		return OracleResponse{}, errorsmod.Wrap(ErrInvalidResponse, "sigs: not an array")
	}
	resp.Sigs = make([]*Signature, len(sigs.Array()))
	for i, s := range sigs.Array() {
		switch s.Type {
		case gjson.Null:
			continue
		case gjson.String:
		default:
			return OracleResponse{}, errorsmod.Wrapf(ErrInvalidResponse, "sigs[%d]: not a string", i)
		}
		sig, err := ParseSignatureSlot(s.Str)
		if err != nil {
			return OracleResponse{}, errorsmod.Wrapf(ErrInvalidResponse, "sigs[%d]: %s", i, err)
		}
		resp.Sigs[i] = sig
	}

	return resp, nil
}

// MarshalNodeJSON encodes the response in the node reply format read by
// ParseOracleResponse.
func (r OracleResponse) MarshalNodeJSON() []byte {
	b := Combine(r.OracleRequest)
	b = append(b, `"sigs":[`...)
	for i, sig := range r.Sigs {
		if i > 0 {
			b = append(b, ',')
		}
		if sig == nil {
			b = append(b, "null"...)
			continue
		}
		b = appendQuoted(b, sig.String())
	}
	return append(b, "]}"...)
}

func stringArray(res gjson.Result) ([]string, error) {
	if !res.IsArray() {
		return nil, fmt.Errorf("not an array")
	}

	arr := res.Array()
	out := make([]string, 0, len(arr))
	for i, v := range arr {
		s, err := stringField(v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func stringField(res gjson.Result) (string, error) {
	if res.Type != gjson.String {
		return "", fmt.Errorf("not a string")
	}
	return res.Str, nil
}

// uintField reads a non-negative integer. Clients also send numbers as
// decimal strings, e.g. "cid":"1".
func uintField(res gjson.Result) (uint64, error) {
	var raw string
	switch res.Type {
	case gjson.Number:
		raw = res.Raw
	case gjson.String:
		raw = res.Str
	default:
		return 0, fmt.Errorf("not a number")
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a non-negative integer: %s", raw)
	}
	return n, nil
}

package types

import (
	"unicode/utf8"

	errorsmod "cosmossdk.io/errors"
)

// OracleRequest is the request/response tuple the nodes agree on and sign.
type OracleRequest struct {
	Cid   uint64   `json:"cid"`
	URI   string   `json:"uri"`
	Jsps  []string `json:"jsps"`
	Trims []uint64 `json:"trims,omitempty"`
	Post  string   `json:"post,omitempty"`
	Time  uint64   `json:"time"`
	Rslts []string `json:"rslts"`
}

// OracleResponse is an OracleRequest together with one signature slot per
// registered node. A nil slot means the node did not sign.
type OracleResponse struct {
	OracleRequest
	Sigs []*Signature `json:"-"`
}

// IsPost reports whether the request carried a post body. Trims are not part
// of the signed encoding for post requests.
func (r OracleRequest) IsPost() bool {
	return r.Post != ""
}

// Validate performs basic validation on OracleRequest
func (r OracleRequest) Validate() error {
	if len(r.Jsps) != len(r.Rslts) {
		return errorsmod.Wrapf(ErrInvalidRequest, "jsps and rslts length mismatch: %d != %d", len(r.Jsps), len(r.Rslts))
	}
	if !r.IsPost() && len(r.Trims) != len(r.Jsps) {
		return errorsmod.Wrapf(ErrInvalidRequest, "jsps and trims length mismatch: %d != %d", len(r.Jsps), len(r.Trims))
	}

	// the canonical encoding maps every invalid byte to U+FFFD
	if !utf8.ValidString(r.URI) {
		return errorsmod.Wrap(ErrInvalidRequest, "uri is not valid utf-8")
	}
	if !utf8.ValidString(r.Post) {
		return errorsmod.Wrap(ErrInvalidRequest, "post is not valid utf-8")
	}
	for i := range r.Jsps {
		if !utf8.ValidString(r.Jsps[i]) {
			return errorsmod.Wrapf(ErrInvalidRequest, "jsps[%d] is not valid utf-8", i)
		}
		if !utf8.ValidString(r.Rslts[i]) {
			return errorsmod.Wrapf(ErrInvalidRequest, "rslts[%d] is not valid utf-8", i)
		}
	}
	return nil
}

// AbsentSlots returns the number of slots without a signature.
func (r OracleResponse) AbsentSlots() int {
	n := 0
	for _, sig := range r.Sigs {
		if sig == nil {
			n++
		}
	}
	return n
}

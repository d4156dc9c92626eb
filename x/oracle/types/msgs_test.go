package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MsgsTestSuite struct {
	suite.Suite
}

func TestMsgsTestSuite(t *testing.T) {
	suite.Run(t, new(MsgsTestSuite))
}

func (suite *MsgsTestSuite) TestMsgSetNumberOfNodes() {
	msg := NewMsgSetNumberOfNodes(4)
	suite.Require().Equal(RouterKey, msg.Route())
	suite.Require().Equal(TypeMsgSetNumberOfNodes, msg.Type())
	suite.Require().NoError(msg.ValidateBasic())

	suite.Require().ErrorIs(NewMsgSetNumberOfNodes(0).ValidateBasic(), ErrInvalidNodeCount)
}

func (suite *MsgsTestSuite) TestMsgSetNodeAddress() {
	testCases := []struct {
		msg     string
		address string
		expPass bool
	}{
		{"valid", "0x1111111111111111111111111111111111111111", true},
		{"valid without prefix", "1111111111111111111111111111111111111111", true},
		{"empty", "", false},
		{"bech32", "guru1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq", false},
		{"short", "0x1111", false},
	}

	for i, tc := range testCases {
		msg := NewMsgSetNodeAddress(tc.address)
		suite.Require().Equal(TypeMsgSetNodeAddress, msg.Type())
		err := msg.ValidateBasic()
		if tc.expPass {
			suite.Require().NoError(err, "valid test %d failed: %s", i, tc.msg)
		} else {
			suite.Require().ErrorIs(err, ErrInvalidAddress, "invalid test %d passed: %s", i, tc.msg)
		}
	}
}

func (suite *MsgsTestSuite) TestMsgSetOracleResponse() {
	req := OracleRequest{
		Cid:   1,
		URI:   "https://www.binance.com/api/v3/time",
		Jsps:  []string{"/serverTime"},
		Trims: []uint64{4},
		Time:  1649253252000,
		Rslts: []string{"164925325"},
	}

	msg := NewMsgSetOracleResponse(OracleResponse{OracleRequest: req, Sigs: make([]*Signature, 4)})
	suite.Require().Equal(TypeMsgSetOracleResponse, msg.Type())
	suite.Require().NoError(msg.ValidateBasic())

	noSlots := NewMsgSetOracleResponse(OracleResponse{OracleRequest: req})
	suite.Require().ErrorIs(noSlots.ValidateBasic(), ErrInvalidSlots)

	bad := req
	bad.Rslts = nil
	mismatch := NewMsgSetOracleResponse(OracleResponse{OracleRequest: bad, Sigs: make([]*Signature, 4)})
	suite.Require().ErrorIs(mismatch.ValidateBasic(), ErrInvalidRequest)
}

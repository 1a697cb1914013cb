package types

import (
	"time"

	"github.com/tendermint/light-verifier/libs/protoio"
)

// Canonical* messages are the deterministic forms of the structs in types
// that validators sign. Each message below is written field by
// field with protoio, following tendermint/types/canonical.proto.

// CanonicalVote field numbers.
const (
	canonicalVoteType      = 1
	canonicalVoteHeight    = 2
	canonicalVoteRound     = 3
	canonicalVoteBlockID   = 4
	canonicalVoteTimestamp = 5
	canonicalVoteChainID   = 6
)

// canonicalBlockIDBytes encodes CanonicalBlockID. A zero BlockID has no
// canonical form and yields nil.
func canonicalBlockIDBytes(bid BlockID) []byte {
	if bid.IsZero() {
		return nil
	}
	var w protoio.Writer
	w.Bytes(1, bid.Hash)
	w.Message(2, bid.PartSetHeader.Bytes())
	return w.Finish()
}

// timestampBytes encodes google.protobuf.Timestamp. Unlike the stdtime
// marshaler it does not reject years outside 1-9999; validators sign
// whatever their clock said.
func timestampBytes(t time.Time) []byte {
	var w protoio.Writer
	w.Varint(1, t.Unix())
	w.Varint(2, int64(t.Nanosecond()))
	return w.Finish()
}

// canonicalVoteBytes encodes the CanonicalVote for vote, delimited by its
// length.
func canonicalVoteBytes(chainID string, vote *Vote) []byte {
	var w protoio.Writer
	w.Uvarint(canonicalVoteType, uint64(vote.Type))
	w.SFixed64(canonicalVoteHeight, vote.Height)
	w.SFixed64(canonicalVoteRound, int64(vote.Round))
	if bid := canonicalBlockIDBytes(vote.BlockID); bid != nil {
		w.Message(canonicalVoteBlockID, bid)
	}
	w.Message(canonicalVoteTimestamp, timestampBytes(vote.Timestamp))
	w.String(canonicalVoteChainID, chainID)
	return protoio.MarshalDelimited(w.Finish())
}

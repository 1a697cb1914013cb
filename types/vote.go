package types

import (
	"fmt"
	"time"

	"github.com/tendermint/light-verifier/crypto"
	tmbytes "github.com/tendermint/light-verifier/libs/bytes"
)

// SignedMsgType is a type of signed message in the consensus.
type SignedMsgType int32

const (
	UnknownType SignedMsgType = 0
	// Votes
	PrevoteType   SignedMsgType = 1
	PrecommitType SignedMsgType = 2
)

// Vote represents a prevote, precommit, or commit vote from validators for
// consensus. The light verifier only rebuilds precommits out of commits.
type Vote struct {
	Type             SignedMsgType  `json:"type"`
	Height           int64          `json:"height,string"`
	Round            int32          `json:"round"`    // assume there will not be greater than 2_147_483_647 rounds
	BlockID          BlockID        `json:"block_id"` // zero if vote is nil.
	Timestamp        time.Time      `json:"timestamp"`
	ValidatorAddress crypto.Address `json:"validator_address"`
	ValidatorIndex   int32          `json:"validator_index"`
	Signature        []byte         `json:"signature"`
}

// VoteSignBytes returns the proto-encoding of the canonicalized Vote, for
// signing. The encoding is length-prefixed, matching what validators sign.
//
// See CanonicalizeVote
func VoteSignBytes(chainID string, vote *Vote) []byte {
	return canonicalVoteBytes(chainID, vote)
}

// Verify checks the signature of the vote against pubKey. It returns an error
// if the signer's address does not match the key or the signature is invalid.
func (vote *Vote) Verify(chainID string, pubKey crypto.PubKey) error {
	if !pubKey.Address().Equal(vote.ValidatorAddress) {
		return fmt.Errorf("invalid validator address: %v", vote.ValidatorAddress)
	}
	if !pubKey.VerifySignature(VoteSignBytes(chainID, vote), vote.Signature) {
		return ErrSignatureVerification{Index: int(vote.ValidatorIndex), Signature: vote.Signature}
	}
	return nil
}

// CommitSig converts the Vote to a CommitSig. A vote for anything but a
// complete BlockID is recorded as a vote for nil.
func (vote *Vote) CommitSig() CommitSig {
	if vote == nil {
		return NewCommitSigAbsent()
	}

	blockIDFlag := BlockIDFlagNil
	if vote.BlockID.IsComplete() {
		blockIDFlag = BlockIDFlagCommit
	}

	return CommitSig{
		BlockIDFlag:      blockIDFlag,
		ValidatorAddress: vote.ValidatorAddress,
		Timestamp:        vote.Timestamp,
		Signature:        vote.Signature,
	}
}

// String returns a string representation of Vote.
//
// 1. validator index
// 2. first 6 bytes of validator address
// 3. height
// 4. round,
// 5. type byte
// 6. type string
// 7. first 6 bytes of block hash
// 8. first 6 bytes of signature
// 9. timestamp
func (vote *Vote) String() string {
	if vote == nil {
		return "nil-Vote"
	}
	var typeString string
	switch vote.Type {
	case PrevoteType:
		typeString = "Prevote"
	case PrecommitType:
		typeString = "Precommit"
	default:
		typeString = "Unknown"
	}

	return fmt.Sprintf("Vote{%v:%X %v/%02d/%v(%v) %X %X @ %s}",
		vote.ValidatorIndex,
		tmbytes.Fingerprint(vote.ValidatorAddress),
		vote.Height,
		vote.Round,
		vote.Type,
		typeString,
		tmbytes.Fingerprint(vote.BlockID.Hash),
		tmbytes.Fingerprint(vote.Signature),
		vote.Timestamp.Format(time.RFC3339Nano),
	)
}

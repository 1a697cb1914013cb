package types

import (
	"errors"
	"fmt"

	"github.com/tendermint/light-verifier/crypto"
)

// ErrNilValidatorSet is returned when a commit is checked against a nil
// validator set.
var ErrNilValidatorSet = errors.New("nil validator set")

// ErrNilCommit is returned when a nil commit is checked.
var ErrNilCommit = errors.New("nil commit")

// ErrInvalidCommitHeight is returned when we encounter a commit with an
// unexpected height.
type ErrInvalidCommitHeight struct {
	Expected int64
	Actual   int64
}

func NewErrInvalidCommitHeight(expected, actual int64) ErrInvalidCommitHeight {
	return ErrInvalidCommitHeight{
		Expected: expected,
		Actual:   actual,
	}
}

func (e ErrInvalidCommitHeight) Error() string {
	return fmt.Sprintf("Invalid commit -- wrong height: %v vs %v", e.Expected, e.Actual)
}

// ErrInvalidCommitSignatures is returned when we encounter a commit where
// the number of signatures doesn't match the number of validators.
type ErrInvalidCommitSignatures struct {
	Expected int
	Actual   int
}

func NewErrInvalidCommitSignatures(expected, actual int) ErrInvalidCommitSignatures {
	return ErrInvalidCommitSignatures{
		Expected: expected,
		Actual:   actual,
	}
}

func (e ErrInvalidCommitSignatures) Error() string {
	return fmt.Sprintf("Invalid commit -- wrong set size: %v vs %v", e.Expected, e.Actual)
}

// ErrInvalidCommitBlockID is returned when a commit is for a different block
// than the one it is checked against.
type ErrInvalidCommitBlockID struct {
	Expected BlockID
	Actual   BlockID
}

func (e ErrInvalidCommitBlockID) Error() string {
	return fmt.Sprintf("invalid commit -- wrong block ID: want %v, got %v", e.Expected, e.Actual)
}

// ErrInvalidIndexInValidatorSet is returned when a signature has no validator
// at the same position of the set.
type ErrInvalidIndexInValidatorSet struct {
	Index int
	Size  int
}

func (e ErrInvalidIndexInValidatorSet) Error() string {
	return fmt.Sprintf("no validator at index %d in a set of %d", e.Index, e.Size)
}

// ErrNegativeVotingPower is returned when a validator set's total voting
// power is below zero.
type ErrNegativeVotingPower struct {
	Total int64
}

func (e ErrNegativeVotingPower) Error() string {
	return fmt.Sprintf("negative total voting power: %d", e.Total)
}

// ErrDoubleVote is returned when one validator signed a commit more than once.
type ErrDoubleVote struct {
	Address     crypto.Address
	FirstIndex  int
	SecondIndex int
}

func (e ErrDoubleVote) Error() string {
	return fmt.Sprintf("double vote from %v (%d and %d)", e.Address, e.FirstIndex, e.SecondIndex)
}

// IsErrNotEnoughVotingPowerSigned returns true if err is
// ErrNotEnoughVotingPowerSigned.
func IsErrNotEnoughVotingPowerSigned(err error) bool {
	return errors.As(err, &ErrNotEnoughVotingPowerSigned{})
}

// ErrNotEnoughVotingPowerSigned is returned when not enough validators signed
// a commit.
type ErrNotEnoughVotingPowerSigned struct {
	Got    int64
	Needed int64
}

func (e ErrNotEnoughVotingPowerSigned) Error() string {
	return fmt.Sprintf("invalid commit -- insufficient voting power: got %d, needed more than %d", e.Got, e.Needed)
}

// UnknownSignatureIndex is the Index of an ErrSignatureVerification raised by
// a batch that failed without pointing at an entry.
const UnknownSignatureIndex = -1

// ErrSignatureVerification is returned when the signature at Index does not
// verify.
type ErrSignatureVerification struct {
	Index     int
	Signature []byte
}

func (e ErrSignatureVerification) Error() string {
	if e.Index == UnknownSignatureIndex {
		return "wrong signature: batch failed without naming an invalid entry"
	}
	return fmt.Sprintf("wrong signature (#%d): %X", e.Index, e.Signature)
}

// ErrBatchVerification is returned when a signature could not be added to a
// batch verifier.
type ErrBatchVerification struct {
	Index  int
	Reason error
}

func (e ErrBatchVerification) Error() string {
	return fmt.Sprintf("adding signature #%d to batch: %v", e.Index, e.Reason)
}

func (e ErrBatchVerification) Unwrap() error {
	return e.Reason
}

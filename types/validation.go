package types

import (
	"fmt"

	"github.com/tendermint/light-verifier/crypto"
	"github.com/tendermint/light-verifier/crypto/batch"
	tmmath "github.com/tendermint/light-verifier/libs/math"
)

// twoThirds is the share of voting power a commit needs from its own
// validator set.
var twoThirds = tmmath.Fraction{Numerator: 2, Denominator: 3}

// DefaultSignatureVerifier is used when a nil verifier is passed in.
var DefaultSignatureVerifier crypto.SignatureVerifier = batch.Verifier{}

// LIGHT CLIENT VERIFICATION METHODS

// VerifyCommitLight verifies +2/3 of the set had signed the given commit.
//
// This method is primarily used by the light client and does not check all the
// signatures: it stops as soon as more than 2/3 of the voting power has been
// verified. Validators are matched to signatures by index.
func VerifyCommitLight(
	chainID string,
	vals *ValidatorSet,
	blockID BlockID,
	height int64,
	commit *Commit,
	verifier crypto.SignatureVerifier,
) error {
	// run a basic validation of the arguments
	if err := verifyBasicValsAndCommit(vals, commit, height, blockID); err != nil {
		return err
	}

	// calculate voting power needed
	votingPowerNeeded, err := votingPowerNeeded(vals, twoThirds)
	if err != nil {
		return err
	}

	// ignore all commit signatures that are not for the block
	ignore := func(c CommitSig) bool { return c.BlockIDFlag != BlockIDFlagCommit }

	// count all the remaining signatures
	count := func(_ CommitSig) bool { return true }

	return verifyCommit(chainID, vals, commit, votingPowerNeeded,
		ignore, count, false, true, verifier)
}

// VerifyCommitLightTrusting verifies that trustLevel of the validator set signed
// this commit.
//
// NOTE the given validators do not necessarily correspond to the validator set
// for this commit, but there may be some intersection.
//
// Validators are matched to signatures by address. Every signature for the
// block is checked, so a validator signing twice is always detected.
func VerifyCommitLightTrusting(
	chainID string,
	vals *ValidatorSet,
	commit *Commit,
	trustLevel tmmath.Fraction,
	verifier crypto.SignatureVerifier,
) error {
	// sanity checks
	if vals == nil {
		return ErrNilValidatorSet
	}
	if commit == nil {
		return ErrNilCommit
	}
	if trustLevel.Denominator == 0 {
		return fmt.Errorf("trustLevel has zero Denominator: %w", tmmath.ErrDivideByZero)
	}

	// safely calculate voting power needed.
	votingPowerNeeded, err := votingPowerNeeded(vals, trustLevel)
	if err != nil {
		return err
	}

	// ignore all commit signatures that are not for the block
	ignore := func(c CommitSig) bool { return c.BlockIDFlag != BlockIDFlagCommit }

	// count all the remaining signatures
	count := func(_ CommitSig) bool { return true }

	return verifyCommit(chainID, vals, commit, votingPowerNeeded,
		ignore, count, true, false, verifier)
}

// votingPowerNeeded returns floor(total * fraction). A negative total is
// rejected rather than taken at its absolute value.
func votingPowerNeeded(vals *ValidatorSet, fraction tmmath.Fraction) (int64, error) {
	total := vals.TotalVotingPower()
	if total < 0 {
		return 0, ErrNegativeVotingPower{Total: total}
	}
	needed, err := fraction.MulInt64Floor(total)
	if err != nil {
		return 0, fmt.Errorf("calculating voting power needed (%v of %d): %w", fraction, total, err)
	}
	return needed, nil
}

func verifyBasicValsAndCommit(vals *ValidatorSet, commit *Commit, height int64, blockID BlockID) error {
	if vals == nil {
		return ErrNilValidatorSet
	}

	if commit == nil {
		return ErrNilCommit
	}

	if vals.Size() != len(commit.Signatures) {
		return NewErrInvalidCommitSignatures(vals.Size(), len(commit.Signatures))
	}

	// Validate Height and BlockID.
	if height != commit.Height {
		return NewErrInvalidCommitHeight(height, commit.Height)
	}
	if !blockID.Equals(commit.BlockID) {
		return ErrInvalidCommitBlockID{Expected: blockID, Actual: commit.BlockID}
	}

	return nil
}

// verifyCommit picks batch verification when the verifier supports it and
// deems the commit large enough, and single verification otherwise.
func verifyCommit(
	chainID string,
	vals *ValidatorSet,
	commit *Commit,
	votingPowerNeeded int64,
	ignoreSig func(CommitSig) bool,
	countSig func(CommitSig) bool,
	countAllSignatures bool,
	lookUpByIndex bool,
	verifier crypto.SignatureVerifier,
) error {
	if verifier == nil {
		verifier = DefaultSignatureVerifier
	}

	if bsv, ok := verifier.(crypto.BatchSignatureVerifier); ok && bsv.ShouldBatchVerify(len(commit.Signatures)) {
		return verifyCommitBatch(chainID, vals, commit, votingPowerNeeded,
			ignoreSig, countSig, countAllSignatures, lookUpByIndex, bsv.NewBatchVerifier())
	}

	return verifyCommitSingle(chainID, vals, commit, votingPowerNeeded,
		ignoreSig, countSig, countAllSignatures, lookUpByIndex, verifier)
}

// signer resolves the validator behind the signature at idx. A nil validator
// with a nil error means the signer is not part of vals and the signature is
// skipped.
func signer(
	vals *ValidatorSet,
	commitSig CommitSig,
	idx int,
	lookUpByIndex bool,
	seenVals map[int32]int,
) (*Validator, error) {
	if lookUpByIndex {
		// The vals and commit have a 1-to-1 correspondance.
		// This means we don't need the validator address or to do any lookup.
		if idx >= len(vals.Validators) || vals.Validators[idx] == nil {
			return nil, ErrInvalidIndexInValidatorSet{Index: idx, Size: vals.Size()}
		}
		return vals.Validators[idx], nil
	}

	// We don't know the validators that committed this block, so we have to
	// check for each vote if its validator is already known.
	valIdx, val := vals.GetByAddress(commitSig.ValidatorAddress)
	if val == nil {
		return nil, nil
	}

	// check for double vote of validator on the same commit
	if firstIndex, ok := seenVals[valIdx]; ok {
		return nil, ErrDoubleVote{Address: val.Address, FirstIndex: firstIndex, SecondIndex: idx}
	}
	seenVals[valIdx] = idx

	return val, nil
}

// Batch verification

// verifyCommitBatch batch verifies commits. It adds every signature that
// matters to the batch before checking the tallied voting power, and only
// then verifies the batch. It returns the first invalid signature if the
// batch fails.
func verifyCommitBatch(
	chainID string,
	vals *ValidatorSet,
	commit *Commit,
	votingPowerNeeded int64,
	ignoreSig func(CommitSig) bool,
	countSig func(CommitSig) bool,
	countAllSignatures bool,
	lookUpByIndex bool,
	bv crypto.BatchVerifier,
) error {
	var (
		seenVals                 = make(map[int32]int, len(commit.Signatures))
		batchSigIdxs             = make([]int, 0, len(commit.Signatures))
		talliedVotingPower int64 = 0
	)

	for idx, commitSig := range commit.Signatures {
		// skip over signatures that should be ignored
		if ignoreSig(commitSig) {
			continue
		}

		val, err := signer(vals, commitSig, idx, lookUpByIndex, seenVals)
		if err != nil {
			return err
		}
		if val == nil {
			continue
		}

		// Validate signature.
		voteSignBytes := commit.VoteSignBytes(chainID, int32(idx))

		// add the key, sig and message to the verifier
		if err := bv.Add(val.PubKey, voteSignBytes, commitSig.Signature); err != nil {
			return ErrBatchVerification{Index: idx, Reason: err}
		}
		batchSigIdxs = append(batchSigIdxs, idx)

		// If this signature counts then add the voting power of the validator
		// to the tally
		if countSig(commitSig) {
			talliedVotingPower = tmmath.SafeAddClipInt64(talliedVotingPower, val.VotingPower)
		}

		// if we don't need to verify all signatures and already have sufficient
		// voting power we can break from batching and verify all the signatures
		if !countAllSignatures && talliedVotingPower > votingPowerNeeded {
			break
		}
	}

	// ensure that we have batched together enough signatures to exceed the
	// voting power needed else there is no need to even verify
	if got, needed := talliedVotingPower, votingPowerNeeded; got <= needed {
		return ErrNotEnoughVotingPowerSigned{Got: got, Needed: needed}
	}

	// attempt to verify the batch.
	ok, validSigs := bv.Verify()
	if ok {
		// success
		return nil
	}

	// one or more of the signatures is invalid, find and return the first
	// invalid signature.
	for i, ok := range validSigs {
		if !ok && i < len(batchSigIdxs) {
			idx := batchSigIdxs[i]
			return ErrSignatureVerification{Index: idx, Signature: commit.Signatures[idx].Signature}
		}
	}

	// the batch verifier reported a failure without naming an invalid entry.
	return ErrSignatureVerification{Index: UnknownSignatureIndex}
}

// Single Verification

// verifyCommitSingle single verifies commits.
// If a key does not support batch verification, or the commit is too small to
// be worth batching, this will be used.
// It fails fast on the first invalid signature and, unless
// countAllSignatures is set, succeeds as soon as the tallied voting power
// exceeds votingPowerNeeded.
func verifyCommitSingle(
	chainID string,
	vals *ValidatorSet,
	commit *Commit,
	votingPowerNeeded int64,
	ignoreSig func(CommitSig) bool,
	countSig func(CommitSig) bool,
	countAllSignatures bool,
	lookUpByIndex bool,
	verifier crypto.SignatureVerifier,
) error {
	var (
		seenVals                 = make(map[int32]int, len(commit.Signatures))
		talliedVotingPower int64 = 0
	)

	for idx, commitSig := range commit.Signatures {
		if ignoreSig(commitSig) {
			continue
		}

		val, err := signer(vals, commitSig, idx, lookUpByIndex, seenVals)
		if err != nil {
			return err
		}
		if val == nil {
			continue
		}

		// Validate signature.
		voteSignBytes := commit.VoteSignBytes(chainID, int32(idx))
		if val.PubKey == nil || !verifier.VerifySignature(val.PubKey, voteSignBytes, commitSig.Signature) {
			return ErrSignatureVerification{Index: idx, Signature: commitSig.Signature}
		}

		// If this signature counts then add the voting power of the validator
		// to the tally
		if countSig(commitSig) {
			talliedVotingPower = tmmath.SafeAddClipInt64(talliedVotingPower, val.VotingPower)
		}

		// check if we have enough signatures and can thus exit early
		if !countAllSignatures && talliedVotingPower > votingPowerNeeded {
			return nil
		}
	}

	if got, needed := talliedVotingPower, votingPowerNeeded; got <= needed {
		return ErrNotEnoughVotingPowerSigned{Got: got, Needed: needed}
	}

	return nil
}

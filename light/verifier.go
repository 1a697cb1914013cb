package light

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/tendermint/light-verifier/crypto"
	tmmath "github.com/tendermint/light-verifier/libs/math"
	"github.com/tendermint/light-verifier/types"
	tmtime "github.com/tendermint/light-verifier/types/time"
)

var (
	// DefaultTrustLevel - new header can be trusted if at least one correct
	// validator signed it.
	DefaultTrustLevel = tmmath.Fraction{Numerator: 1, Denominator: 3}
)

// VerifyNonAdjacent verifies non-adjacent untrustedHeader against
// trustedHeader. It ensures that:
//
//	a) trustedHeader can still be trusted (if not, ErrOldHeaderExpired is returned)
//	b) untrustedHeader is valid (if not, ErrInvalidHeader is returned)
//	c) trustLevel ([1/3, 1]) of trustedHeaderVals (or trustedHeaderNextVals)
//	   signed correctly (if not, ErrNewValSetCantBeTrusted is returned)
//	d) more than 2/3 of untrustedVals have signed h2
//	   (otherwise, ErrInvalidHeader is returned)
//	e) headers are non-adjacent.
//
// maxClockDrift defines how much untrustedHeader.Time can drift into the
// future. A nil verifier means types.DefaultSignatureVerifier.
func VerifyNonAdjacent(
	trustedHeader *types.SignedHeader, // height=X
	trustedVals *types.ValidatorSet, // height=X or height=X+1
	untrustedHeader *types.SignedHeader, // height=Y
	untrustedVals *types.ValidatorSet, // height=Y
	trustingPeriod tmtime.Duration,
	now time.Time,
	maxClockDrift tmtime.Duration,
	trustLevel tmmath.Fraction,
	verifier crypto.SignatureVerifier) error {

	if err := checkInputs(trustedHeader, untrustedHeader); err != nil {
		return err
	}
	adjacent, err := isAdjacent(trustedHeader, untrustedHeader)
	if err != nil {
		return err
	}
	if adjacent {
		return ErrHeadersMustBeNonAdjacent
	}

	if err := checkTrustedHeaderNotExpired(trustedHeader, trustingPeriod, now); err != nil {
		return err
	}

	if err := verifyNewHeaderAndVals(
		untrustedHeader, untrustedVals,
		trustedHeader,
		now, maxClockDrift); err != nil {
		return ErrInvalidHeader{err}
	}

	// Ensure that +`trustLevel` (default 1/3) or more of last trusted validators signed correctly.
	err = types.VerifyCommitLightTrusting(trustedHeader.ChainID, trustedVals, untrustedHeader.Commit,
		trustLevel, verifier)
	if err != nil {
		var e types.ErrNotEnoughVotingPowerSigned
		if errors.As(err, &e) {
			return ErrNewValSetCantBeTrusted{e}
		}
		return err
	}

	// Ensure that +2/3 of new validators signed correctly.
	//
	// NOTE: this should always be the last check because untrustedVals can be
	// intentionally made very large to DOS the light client. not the case for
	// VerifyAdjacent, where validator set is known in advance.
	if err := types.VerifyCommitLight(trustedHeader.ChainID, untrustedVals, untrustedHeader.Commit.BlockID,
		untrustedHeader.Height, untrustedHeader.Commit, verifier); err != nil {
		return ErrInvalidHeader{err}
	}

	return nil
}

// VerifyAdjacent verifies directly adjacent untrustedHeader against
// trustedHeader. It ensures that:
//
//	a) trustedHeader can still be trusted (if not, ErrOldHeaderExpired is returned)
//	b) untrustedHeader is valid (if not, ErrInvalidHeader is returned)
//	c) untrustedHeader.ValidatorsHash equals trustedHeader.NextValidatorsHash
//	d) more than 2/3 of new validators (untrustedVals) have signed h2
//	   (otherwise, ErrInvalidHeader is returned)
//	e) headers are adjacent.
//
// maxClockDrift defines how much untrustedHeader.Time can drift into the
// future. A nil verifier means types.DefaultSignatureVerifier.
func VerifyAdjacent(
	trustedHeader *types.SignedHeader, // height=X
	untrustedHeader *types.SignedHeader, // height=X+1
	untrustedVals *types.ValidatorSet, // height=X+1
	trustingPeriod tmtime.Duration,
	now time.Time,
	maxClockDrift tmtime.Duration,
	verifier crypto.SignatureVerifier) error {

	if err := checkInputs(trustedHeader, untrustedHeader); err != nil {
		return err
	}
	adjacent, err := isAdjacent(trustedHeader, untrustedHeader)
	if err != nil {
		return err
	}
	if !adjacent {
		return ErrHeadersMustBeAdjacent
	}

	if err := checkTrustedHeaderNotExpired(trustedHeader, trustingPeriod, now); err != nil {
		return err
	}

	if err := verifyNewHeaderAndVals(
		untrustedHeader, untrustedVals,
		trustedHeader,
		now, maxClockDrift); err != nil {
		return ErrInvalidHeader{err}
	}

	// Check the validator hashes are the same
	if !bytes.Equal(untrustedHeader.ValidatorsHash, trustedHeader.NextValidatorsHash) {
		return ErrNextValidatorsHashMismatch{
			Expected: trustedHeader.NextValidatorsHash,
			Actual:   untrustedHeader.ValidatorsHash,
		}
	}

	// Ensure that +2/3 of new validators signed correctly.
	if err := types.VerifyCommitLight(trustedHeader.ChainID, untrustedVals, untrustedHeader.Commit.BlockID,
		untrustedHeader.Height, untrustedHeader.Commit, verifier); err != nil {
		return ErrInvalidHeader{err}
	}

	return nil
}

// Verify combines both VerifyAdjacent and VerifyNonAdjacent functions.
func Verify(
	trustedHeader *types.SignedHeader, // height=X
	trustedVals *types.ValidatorSet, // height=X or height=X+1
	untrustedHeader *types.SignedHeader, // height=Y
	untrustedVals *types.ValidatorSet, // height=Y
	trustingPeriod tmtime.Duration,
	now time.Time,
	maxClockDrift tmtime.Duration,
	trustLevel tmmath.Fraction,
	verifier crypto.SignatureVerifier) error {

	if err := checkInputs(trustedHeader, untrustedHeader); err != nil {
		return err
	}
	adjacent, err := isAdjacent(trustedHeader, untrustedHeader)
	if err != nil {
		return err
	}

	if !adjacent {
		return VerifyNonAdjacent(trustedHeader, trustedVals, untrustedHeader, untrustedVals,
			trustingPeriod, now, maxClockDrift, trustLevel, verifier)
	}

	return VerifyAdjacent(trustedHeader, untrustedHeader, untrustedVals, trustingPeriod, now, maxClockDrift, verifier)
}

// checkInputs rejects headers the verification steps cannot even look at.
func checkInputs(trustedHeader, untrustedHeader *types.SignedHeader) error {
	if trustedHeader == nil || trustedHeader.Header == nil {
		return ErrInvalidHeader{ErrNilTrustedHeader}
	}
	if untrustedHeader == nil || untrustedHeader.Header == nil {
		return ErrInvalidHeader{ErrNilUntrustedHeader}
	}
	if untrustedHeader.Commit == nil {
		return ErrInvalidHeader{types.ErrNilCommit}
	}
	return nil
}

func isAdjacent(trustedHeader, untrustedHeader *types.SignedHeader) (bool, error) {
	next, err := tmmath.SafeAddInt64(trustedHeader.Height, 1)
	if err != nil {
		return false, fmt.Errorf("trusted height %d: %w", trustedHeader.Height, err)
	}
	return untrustedHeader.Height == next, nil
}

func checkTrustedHeaderNotExpired(h *types.SignedHeader, trustingPeriod tmtime.Duration, now time.Time) error {
	expired, err := HeaderExpired(h, trustingPeriod, now)
	if err != nil {
		return err
	}
	if expired {
		at, _ := tmtime.Add(h.Time, trustingPeriod)
		return ErrOldHeaderExpired{at, now}
	}
	return nil
}

func verifyNewHeaderAndVals(
	untrustedHeader *types.SignedHeader,
	untrustedVals *types.ValidatorSet,
	trustedHeader *types.SignedHeader,
	now time.Time,
	maxClockDrift tmtime.Duration) error {

	if untrustedHeader.ChainID != trustedHeader.ChainID {
		return ErrChainIDMismatch{Trusted: trustedHeader.ChainID, Untrusted: untrustedHeader.ChainID}
	}

	if untrustedHeader.Height <= trustedHeader.Height {
		return ErrUntrustedHeaderHeightIsSmaller{
			Trusted:   trustedHeader.Height,
			Untrusted: untrustedHeader.Height,
		}
	}

	if !untrustedHeader.Time.After(trustedHeader.Time) {
		return ErrUntrustedHeaderTimestampIsSmaller{
			Trusted:   trustedHeader.Time,
			Untrusted: untrustedHeader.Time,
		}
	}

	latest, err := tmtime.Add(now, maxClockDrift)
	if err != nil || !untrustedHeader.Time.Before(latest) {
		return ErrMaxClockDriftCheckFailed{
			Time:  untrustedHeader.Time,
			Now:   now,
			Drift: maxClockDrift,
		}
	}

	// Runs after the ordering checks so a header below the trusted one is
	// always reported as such, even when its height is not positive.
	if err := untrustedHeader.ValidateBasic(trustedHeader.ChainID); err != nil {
		return fmt.Errorf("untrustedHeader.ValidateBasic failed: %w", err)
	}

	if valsHash := untrustedVals.Hash(); !bytes.Equal(untrustedHeader.ValidatorsHash, valsHash) {
		return ErrUntrustedValidatorSetMismatch{
			Height:     untrustedHeader.Height,
			HeaderHash: untrustedHeader.ValidatorsHash,
			ValsHash:   valsHash,
		}
	}

	return nil
}

// ValidateTrustLevel checks that trustLevel is within the allowed range [1/3,
// 1]. If not, it returns an error. 1/3 is the minimum amount of trust needed
// which does not break the security model.
func ValidateTrustLevel(lvl tmmath.Fraction) error {
	if lvl.Denominator == 0 ||
		lvl.Numerator > lvl.Denominator || // > 1
		lvl.Numerator < ceilDiv3(lvl.Denominator) { // < 1/3
		return fmt.Errorf("trustLevel must be within [1/3, 1], given %v", lvl)
	}
	return nil
}

func ceilDiv3(x uint64) uint64 {
	if x%3 == 0 {
		return x / 3
	}
	return x/3 + 1
}

// HeaderExpired return true if the given header expired. The expiration time
// is h.Time plus trustingPeriod; an error is returned if it cannot be
// represented.
func HeaderExpired(h *types.SignedHeader, trustingPeriod tmtime.Duration, now time.Time) (bool, error) {
	expirationTime, err := tmtime.Add(h.Time, trustingPeriod)
	if err != nil {
		return false, fmt.Errorf("computing expiration time: %w", err)
	}
	return !expirationTime.After(now), nil
}

// VerifyBackwards verifies an untrusted header with a height one less than
// that of an adjacent trusted header. It ensures that:
//
//	a) untrusted header is valid
//	b) untrusted header has a time before the trusted header
//	c) that the LastBlockID hash of the trusted header is the same as the hash
//	   of the trusted header
//
// For any of these cases ErrInvalidHeader is returned.
func VerifyBackwards(untrustedHeader, trustedHeader *types.Header) error {
	if untrustedHeader == nil || trustedHeader == nil {
		return ErrInvalidHeader{errors.New("nil header")}
	}

	if err := untrustedHeader.ValidateBasic(); err != nil {
		return ErrInvalidHeader{err}
	}

	if untrustedHeader.ChainID != trustedHeader.ChainID {
		return ErrInvalidHeader{ErrChainIDMismatch{Trusted: trustedHeader.ChainID, Untrusted: untrustedHeader.ChainID}}
	}

	if !untrustedHeader.Time.Before(trustedHeader.Time) {
		return ErrInvalidHeader{
			fmt.Errorf("expected older header time %v to be before new header time %v",
				untrustedHeader.Time,
				trustedHeader.Time)}
	}

	if !bytes.Equal(untrustedHeader.Hash(), trustedHeader.LastBlockID.Hash) {
		return ErrInvalidHeader{
			fmt.Errorf("older header hash %X does not match trusted header's last block %X",
				untrustedHeader.Hash(),
				trustedHeader.LastBlockID.Hash)}
	}

	return nil
}

package light

import (
	"errors"
	"fmt"
	"time"

	tmbytes "github.com/tendermint/light-verifier/libs/bytes"
	"github.com/tendermint/light-verifier/types"
	tmtime "github.com/tendermint/light-verifier/types/time"
)

var (
	// ErrHeadersMustBeAdjacent is returned by VerifyAdjacent when the untrusted
	// header is not exactly one block above the trusted one.
	ErrHeadersMustBeAdjacent = errors.New("headers must be adjacent in height")

	// ErrHeadersMustBeNonAdjacent is returned by VerifyNonAdjacent when the
	// untrusted header is exactly one block above the trusted one.
	ErrHeadersMustBeNonAdjacent = errors.New("headers must be non adjacent in height")

	// ErrNilTrustedHeader is returned, wrapped in ErrInvalidHeader, when the
	// trusted header or its Header is missing.
	ErrNilTrustedHeader = errors.New("nil trusted header")

	// ErrNilUntrustedHeader is the untrusted side of ErrNilTrustedHeader.
	ErrNilUntrustedHeader = errors.New("nil untrusted header")
)

// ErrOldHeaderExpired means the old (trusted) header has expired according to
// the given trustingPeriod and current time. If so, the light client must be
// reset subjectively.
type ErrOldHeaderExpired struct {
	At  time.Time
	Now time.Time
}

func (e ErrOldHeaderExpired) Error() string {
	return fmt.Sprintf("old header has expired at %v (now: %v)", e.At, e.Now)
}

// ErrNewValSetCantBeTrusted means the new validator set cannot be trusted
// because < 1/3rd (+trustLevel+) of the old validator set has signed.
type ErrNewValSetCantBeTrusted struct {
	Reason types.ErrNotEnoughVotingPowerSigned
}

func (e ErrNewValSetCantBeTrusted) Error() string {
	return fmt.Sprintf("cant trust new val set: %v", e.Reason)
}

func (e ErrNewValSetCantBeTrusted) Unwrap() error {
	return e.Reason
}

// ErrInvalidHeader means the header either failed the basic validation or
// commit is not signed by 2/3+.
type ErrInvalidHeader struct {
	Reason error
}

func (e ErrInvalidHeader) Error() string {
	return fmt.Sprintf("invalid header: %v", e.Reason)
}

func (e ErrInvalidHeader) Unwrap() error {
	return e.Reason
}

// ErrChainIDMismatch means the untrusted header belongs to another chain.
type ErrChainIDMismatch struct {
	Trusted   string
	Untrusted string
}

func (e ErrChainIDMismatch) Error() string {
	return fmt.Sprintf("header belongs to another chain %q, not %q", e.Untrusted, e.Trusted)
}

// ErrUntrustedHeaderHeightIsSmaller means the untrusted header is not above
// the trusted one.
type ErrUntrustedHeaderHeightIsSmaller struct {
	Trusted   int64
	Untrusted int64
}

func (e ErrUntrustedHeaderHeightIsSmaller) Error() string {
	return fmt.Sprintf("expected new header height %d to be greater than one of old header %d",
		e.Untrusted, e.Trusted)
}

// ErrUntrustedHeaderTimestampIsSmaller means the untrusted header is not
// newer than the trusted one.
type ErrUntrustedHeaderTimestampIsSmaller struct {
	Trusted   time.Time
	Untrusted time.Time
}

func (e ErrUntrustedHeaderTimestampIsSmaller) Error() string {
	return fmt.Sprintf("expected new header time %v to be after old header time %v",
		e.Untrusted, e.Trusted)
}

// ErrMaxClockDriftCheckFailed means the untrusted header is from the future.
// It is also returned when now plus the drift cannot be represented.
type ErrMaxClockDriftCheckFailed struct {
	Time  time.Time
	Now   time.Time
	Drift tmtime.Duration
}

func (e ErrMaxClockDriftCheckFailed) Error() string {
	return fmt.Sprintf("new header has a time from the future %v (now: %v; max clock drift: %v)",
		e.Time, e.Now, e.Drift)
}

// ErrUntrustedValidatorSetMismatch means the supplied validator set does not
// hash to the untrusted header's ValidatorsHash.
type ErrUntrustedValidatorSetMismatch struct {
	Height     int64
	HeaderHash tmbytes.HexBytes
	ValsHash   tmbytes.HexBytes
}

func (e ErrUntrustedValidatorSetMismatch) Error() string {
	return fmt.Sprintf("expected new header validators (%v) to match those that were supplied (%v) at height %d",
		e.HeaderHash, e.ValsHash, e.Height)
}

// ErrNextValidatorsHashMismatch means an adjacent header is not signed by the
// validator set the trusted header announced.
type ErrNextValidatorsHashMismatch struct {
	Expected tmbytes.HexBytes
	Actual   tmbytes.HexBytes
}

func (e ErrNextValidatorsHashMismatch) Error() string {
	return fmt.Sprintf("expected old header next validators (%v) to match those from new header (%v)",
		e.Expected, e.Actual)
}

// ErrVerificationFailed means either sequential or skipping verification has
// failed to verify from header #1 to header #2 due to some reason.
type ErrVerificationFailed struct {
	From   int64
	To     int64
	Reason error
}

// Unwrap returns underlying reason.
func (e ErrVerificationFailed) Unwrap() error {
	return e.Reason
}

func (e ErrVerificationFailed) Error() string {
	return fmt.Sprintf(
		"verify from #%d to #%d failed: %v",
		e.From, e.To, e.Reason)
}

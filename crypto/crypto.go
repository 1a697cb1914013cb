package crypto

import (
	"github.com/tendermint/light-verifier/crypto/tmhash"
	"github.com/tendermint/light-verifier/libs/bytes"
)

const (
	// HashSize is the size in bytes of an AddressHash.
	HashSize = tmhash.Size

	// AddressSize is the size of a pubkey address.
	AddressSize = tmhash.TruncatedSize
)

// An address is a []byte, but hex-encoded even in JSON.
// []byte leaves us the option to change the address length.
// Use an alias so Unmarshal methods (with ptr receivers) are available too.
type Address = bytes.HexBytes

// AddressHash computes a truncated SHA-256 hash of bz for use as
// a validator address.
func AddressHash(bz []byte) Address {
	return Address(tmhash.SumTruncated(bz))
}

// Checksum returns the SHA256 of the bz.
func Checksum(bz []byte) []byte {
	return tmhash.Sum(bz)
}

type PubKey interface {
	Address() Address
	Bytes() []byte
	VerifySignature(msg []byte, sig []byte) bool
	Equals(PubKey) bool
	Type() string
}

type PrivKey interface {
	Bytes() []byte
	Sign(msg []byte) ([]byte, error)
	PubKey() PubKey
	Equals(PrivKey) bool
	Type() string
}

// SignatureVerifier checks a single signature. It is the capability the
// commit verification needs from the cryptography layer.
type SignatureVerifier interface {
	VerifySignature(key PubKey, msg, sig []byte) bool
}

// BatchSignatureVerifier is a SignatureVerifier that can also defer checks
// into a batch. ShouldBatchVerify decides, per commit, whether batching
// count signatures is worth it; NewBatchVerifier returns a fresh, empty
// batch for a single commit.
type BatchSignatureVerifier interface {
	SignatureVerifier

	ShouldBatchVerify(count int) bool
	NewBatchVerifier() BatchVerifier
}

// If a new key type implements batch verification,
// the key type must be registered in github.com/tendermint/light-verifier/crypto/batch
type BatchVerifier interface {
	// Add appends an entry into the BatchVerifier.
	Add(key PubKey, message, signature []byte) error
	// Verify verifies all the entries in the BatchVerifier, and returns
	// if every signature in the batch is valid, and a vector of bools
	// indicating the verification status of each signature (in the order
	// that signatures were added to the batch).
	Verify() (bool, []bool)
}

package batch

import (
	"errors"

	"github.com/tendermint/light-verifier/crypto"
	"github.com/tendermint/light-verifier/crypto/ed25519"
)

// batchVerifyThreshold is the smallest number of signatures for which the
// default Verifier batches.
const batchVerifyThreshold = 2

// CreateBatchVerifier checks if a key type implements the batch verifier interface.
// Currently only ed25519 supports batch verification.
func CreateBatchVerifier(pk crypto.PubKey) (crypto.BatchVerifier, bool) {
	switch pk.Type() {
	case ed25519.KeyType:
		return ed25519.NewBatchVerifier(), true
	}

	// case where the key does not support batch verification
	return nil, false
}

// SupportsBatchVerifier checks if a key type implements the batch verifier
// interface.
func SupportsBatchVerifier(pk crypto.PubKey) bool {
	switch pk.Type() {
	case ed25519.KeyType:
		return true
	}

	return false
}

// Verifier is the default crypto.BatchSignatureVerifier. Single signatures
// are checked by the key itself; batches may mix key types.
type Verifier struct{}

var _ crypto.BatchSignatureVerifier = Verifier{}

func (Verifier) VerifySignature(key crypto.PubKey, msg, sig []byte) bool {
	if key == nil {
		return false
	}
	return key.VerifySignature(msg, sig)
}

func (Verifier) ShouldBatchVerify(count int) bool {
	return count >= batchVerifyThreshold
}

func (Verifier) NewBatchVerifier() crypto.BatchVerifier {
	return &mixedBatch{batches: make(map[string]*typedBatch)}
}

type typedBatch struct {
	bv crypto.BatchVerifier
	// positions of this batch's entries within the mixed batch
	positions []int
}

type sequentialEntry struct {
	key      crypto.PubKey
	msg, sig []byte
	position int
}

// mixedBatch groups entries by key type. Types with a native batch verifier
// are verified together; the rest are verified one at a time. Results are
// reported in insertion order.
type mixedBatch struct {
	n          int
	batches    map[string]*typedBatch
	order      []string
	sequential []sequentialEntry
}

func (b *mixedBatch) Add(key crypto.PubKey, msg, sig []byte) error {
	if key == nil {
		return errors.New("nil pubkey")
	}

	keyType := key.Type()
	tb, ok := b.batches[keyType]
	if !ok {
		bv, supported := CreateBatchVerifier(key)
		if supported {
			tb = &typedBatch{bv: bv}
			b.batches[keyType] = tb
			b.order = append(b.order, keyType)
		}
	}

	if tb == nil {
		b.sequential = append(b.sequential, sequentialEntry{key: key, msg: msg, sig: sig, position: b.n})
		b.n++
		return nil
	}

	if err := tb.bv.Add(key, msg, sig); err != nil {
		return err
	}
	tb.positions = append(tb.positions, b.n)
	b.n++
	return nil
}

func (b *mixedBatch) Verify() (bool, []bool) {
	results := make([]bool, b.n)
	allOK := true

	for _, keyType := range b.order {
		tb := b.batches[keyType]
		if len(tb.positions) == 0 {
			continue
		}
		ok, valid := tb.bv.Verify()
		for i, pos := range tb.positions {
			results[pos] = ok || (i < len(valid) && valid[i])
		}
		allOK = allOK && ok
	}

	for _, e := range b.sequential {
		ok := e.key.VerifySignature(e.msg, e.sig)
		results[e.position] = ok
		allOK = allOK && ok
	}

	return allOK, results
}

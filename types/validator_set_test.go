package types

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/light-verifier/crypto"
	"github.com/tendermint/light-verifier/crypto/ed25519"
	"github.com/tendermint/light-verifier/crypto/secp256k1"
)

func TestValidatorSetBasic(t *testing.T) {
	vset := NewValidatorSet([]*Validator{})

	assert.Zero(t, vset.Size())
	assert.True(t, vset.IsNilOrEmpty())
	assert.Equal(t, int64(0), vset.TotalVotingPower())
	assert.Error(t, vset.ValidateBasic())

	// empty set hashes to the merkle root of nothing
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		hex.EncodeToString(vset.Hash()))

	val := NewValidator(ed25519.GenPrivKey().PubKey(), 10)
	vset = NewValidatorSet([]*Validator{val})

	assert.True(t, vset.HasAddress(val.Address))
	idx, got := vset.GetByAddress(val.Address)
	assert.EqualValues(t, 0, idx)
	assert.Equal(t, val, got)
	addr, got := vset.GetByIndex(0)
	assert.Equal(t, []byte(val.Address), addr)
	assert.Equal(t, val, got)
	addr, got = vset.GetByIndex(1)
	assert.Nil(t, addr)
	assert.Nil(t, got)
	idx, got = vset.GetByAddress([]byte("some val"))
	assert.EqualValues(t, -1, idx)
	assert.Nil(t, got)

	assert.Equal(t, int64(10), vset.TotalVotingPower())
	assert.NoError(t, vset.ValidateBasic())
	assert.Len(t, vset.Hash(), 32)
}

func TestValidatorSetCopiesInput(t *testing.T) {
	val := NewValidator(ed25519.GenPrivKey().PubKey(), 10)
	vset := NewValidatorSet([]*Validator{val})

	val.VotingPower = 1000
	assert.Equal(t, int64(10), vset.Validators[0].VotingPower)
	assert.Equal(t, int64(10), vset.TotalVotingPower())

	cp := vset.Copy()
	cp.Validators[0].VotingPower = 5
	assert.Equal(t, int64(10), vset.Validators[0].VotingPower)
	assert.Equal(t, vset.TotalVotingPower(), cp.TotalVotingPower())
}

func TestValidatorSetTotalVotingPower(t *testing.T) {
	pk := func() crypto.PubKey { return ed25519.GenPrivKey().PubKey() }

	vset := NewValidatorSet([]*Validator{NewValidator(pk(), 3), NewValidator(pk(), -10)})
	assert.Equal(t, int64(-7), vset.TotalVotingPower())
	assert.Error(t, vset.ValidateBasic())

	vset = NewValidatorSet([]*Validator{NewValidator(pk(), math.MaxInt64), NewValidator(pk(), 1)})
	assert.Equal(t, int64(math.MaxInt64), vset.TotalVotingPower())
	assert.Error(t, vset.ValidateBasic())
}

func TestValidatorBytes(t *testing.T) {
	edKey := ed25519.GenPrivKeyFromSecret([]byte("ed")).PubKey()
	bz, err := NewValidator(edKey, 10).Bytes()
	require.NoError(t, err)

	want := append([]byte{0x0a, 0x22, 0x0a, 0x20}, edKey.Bytes()...)
	want = append(want, 0x10, 0x0a)
	assert.Equal(t, want, bz)

	secpKey := secp256k1.GenPrivKeySecp256k1([]byte("secp")).PubKey()
	bz, err = NewValidator(secpKey, 0).Bytes()
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0x0a, 0x23, 0x12, 0x21}, secpKey.Bytes()...), bz)
}

func TestValidatorSetHash(t *testing.T) {
	privs := []crypto.PrivKey{
		ed25519.GenPrivKeyFromSecret([]byte("a")),
		ed25519.GenPrivKeyFromSecret([]byte("b")),
		secp256k1.GenPrivKeySecp256k1([]byte("c")),
	}
	vals := make([]*Validator, len(privs))
	for i, p := range privs {
		vals[i] = NewValidator(p.PubKey(), int64(i+1))
	}
	vset := NewValidatorSet(vals)

	hash := vset.Hash()
	assert.Equal(t, hash, NewValidatorSet(vals).Hash(), "hash must be deterministic")

	// order matters
	reordered := NewValidatorSet([]*Validator{vals[1], vals[0], vals[2]})
	assert.NotEqual(t, hash, reordered.Hash())

	// voting power matters
	changed := vset.Copy()
	changed.Validators[2].VotingPower = 100
	assert.NotEqual(t, hash, changed.Hash())

	// proposer priority does not
	changed = vset.Copy()
	changed.Validators[0].ProposerPriority = 100
	assert.Equal(t, hash, changed.Hash())

	// a validator that cannot be encoded leaves the set without a hash
	broken := vset.Copy()
	broken.Validators[1].PubKey = nil
	assert.Nil(t, broken.Hash())
}

func TestValidatorValidateBasic(t *testing.T) {
	priv := ed25519.GenPrivKey()
	pubKey := priv.PubKey()
	testCases := []struct {
		val *Validator
		err bool
		msg string
	}{
		{
			val: NewValidator(pubKey, 1),
			err: false,
			msg: "",
		},
		{
			val: nil,
			err: true,
			msg: "nil validator",
		},
		{
			val: &Validator{
				PubKey: nil,
			},
			err: true,
			msg: "validator does not have a public key",
		},
		{
			val: NewValidator(pubKey, -1),
			err: true,
			msg: "validator has negative voting power",
		},
		{
			val: &Validator{
				PubKey:  pubKey,
				Address: crypto.AddressHash([]byte("other")),
			},
			err: true,
			msg: "validator address is incorrectly derived from pubkey",
		},
	}

	for _, tc := range testCases {
		err := tc.val.ValidateBasic()
		if tc.err {
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.msg)
			}
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestValidatorSetJSON(t *testing.T) {
	vals := []*Validator{
		NewValidator(ed25519.GenPrivKey().PubKey(), 7),
		NewValidator(secp256k1.GenPrivKey().PubKey(), 5),
	}
	vals[1].ProposerPriority = -3
	vset := NewValidatorSet(vals)

	bz, err := json.Marshal(vset)
	require.NoError(t, err)
	assert.Contains(t, string(bz), `"voting_power":"7"`)
	assert.Contains(t, string(bz), `"type":"tendermint/PubKeyEd25519"`)

	var decoded ValidatorSet
	require.NoError(t, json.Unmarshal(bz, &decoded))
	assert.Equal(t, vset.Validators, decoded.Validators)
	assert.Equal(t, int64(12), decoded.TotalVotingPower())
	assert.Equal(t, vset.Hash(), decoded.Hash())
}

func TestValidatorJSONRejectsUnknownKey(t *testing.T) {
	var v Validator
	err := json.Unmarshal([]byte(`{"pub_key":{"type":"tendermint/PubKeySr25519","value":"AAAA"}}`), &v)
	assert.Error(t, err)
}

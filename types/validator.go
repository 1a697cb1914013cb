package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tendermint/light-verifier/crypto"
	ce "github.com/tendermint/light-verifier/crypto/encoding"
	"github.com/tendermint/light-verifier/libs/protoio"
)

// Volatile state for each Validator
// NOTE: The ProposerPriority is not included in Validator.Hash();
// make sure to update that method if changes are made here
type Validator struct {
	Address     crypto.Address
	PubKey      crypto.PubKey
	VotingPower int64

	ProposerPriority int64
}

type validatorJSON struct {
	Address          crypto.Address  `json:"address"`
	PubKey           json.RawMessage `json:"pub_key,omitempty"`
	VotingPower      int64           `json:"voting_power,string"`
	ProposerPriority int64           `json:"proposer_priority,string"`
}

func (v Validator) MarshalJSON() ([]byte, error) {
	val := validatorJSON{
		Address:          v.Address,
		VotingPower:      v.VotingPower,
		ProposerPriority: v.ProposerPriority,
	}
	if v.PubKey != nil {
		pk, err := ce.PubKeyToJSON(v.PubKey)
		if err != nil {
			return nil, err
		}
		val.PubKey = pk
	}
	return json.Marshal(val)
}

func (v *Validator) UnmarshalJSON(data []byte) error {
	var val validatorJSON
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	if len(val.PubKey) != 0 {
		pk, err := ce.PubKeyFromJSON(val.PubKey)
		if err != nil {
			return err
		}
		v.PubKey = pk
	}
	v.Address = val.Address
	v.VotingPower = val.VotingPower
	v.ProposerPriority = val.ProposerPriority
	return nil
}

// NewValidator returns a new validator with the given pubkey and voting power.
func NewValidator(pubKey crypto.PubKey, votingPower int64) *Validator {
	return &Validator{
		Address:          pubKey.Address(),
		PubKey:           pubKey,
		VotingPower:      votingPower,
		ProposerPriority: 0,
	}
}

// ValidateBasic performs basic validation.
func (v *Validator) ValidateBasic() error {
	if v == nil {
		return errors.New("nil validator")
	}
	if v.PubKey == nil {
		return errors.New("validator does not have a public key")
	}

	if v.VotingPower < 0 {
		return errors.New("validator has negative voting power")
	}

	addr := v.PubKey.Address()
	if !addr.Equal(v.Address) {
		return fmt.Errorf("validator address is incorrectly derived from pubkey. Exp: %v, got %v", addr, v.Address)
	}

	return nil
}

// Copy creates a new copy of the validator so we can mutate ProposerPriority.
// Panics if the validator is nil.
func (v *Validator) Copy() *Validator {
	vCopy := *v
	return &vCopy
}

// String returns a string representation of String.
//
// 1. address
// 2. public key
// 3. voting power
// 4. proposer priority
func (v *Validator) String() string {
	if v == nil {
		return "nil-Validator"
	}
	return fmt.Sprintf("Validator{%v %v VP:%v A:%v}",
		v.Address,
		v.PubKey,
		v.VotingPower,
		v.ProposerPriority)
}

// Bytes computes the unique encoding of a validator with a given voting power.
// These are the bytes that gets hashed in consensus. It excludes address
// as its redundant with the pubkey. This also excludes ProposerPriority
// which changes every round.
func (v *Validator) Bytes() ([]byte, error) {
	pk, err := ce.PubKeyToProto(v.PubKey)
	if err != nil {
		return nil, err
	}

	// SimpleValidator
	var w protoio.Writer
	w.Message(1, pk)
	w.Varint(2, v.VotingPower)
	return w.Finish(), nil
}

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tendermint/light-verifier/crypto/merkle"
	tmmath "github.com/tendermint/light-verifier/libs/math"
)

const (
	// MaxTotalVotingPower - the maximum allowed total voting power.
	// Consensus keeps totals this small so proposer priority arithmetic
	// never clips.
	MaxTotalVotingPower = int64(math.MaxInt64) / 8
)

// ValidatorSet represent a set of *Validator at a given height.
//
// The validators are kept in the order the chain reports them; commit
// signatures are index-aligned with that order.
//
// The total voting power is computed once, when the set is built or decoded,
// and is not re-derived by the verifier.
type ValidatorSet struct {
	// NOTE: persisted via reflect, must be exported.
	Validators []*Validator `json:"validators"`

	// cached (unexported)
	totalVotingPower int64
}

// NewValidatorSet initializes a ValidatorSet by copying over the values from
// `valz`, a list of Validators. The total voting power is the clipped sum of
// the members' voting powers.
func NewValidatorSet(valz []*Validator) *ValidatorSet {
	vals := &ValidatorSet{Validators: validatorListCopy(valz)}
	vals.updateTotalVotingPower()
	return vals
}

func (vals *ValidatorSet) updateTotalVotingPower() {
	sum := int64(0)
	for _, val := range vals.Validators {
		if val == nil {
			continue
		}
		sum = tmmath.SafeAddClipInt64(sum, val.VotingPower)
	}
	vals.totalVotingPower = sum
}

// ValidateBasic performs basic validation.
func (vals *ValidatorSet) ValidateBasic() error {
	if vals.IsNilOrEmpty() {
		return errors.New("validator set is nil or empty")
	}

	for idx, val := range vals.Validators {
		if err := val.ValidateBasic(); err != nil {
			return fmt.Errorf("invalid validator #%d: %w", idx, err)
		}
	}

	if vals.totalVotingPower > MaxTotalVotingPower {
		return fmt.Errorf("total voting power %d exceeds maximum %d", vals.totalVotingPower, MaxTotalVotingPower)
	}

	return nil
}

// IsNilOrEmpty returns true if validator set is nil or empty.
func (vals *ValidatorSet) IsNilOrEmpty() bool {
	return vals == nil || len(vals.Validators) == 0
}

// Makes a copy of the validator list.
func validatorListCopy(valsList []*Validator) []*Validator {
	if valsList == nil {
		return nil
	}
	valsCopy := make([]*Validator, len(valsList))
	for i, val := range valsList {
		if val == nil {
			continue
		}
		valsCopy[i] = val.Copy()
	}
	return valsCopy
}

// Copy each validator into a new ValidatorSet.
func (vals *ValidatorSet) Copy() *ValidatorSet {
	return &ValidatorSet{
		Validators:       validatorListCopy(vals.Validators),
		totalVotingPower: vals.totalVotingPower,
	}
}

// HasAddress returns true if address given is in the validator set, false -
// otherwise.
func (vals *ValidatorSet) HasAddress(address []byte) bool {
	idx, _ := vals.GetByAddress(address)
	return idx != -1
}

// GetByAddress returns an index of the validator with address and validator
// itself (copy) if found. Otherwise, -1 and nil are returned.
func (vals *ValidatorSet) GetByAddress(address []byte) (index int32, val *Validator) {
	for idx, val := range vals.Validators {
		if val != nil && bytes.Equal(val.Address, address) {
			return int32(idx), val.Copy()
		}
	}
	return -1, nil
}

// GetByIndex returns the validator's address and validator itself (copy) by
// index.
// It returns nil values if index is less than 0 or greater or equal to
// len(ValidatorSet.Validators).
func (vals *ValidatorSet) GetByIndex(index int32) (address []byte, val *Validator) {
	if index < 0 || int(index) >= len(vals.Validators) || vals.Validators[index] == nil {
		return nil, nil
	}
	val = vals.Validators[index]
	return val.Address, val.Copy()
}

// Size returns the length of the validator set.
func (vals *ValidatorSet) Size() int {
	return len(vals.Validators)
}

// TotalVotingPower returns the sum of the voting powers of all validators.
func (vals *ValidatorSet) TotalVotingPower() int64 {
	return vals.totalVotingPower
}

// Hash returns the Merkle root hash build using validators (as leaves) in the
// set. It returns nil for a nil set or if a validator cannot be encoded.
func (vals *ValidatorSet) Hash() []byte {
	if vals == nil {
		return nil
	}
	bzs := make([][]byte, len(vals.Validators))
	for i, val := range vals.Validators {
		if val == nil {
			return nil
		}
		bz, err := val.Bytes()
		if err != nil {
			return nil
		}
		bzs[i] = bz
	}
	return merkle.HashFromByteSlices(bzs)
}

// Iterate will run the given function over the set.
func (vals *ValidatorSet) Iterate(fn func(index int, val *Validator) bool) {
	for i, val := range vals.Validators {
		if val != nil {
			val = val.Copy()
		}
		stop := fn(i, val)
		if stop {
			break
		}
	}
}

// UnmarshalJSON decodes the set and recomputes its total voting power.
func (vals *ValidatorSet) UnmarshalJSON(data []byte) error {
	var v struct {
		Validators []*Validator `json:"validators"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	vals.Validators = v.Validators
	vals.updateTotalVotingPower()
	return nil
}

// String returns a string representation of ValidatorSet.
//
// See StringIndented.
func (vals *ValidatorSet) String() string {
	return vals.StringIndented("")
}

// StringIndented returns an intended String.
//
// See Validator#String.
func (vals *ValidatorSet) StringIndented(indent string) string {
	if vals == nil {
		return "nil-ValidatorSet"
	}
	var valStrings []string
	vals.Iterate(func(index int, val *Validator) bool {
		valStrings = append(valStrings, val.String())
		return false
	})
	return fmt.Sprintf(`ValidatorSet{
%s  Validators:
%s    %v
%s}`,
		indent,
		indent, strings.Join(valStrings, "\n"+indent+"    "),
		indent)
}

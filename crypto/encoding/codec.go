// Package encoding converts public keys to and from the forms they take
// outside of memory: the tendermint.crypto.PublicKey protobuf oneof that
// validator set hashes commit to, and the typed JSON envelope used on disk
// and over RPC.
package encoding

import (
	"encoding/json"
	"fmt"

	"github.com/tendermint/light-verifier/crypto"
	"github.com/tendermint/light-verifier/crypto/ed25519"
	"github.com/tendermint/light-verifier/crypto/secp256k1"
	"github.com/tendermint/light-verifier/libs/protoio"
)

// PublicKey oneof field numbers.
const (
	fieldEd25519   = 1
	fieldSecp256k1 = 2
)

// PubKeyToProto returns the protobuf encoding of a tendermint.crypto.PublicKey
// holding k.
func PubKeyToProto(k crypto.PubKey) ([]byte, error) {
	var w protoio.Writer
	switch k := k.(type) {
	case ed25519.PubKey:
		w.OneofBytes(fieldEd25519, k)
	case secp256k1.PubKey:
		w.OneofBytes(fieldSecp256k1, k)
	default:
		return nil, fmt.Errorf("toproto: key type %v is not supported", k)
	}
	return w.Finish(), nil
}

// PubKeyFromTypeAndBytes builds a public key from its key type name, as
// returned by crypto.PubKey.Type, and raw bytes.
func PubKeyFromTypeAndBytes(pkType string, bytes []byte) (crypto.PubKey, error) {
	switch pkType {
	case ed25519.KeyType:
		if len(bytes) != ed25519.PubKeySize {
			return nil, fmt.Errorf("invalid size for PubKeyEd25519. Got %d, expected %d",
				len(bytes), ed25519.PubKeySize)
		}
		pk := make(ed25519.PubKey, ed25519.PubKeySize)
		copy(pk, bytes)
		return pk, nil
	case secp256k1.KeyType:
		if len(bytes) != secp256k1.PubKeySize {
			return nil, fmt.Errorf("invalid size for PubKeySecp256k1. Got %d, expected %d",
				len(bytes), secp256k1.PubKeySize)
		}
		pk := make(secp256k1.PubKey, secp256k1.PubKeySize)
		copy(pk, bytes)
		return pk, nil
	default:
		return nil, fmt.Errorf("key type %q is not supported", pkType)
	}
}

type jsonEnvelope struct {
	Type  string `json:"type"`
	Value []byte `json:"value"`
}

// PubKeyToJSON encodes k as {"type": "tendermint/PubKeyEd25519", "value": "<base64>"}.
func PubKeyToJSON(k crypto.PubKey) ([]byte, error) {
	var name string
	switch k.(type) {
	case ed25519.PubKey:
		name = ed25519.PubKeyName
	case secp256k1.PubKey:
		name = secp256k1.PubKeyName
	default:
		return nil, fmt.Errorf("json: key type %v is not supported", k)
	}
	return json.Marshal(jsonEnvelope{Type: name, Value: k.Bytes()})
}

// PubKeyFromJSON decodes the envelope written by PubKeyToJSON.
func PubKeyFromJSON(bz []byte) (crypto.PubKey, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, fmt.Errorf("decoding pubkey: %w", err)
	}
	switch env.Type {
	case ed25519.PubKeyName:
		return PubKeyFromTypeAndBytes(ed25519.KeyType, env.Value)
	case secp256k1.PubKeyName:
		return PubKeyFromTypeAndBytes(secp256k1.KeyType, env.Value)
	default:
		return nil, fmt.Errorf("unknown pubkey type %q", env.Type)
	}
}

package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/light-verifier/crypto"
	"github.com/tendermint/light-verifier/crypto/ed25519"
	"github.com/tendermint/light-verifier/crypto/secp256k1"
)

func TestPubKeyToProto(t *testing.T) {
	edKey := ed25519.GenPrivKeyFromSecret([]byte("ed")).PubKey()
	secpKey := secp256k1.GenPrivKeySecp256k1([]byte("secp")).PubKey()

	bz, err := PubKeyToProto(edKey)
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0x0a, 0x20}, edKey.Bytes()...), bz)

	bz, err = PubKeyToProto(secpKey)
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0x12, 0x21}, secpKey.Bytes()...), bz)

	_, err = PubKeyToProto(nil)
	assert.Error(t, err)
}

func TestPubKeyJSONRoundTrip(t *testing.T) {
	keys := []crypto.PubKey{
		ed25519.GenPrivKey().PubKey(),
		secp256k1.GenPrivKey().PubKey(),
	}
	for _, pk := range keys {
		bz, err := PubKeyToJSON(pk)
		require.NoError(t, err)

		got, err := PubKeyFromJSON(bz)
		require.NoError(t, err)
		assert.True(t, pk.Equals(got), "%s did not survive a round trip", pk.Type())
	}
}

func TestPubKeyFromJSONErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"unknown type", `{"type":"tendermint/PubKeySr25519","value":"AAAA"}`},
		{"short ed25519", `{"type":"tendermint/PubKeyEd25519","value":"AAAA"}`},
		{"short secp256k1", `{"type":"tendermint/PubKeySecp256k1","value":"AAAA"}`},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := PubKeyFromJSON([]byte(tc.input))
			assert.Error(t, err)
		})
	}
}

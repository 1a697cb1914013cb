package secp256k1_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	underlyingSecp256k1 "github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/light-verifier/crypto"
	"github.com/tendermint/light-verifier/crypto/secp256k1"
)

type keyData struct {
	priv string
	pub  string
}

var secpDataTable = []keyData{
	{
		priv: "a96e62ed3955e65be32703f12d87b6b5cf26039ecfa948dc5107a495418e5330",
		pub:  "02950e1cdfcb133d6024109fd489f734eeb4502418e538c28481f22bce276f248c",
	},
}

func TestPubKeyFromPrivKey(t *testing.T) {
	for _, d := range secpDataTable {
		privB, err := hex.DecodeString(d.priv)
		require.NoError(t, err)
		pubB, err := hex.DecodeString(d.pub)
		require.NoError(t, err)

		priv := secp256k1.PrivKey(privB)
		pubKey := priv.PubKey()
		assert.Equal(t, secp256k1.PubKey(pubB), pubKey, "Expected pub keys to match")
		assert.Len(t, pubKey.Address(), crypto.AddressSize)
	}
}

func TestSignAndValidateSecp256k1(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	pubKey := privKey.PubKey()

	msg := crypto.CRandBytes(128)
	sig, err := privKey.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, secp256k1.SignatureSize)

	assert.True(t, pubKey.VerifySignature(msg, sig))

	// Mutate the signature, just one bit.
	sig[3] ^= byte(0x01)

	assert.False(t, pubKey.VerifySignature(msg, sig))
}

func TestRejectsHighSSignature(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	pubKey := privKey.PubKey()
	msg := []byte("We have lingered long enough on the shores of the cosmic ocean.")

	sig, err := privKey.Sign(msg)
	require.NoError(t, err)
	require.True(t, pubKey.VerifySignature(msg, sig))

	// (R, N-S) is an equally valid ECDSA signature but must be rejected.
	s := new(big.Int).SetBytes(sig[32:])
	highS := new(big.Int).Sub(underlyingSecp256k1.S256().N, s).Bytes()
	malleated := make([]byte, secp256k1.SignatureSize)
	copy(malleated[:32], sig[:32])
	copy(malleated[64-len(highS):], highS)

	assert.False(t, pubKey.VerifySignature(msg, malleated))
}

func TestGenPrivKeySecp256k1(t *testing.T) {
	// curve oder N
	N := underlyingSecp256k1.S256().N
	tests := []struct {
		name   string
		secret []byte
	}{
		{"empty secret", []byte{}},
		{
			"some long secret",
			[]byte("We live in a society exquisitely dependent on science and technology, " +
				"in which hardly anyone knows anything about science and technology."),
		},
		{"another seed used in cosmos tests #1", []byte{0}},
		{"another seed used in cosmos tests #2", []byte("mySecret")},
		{"another seed used in cosmos tests #3", []byte("")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			gotPrivKey := secp256k1.GenPrivKeySecp256k1(tt.secret)
			require.NotNil(t, gotPrivKey)
			// interpret as a big.Int and make sure it is a valid field element:
			fe := new(big.Int).SetBytes(gotPrivKey[:])
			require.True(t, fe.Cmp(N) < 0)
			require.True(t, fe.Sign() > 0)
		})
	}
}

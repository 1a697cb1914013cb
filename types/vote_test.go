package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteVerify(t *testing.T) {
	commit := makeCommit(t, 10, testBlockID(), testKeys[:3], flagsOf(3, BlockIDFlagCommit))

	for i, key := range testKeys[:3] {
		vote := commit.GetVote(int32(i))
		require.NotNil(t, vote)
		assert.Equal(t, PrecommitType, vote.Type)
		assert.Equal(t, commit.VoteSignBytes(testChainID, int32(i)), VoteSignBytes(testChainID, vote))
		assert.NoError(t, vote.Verify(testChainID, key.PubKey()))
	}

	vote := commit.GetVote(0)

	// sign bytes cover the chain id
	err := vote.Verify("other-chain", testKeys[0].PubKey())
	assert.Equal(t, ErrSignatureVerification{Index: 0, Signature: vote.Signature}, err)

	// the key must belong to the signer
	err = vote.Verify(testChainID, testKeys[1].PubKey())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid validator address")

	vote.Round++
	err = vote.Verify(testChainID, testKeys[0].PubKey())
	assert.Equal(t, ErrSignatureVerification{Index: 0, Signature: vote.Signature}, err)
}

func TestVoteString(t *testing.T) {
	var nilVote *Vote
	assert.Equal(t, "nil-Vote", nilVote.String())

	vote := makeCommit(t, 10, testBlockID(), testKeys[:1], flagsOf(1, BlockIDFlagCommit)).GetVote(0)
	assert.Contains(t, vote.String(), "Precommit")
}

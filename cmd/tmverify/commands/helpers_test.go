package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/light-verifier/config"
	"github.com/tendermint/light-verifier/crypto"
	"github.com/tendermint/light-verifier/crypto/ed25519"
	"github.com/tendermint/light-verifier/crypto/tmhash"
	"github.com/tendermint/light-verifier/libs/cli"
	"github.com/tendermint/light-verifier/types"
	"github.com/tendermint/light-verifier/version"
)

const testChainID = "tmverify-test"

var (
	bTime   = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	testNow = bTime.Add(time.Hour).Format(time.RFC3339)
)

// testRootCmd assembles the command tree the way main does.
func testRootCmd(conf *config.Config) *cobra.Command {
	rcmd := RootCommand(conf)
	rcmd.AddCommand(
		MakeInitCommand(conf),
		MakeTrustCommand(conf),
		MakeVerifyCommand(conf),
		MakeShowCommand(conf),
		VersionCmd,
	)
	return cli.PrepareBaseCmd(rcmd, EnvPrefix, config.DefaultHome())
}

// RunWithArgs executes the given command with the specified command line args
// and environmental variables set. It returns any error returned from cmd.Execute()
func RunWithArgs(ctx context.Context, cmd *cobra.Command, args []string, env map[string]string) error {
	oenv := map[string]*string{}
	// defer returns the environment back to normal
	defer func() {
		for k, v := range oenv {
			if v == nil {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, *v)
			}
		}
	}()

	for k, v := range env {
		// backup old value if there, to restore at end
		if old, ok := os.LookupEnv(k); ok {
			oenv[k] = &old
		} else {
			oenv[k] = nil
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}

	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

type runResult struct {
	conf *config.Config
	out  string
	logs string
}

// run executes tmverify with a fresh config and viper instance.
func run(t *testing.T, env map[string]string, args ...string) (runResult, error) {
	t.Helper()

	viper.Reset()
	conf := config.DefaultConfig()
	cmd := testRootCmd(conf)

	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)

	err := RunWithArgs(context.Background(), cmd, args, env)
	return runResult{conf: conf, out: out.String(), logs: logs.String()}, err
}

// testChain is a fixed validator set producing a chain of light blocks.
type testChain struct {
	keys []crypto.PrivKey
	vals *types.ValidatorSet
}

func newTestChain(n int) *testChain {
	keys := make([]crypto.PrivKey, n)
	validators := make([]*types.Validator, n)
	for i := range keys {
		keys[i] = ed25519.GenPrivKeyFromSecret([]byte(fmt.Sprintf("tmverify-%d", i)))
		validators[i] = types.NewValidator(keys[i].PubKey(), 10)
	}
	return &testChain{keys: keys, vals: types.NewValidatorSet(validators)}
}

// lightBlock returns the block at height, signed by all validators and
// timestamped height minutes after bTime.
func (c *testChain) lightBlock(t *testing.T, height int64) *types.LightBlock {
	t.Helper()

	header := &types.Header{
		Version:            version.Consensus{Block: version.BlockProtocol},
		ChainID:            testChainID,
		Height:             height,
		Time:               bTime.Add(time.Duration(height) * time.Minute),
		ValidatorsHash:     c.vals.Hash(),
		NextValidatorsHash: c.vals.Hash(),
		ConsensusHash:      tmhash.Sum([]byte("consensus")),
		AppHash:            tmhash.Sum([]byte(fmt.Sprintf("app-%d", height))),
		ProposerAddress:    c.vals.Validators[0].Address,
	}
	blockID := types.BlockID{
		Hash:          header.Hash(),
		PartSetHeader: types.PartSetHeader{Total: 1, Hash: tmhash.Sum([]byte("parts"))},
	}
	commit := &types.Commit{
		Height:     height,
		Round:      0,
		BlockID:    blockID,
		Signatures: make([]types.CommitSig, len(c.keys)),
	}
	for i, key := range c.keys {
		commit.Signatures[i] = types.CommitSig{
			BlockIDFlag:      types.BlockIDFlagCommit,
			ValidatorAddress: key.PubKey().Address(),
			Timestamp:        header.Time,
		}
		sig, err := key.Sign(commit.VoteSignBytes(testChainID, int32(i)))
		require.NoError(t, err)
		commit.Signatures[i].Signature = sig
	}

	return &types.LightBlock{
		SignedHeader: &types.SignedHeader{Header: header, Commit: commit},
		ValidatorSet: c.vals,
	}
}

// writeLightBlock stores lb as JSON in dir and returns the file path.
func writeLightBlock(t *testing.T, dir string, lb *types.LightBlock) string {
	t.Helper()

	bz, err := json.Marshal(lb)
	require.NoError(t, err)
	path := filepath.Join(dir, fmt.Sprintf("block-%d.json", lb.Height))
	require.NoError(t, os.WriteFile(path, bz, 0600))
	return path
}

package version

import (
	"github.com/tendermint/light-verifier/libs/protoio"
)

var (
	// GitCommit is the current HEAD set using ldflags.
	GitCommit string

	// Version is the built softwares version.
	Version string = VerifierSemVer
)

func init() {
	if GitCommit != "" {
		Version += "-" + GitCommit
	}
}

const (
	// VerifierSemVer is the current version of the light verifier.
	// It's the Semantic Version of the software.
	VerifierSemVer = "0.1.0"
)

// Protocol is used for implementation agnostic versioning.
type Protocol uint64

// Uint64 returns the Protocol version as a uint64.
func (p Protocol) Uint64() uint64 {
	return uint64(p)
}

var (
	// BlockProtocol versions all block data structures and processing.
	// This includes validity of blocks and state updates.
	BlockProtocol Protocol = 11
)

//------------------------------------------------------------------------
// Version types

// Consensus captures the consensus rules for processing a block in the blockchain,
// including all blockchain data structures and the rules of the application's
// state transition machine.
type Consensus struct {
	Block Protocol `json:"block,string"`
	App   Protocol `json:"app,string"`
}

// Bytes returns the protobuf encoding of tendermint.version.Consensus, as
// committed to by the header hash.
func (c Consensus) Bytes() []byte {
	var w protoio.Writer
	w.Uvarint(1, c.Block.Uint64())
	w.Uvarint(2, c.App.Uint64())
	return w.Finish()
}

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendermint/light-verifier/version"
)

var verbose bool

// VersionCmd ...
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			return err
		}
		values, err := json.MarshalIndent(struct {
			Verifier      string `json:"verifier"`
			BlockProtocol uint64 `json:"block_protocol"`
		}{
			Verifier:      version.Version,
			BlockProtocol: version.BlockProtocol.Uint64(),
		}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(values))
		return err
	},
}

func init() {
	VersionCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show protocol versions")
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendermint/light-verifier/config"
)

// MakeTrustCommand returns the command storing a subjectively trusted light
// block. Its signatures are not checked; the operator vouches for it.
func MakeTrustCommand(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "trust FILE",
		Short: "Store a light block as the root of trust",
		Long: `Store a light block as the root of trust.

The block is obtained out of band (a trusted node, a block explorer, a
friend) and only checked for internal consistency. Every later call to
verify starts from the most recent trusted block.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lb, err := readLightBlock(args[0])
			if err != nil {
				return err
			}
			if err := lb.ValidateBasic(conf.ChainID); err != nil {
				return fmt.Errorf("invalid light block %s: %w", args[0], err)
			}

			s, db, err := openStore(conf)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := s.SaveLightBlock(lb); err != nil {
				return err
			}
			logger.Info("Trusted light block", "height", lb.Height, "hash", lb.Hash())
			return nil
		},
	}
}

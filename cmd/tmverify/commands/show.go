package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tendermint/light-verifier/config"
)

// MakeShowCommand returns the command printing a stored light block as JSON.
func MakeShowCommand(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show [HEIGHT]",
		Short: "Show a stored light block, the latest one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, db, err := openStore(conf)
			if err != nil {
				return err
			}
			defer db.Close()

			var height int64
			if len(args) == 1 {
				height, err = strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid height %q: %w", args[0], err)
				}
			} else {
				height, err = s.LastLightBlockHeight()
				if err != nil {
					return err
				}
				if height == -1 {
					return errors.New("no light blocks stored")
				}
			}

			lb, err := s.LightBlock(height)
			if err != nil {
				return err
			}
			bz, err := json.MarshalIndent(lb, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}
}

package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tendermint/light-verifier/config"
	"github.com/tendermint/light-verifier/light"
	"github.com/tendermint/light-verifier/light/store"
	"github.com/tendermint/light-verifier/types"
	tmtime "github.com/tendermint/light-verifier/types/time"
)

const nowFlag = "now"

// MakeVerifyCommand returns the command verifying light blocks, in the order
// given, against the latest trusted one.
func MakeVerifyCommand(conf *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify FILE...",
		Short: "Verify light blocks against the latest trusted one",
		Long: `Verify light blocks against the latest trusted one.

A block one height above the trusted block is verified sequentially, any
higher block by skipping verification. Every accepted block becomes the new
trusted block and is stored; the store keeps at most max-retained-blocks.
All files are decoded before the first one is verified; verification stops
at the first rejected block.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseNow(cmd)
			if err != nil {
				return err
			}
			return verifyFiles(conf, args, now)
		},
	}
	cmd.Flags().String(nowFlag, "",
		"verify as of this RFC3339 time instead of the local clock")
	return cmd
}

func parseNow(cmd *cobra.Command) (time.Time, error) {
	s, err := cmd.Flags().GetString(nowFlag)
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return tmtime.Now(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", nowFlag, err)
	}
	return tmtime.Canonical(t), nil
}

func verifyFiles(conf *config.Config, files []string, now time.Time) error {
	trustingPeriod, err := conf.Light.TrustingPeriodDuration()
	if err != nil {
		return err
	}
	maxClockDrift, err := conf.Light.MaxClockDriftDuration()
	if err != nil {
		return err
	}
	trustLevel, err := conf.Light.TrustLevelFraction()
	if err != nil {
		return err
	}

	s, db, err := openStore(conf)
	if err != nil {
		return err
	}
	defer db.Close()

	lastHeight, err := s.LastLightBlockHeight()
	if err != nil {
		return err
	}
	if lastHeight == -1 {
		return errors.New("no trusted light block, run trust first")
	}
	trusted, err := s.LightBlock(lastHeight)
	if err != nil {
		return err
	}

	blocks, err := readLightBlocks(files)
	if err != nil {
		return err
	}

	for i, untrusted := range blocks {
		file := files[i]
		logger.Debug("Verifying light block",
			"file", file,
			"trusted", trusted.Height,
			"untrusted", untrusted.Height)

		err = light.Verify(trusted.SignedHeader, trusted.ValidatorSet,
			untrusted.SignedHeader, untrusted.ValidatorSet,
			trustingPeriod, now, maxClockDrift, trustLevel, nil)
		if err != nil {
			logger.Error("Light block rejected", "file", file, "height", untrusted.Height, "err", err)
			return light.ErrVerificationFailed{From: trusted.Height, To: untrusted.Height, Reason: err}
		}

		if err := s.SaveLightBlock(untrusted); err != nil {
			return err
		}
		logger.Info("Verified light block", "height", untrusted.Height, "hash", untrusted.Hash())
		trusted = untrusted

		if err := prune(s, conf.Light.MaxRetainedBlocks); err != nil {
			return err
		}
	}
	return nil
}

// readLightBlocks decodes files concurrently, preserving their order.
func readLightBlocks(files []string) ([]*types.LightBlock, error) {
	blocks := make([]*types.LightBlock, len(files))
	var g errgroup.Group
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			lb, err := readLightBlock(file)
			blocks[i] = lb
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func prune(s store.Store, size uint16) error {
	if s.Size() <= size {
		return nil
	}
	if err := s.Prune(size); err != nil {
		return fmt.Errorf("pruning light blocks: %w", err)
	}
	logger.Debug("Pruned light blocks", "size", s.Size())
	return nil
}

// Command hllstat estimates and merges distinct-value counts from
// newline-delimited input files using the hyperloglog package.
package main

import (
	"bufio"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/IngvarBSD/hyperloglog"
	"github.com/IngvarBSD/hyperloglog/codec"
	"github.com/IngvarBSD/hyperloglog/hashutil"
)

var log = logrus.New()

var (
	flagPrecision int
	flagHashBits  int
	flagBitPack   bool
	flagMurmur    bool
)

func main() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	root := &cobra.Command{
		Use:   "hllstat",
		Short: "Estimate and merge cardinalities with HyperLogLog",
	}
	root.PersistentFlags().IntVar(&flagPrecision, "precision", 0, "register-index bit width p (overrides HLLSTAT_PRECISION)")
	root.PersistentFlags().IntVar(&flagHashBits, "hash-bits", 0, "effective hash width (overrides HLLSTAT_HASH_BITS)")
	root.PersistentFlags().BoolVar(&flagBitPack, "bit-pack", false, "force 6-bit register packing")
	root.PersistentFlags().BoolVar(&flagMurmur, "murmur", false, "hash lines with murmur3 instead of xxhash")

	root.AddCommand(countCmd(), mergeCmd())

	if err := root.Execute(); err != nil {
		log.WithError(err).Fatal("hllstat: command failed")
	}
}

// resolveBitPack decides the effective bit-packing setting: the --bit-pack
// flag wins whenever the caller actually passed it (tracked via Changed),
// otherwise the environment-derived default from cfg applies. A plain
// `cfg.BitPack || flagBitPack` would make an explicit --bit-pack=false
// unreachable once the env default is true, so Changed is load-bearing
// here, not decorative.
func resolveBitPack(cmd *cobra.Command, cfg cliConfig) bool {
	if cmd.Flags().Changed("bit-pack") {
		return flagBitPack
	}
	return cfg.BitPack
}

func buildEstimator(cmd *cobra.Command, cfg cliConfig) (*hyperloglog.Estimator, error) {
	p := cfg.Precision
	if flagPrecision != 0 {
		p = flagPrecision
	}
	hashBits := cfg.HashBits
	if flagHashBits != 0 {
		hashBits = flagHashBits
	}

	return hyperloglog.New(
		hyperloglog.WithP(p),
		hyperloglog.WithHashBits(hashBits),
		hyperloglog.WithBitPack(resolveBitPack(cmd, cfg)),
	)
}

func countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <file>",
		Short: "Hash each line of a file and print its estimated cardinality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := buildEstimator(cmd, cfg)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			useMurmur := cfg.HashFamily == "murmur3"
			if cmd.Flags().Changed("murmur") {
				useMurmur = flagMurmur
			}
			hash := hashutil.String
			if useMurmur {
				m := hashutil.NewMurmur()
				hash = m.String
			}

			scanner := bufio.NewScanner(f)
			lines := 0
			for scanner.Scan() {
				e.Add(hash(scanner.Text()))
				lines++
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			log.WithFields(logrus.Fields{
				"file":     args[0],
				"lines":    lines,
				"encoding": e.Encoding().String(),
			}).Info("hllstat: count complete")

			cmd.Printf("count=%d stderr=%.5f\n", e.Count(), e.StandardError())
			return nil
		},
	}
}

func mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <file...>",
		Short: "Decode and merge several encoded estimators, printing the combined count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var combined *hyperloglog.Estimator

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				e, err := codec.Unmarshal(data)
				if err != nil {
					return err
				}

				if combined == nil {
					combined = e
					continue
				}
				if err := combined.Merge(e); err != nil {
					return err
				}
			}

			log.WithField("files", len(args)).Info("hllstat: merge complete")
			cmd.Printf("count=%d stderr=%.5f\n", combined.Count(), combined.StandardError())
			return nil
		},
	}
}

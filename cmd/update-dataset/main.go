// Command update-dataset regenerates the division dataset embedded in the
// vnprovinces package from National Statistics Office exports.
//
// Typical release flow:
//
//	go run ./cmd/update-dataset process-csv --wards wards.csv --provinces provinces.csv --phones phones.csv --out data
//	go run ./cmd/update-dataset gen-legacy --input legacy.csv --out data
//	go run ./cmd/update-dataset gen-crossref --conversion conversion.csv --data data --out data
//	go run ./cmd/update-dataset validate --data data
//
// Flag defaults can be set through VNPROVINCES_* environment variables,
// loaded from a .env file when one is present.
package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	vnprovinces "github.com/sunshine-tech/VietnamProvinces"
)

// manifest records one generation run, written next to the artifacts so a
// published dataset can be traced back to its inputs.
type manifest struct {
	ID          string                   `json:"id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Step        string                   `json:"step"`
	Inputs      map[string]string        `json:"inputs"`
	Stats       vnprovinces.DatasetStats `json:"stats"`
}

func writeManifest(outDir, step string, inputs map[string]string, stats vnprovinces.DatasetStats) error {
	m := manifest{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Step:        step,
		Inputs:      inputs,
		Stats:       stats,
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "manifest.json"), append(raw, '\n'), 0o644)
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newProcessCSVCmd() *cobra.Command {
	var opts vnprovinces.GenerateOptions
	cmd := &cobra.Command{
		Use:   "process-csv",
		Short: "Build divisions.json and version.txt from the post-2025 exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := vnprovinces.GenerateDivisions(opts)
			if err != nil {
				return err
			}
			return writeManifest(opts.OutDir, "process-csv", map[string]string{
				"wards":     opts.WardCSV,
				"provinces": opts.ProvinceCSV,
				"phones":    opts.PhoneCSV,
			}, stats)
		},
	}
	cmd.Flags().StringVar(&opts.WardCSV, "wards", envDefault("VNPROVINCES_WARDS_CSV", ""), "Ward export CSV (required)")
	cmd.Flags().StringVar(&opts.ProvinceCSV, "provinces", envDefault("VNPROVINCES_PROVINCES_CSV", ""), "Province export CSV (required)")
	cmd.Flags().StringVar(&opts.PhoneCSV, "phones", envDefault("VNPROVINCES_PHONES_CSV", ""), "Phone-code CSV (required)")
	cmd.Flags().StringVar(&opts.Amendments, "amendments", envDefault("VNPROVINCES_AMENDMENTS", ""), "Amendments YAML")
	cmd.Flags().StringVar(&opts.OutDir, "out", envDefault("VNPROVINCES_OUT", "data"), "Output directory")
	cmd.Flags().StringVar(&opts.Version, "version", "", "Dataset version date YYYY-MM-DD (default: today)")
	if os.Getenv("VNPROVINCES_WARDS_CSV") == "" {
		_ = cmd.MarkFlagRequired("wards")
	}
	if os.Getenv("VNPROVINCES_PROVINCES_CSV") == "" {
		_ = cmd.MarkFlagRequired("provinces")
	}
	if os.Getenv("VNPROVINCES_PHONES_CSV") == "" {
		_ = cmd.MarkFlagRequired("phones")
	}
	return cmd
}

func newGenLegacyCmd() *cobra.Command {
	var input, out string
	cmd := &cobra.Command{
		Use:   "gen-legacy",
		Short: "Build legacy-divisions.json from the pre-2025 export",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := vnprovinces.GenerateLegacyDivisions(input, out)
			if err != nil {
				return err
			}
			return writeManifest(out, "gen-legacy", map[string]string{"legacy": input}, stats)
		},
	}
	cmd.Flags().StringVar(&input, "input", envDefault("VNPROVINCES_LEGACY_CSV", ""), "Legacy export CSV (required)")
	cmd.Flags().StringVar(&out, "out", envDefault("VNPROVINCES_OUT", "data"), "Output directory")
	if os.Getenv("VNPROVINCES_LEGACY_CSV") == "" {
		_ = cmd.MarkFlagRequired("input")
	}
	return cmd
}

func newGenCrossRefCmd() *cobra.Command {
	var conversion, dataDir, out, effectiveDate string
	cmd := &cobra.Command{
		Use:   "gen-crossref",
		Short: "Build crossref.json from the government conversion table",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := vnprovinces.GenerateCrossRef(conversion, dataDir, effectiveDate, out)
			if err != nil {
				return err
			}
			return writeManifest(out, "gen-crossref", map[string]string{
				"conversion": conversion,
				"data":       dataDir,
			}, vnprovinces.DatasetStats{Wards: entries})
		},
	}
	cmd.Flags().StringVar(&conversion, "conversion", envDefault("VNPROVINCES_CONVERSION_CSV", ""), "Conversion table CSV (required)")
	cmd.Flags().StringVar(&dataDir, "data", envDefault("VNPROVINCES_OUT", "data"), "Directory holding the generated division datasets")
	cmd.Flags().StringVar(&out, "out", envDefault("VNPROVINCES_OUT", "data"), "Output directory")
	cmd.Flags().StringVar(&effectiveDate, "effective-date", "2025-07-01", "Date the reorganization took effect")
	if os.Getenv("VNPROVINCES_CONVERSION_CSV") == "" {
		_ = cmd.MarkFlagRequired("conversion")
	}
	return cmd
}

func newValidateCmd() *cobra.Command {
	var dataDir string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a generated dataset and check it against known divisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return vnprovinces.ValidateDataset(dataDir)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", envDefault("VNPROVINCES_OUT", "data"), "Directory holding the generated dataset")
	return cmd
}

func main() {
	_ = godotenv.Load()

	var verbose bool
	root := &cobra.Command{
		Use:           "update-dataset",
		Short:         "Regenerate the embedded Vietnamese division dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	root.AddCommand(newProcessCSVCmd(), newGenLegacyCmd(), newGenCrossRefCmd(), newValidateCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("update-dataset failed")
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdfquiz/backend/internal/config"
	"github.com/pdfquiz/backend/internal/generator"
)

var rootCmd = &cobra.Command{
	Use:           "quizgen",
	Short:         "Question generation and maintenance tools for the quiz backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(syllabusCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}

// newGenerator builds a generator from the environment. A non-zero seed
// makes the procedural engines reproducible.
func newGenerator(cmd *cobra.Command) *generator.Generator {
	var opts []generator.Option
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		opts = append(opts, generator.WithRandSource(generator.SeededSource(seed)))
	}
	return generator.NewGenerator(config.Load().Generator, opts...)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

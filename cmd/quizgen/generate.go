package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdfquiz/backend/internal/generator"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Generate questions from a text file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		count, _ := cmd.Flags().GetInt("count")
		check, _ := cmd.Flags().GetBool("check")

		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		qs, source := newGenerator(cmd).DocumentQuestions(cmd.Context(), string(text), count)
		fmt.Fprintf(os.Stderr, "generated %d questions (%s)\n", len(qs), source)

		if check {
			bad := 0
			for i, q := range qs {
				for _, issue := range generator.StructuralIssues(q) {
					fmt.Fprintf(os.Stderr, "question %d: %s\n", i+1, issue)
					bad++
				}
			}
			for _, w := range generator.BatchWarnings(qs) {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
			if bad > 0 {
				return fmt.Errorf("%d structural issues found", bad)
			}
		}
		return printJSON(qs)
	},
}

var syllabusCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "Generate a mock exam paper",
	RunE: func(cmd *cobra.Command, args []string) error {
		mathCount, _ := cmd.Flags().GetInt("math")
		computerCount, _ := cmd.Flags().GetInt("computer")
		return printJSON(newGenerator(cmd).SyllabusQuestions(mathCount, computerCount))
	},
}

func init() {
	documentCmd.Flags().String("file", "", "Path to a UTF-8 text file")
	documentCmd.Flags().Int("count", 20, "Number of questions")
	documentCmd.Flags().Int64("seed", 0, "Seed for reproducible output")
	documentCmd.Flags().Bool("check", false, "Validate every question and fail on structural issues")
	documentCmd.MarkFlagRequired("file")

	syllabusCmd.Flags().Int("math", 10, "Number of mathematics questions")
	syllabusCmd.Flags().Int("computer", 10, "Number of computer awareness questions")
	syllabusCmd.Flags().Int64("seed", 0, "Seed for reproducible output")
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdfquiz/backend/internal/config"
	"github.com/pdfquiz/backend/internal/database"
	"github.com/pdfquiz/backend/internal/documents"
	"github.com/pdfquiz/backend/internal/middleware"
	"github.com/pdfquiz/backend/internal/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract and clean the text of a PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		mode, _ := cmd.Flags().GetString("ocr")
		if !models.ValidOCRModes[models.OCRMode(mode)] {
			return fmt.Errorf("--ocr must be auto, force, or off")
		}

		ext, err := documents.NewPopplerExtractor(config.Load().OCRLang).
			Extract(cmd.Context(), path, models.OCRMode(mode), nil)
		if err != nil {
			return err
		}
		fmt.Printf("Title: %s\nPages: %d\nOCR: %t\n\n%s\n", ext.Title, ext.Pages, ext.UsedOCR, ext.Text)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(config.Load().Database)
		if err != nil {
			return err
		}
		defer db.Close()
		return database.Migrate(db)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed bearer token for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user-id")
		username, _ := cmd.Flags().GetString("username")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if userID <= 0 {
			return fmt.Errorf("--user-id must be positive")
		}

		token, err := middleware.IssueToken([]byte(config.Load().JWTSecret), userID, username, ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	extractCmd.Flags().String("file", "", "Path to a PDF")
	extractCmd.Flags().String("ocr", string(models.OCRAuto), "OCR mode: auto, force, or off")
	extractCmd.MarkFlagRequired("file")

	tokenCmd.Flags().Int64("user-id", 0, "Subject user id")
	tokenCmd.Flags().String("username", "", "Username claim")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
}

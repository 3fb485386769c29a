package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rahulvenkat/docchat/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF document for question answering",
	Long: `Upload a PDF document to the backend for processing.

On success the document ID is printed; pass it to 'docchat ask --doc' or
select it inside 'docchat chat' to scope questions to the document.

Examples:
  docchat upload ./course-notes.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	controller := upload.NewController(apiClient, logger)

	fmt.Printf("Uploading %s...\n", filepath.Base(path))
	record, err := controller.Submit(ctx, filepath.Base(path), file)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	fmt.Printf("\n%s\n", record.Message)
	fmt.Printf("  Document ID:    %s\n", record.DocumentID)
	fmt.Printf("  Status:         %s\n", record.Status)
	fmt.Printf("  Chunks created: %d\n", record.ChunksCreated)
	fmt.Printf("  Processing:     %.0f ms\n", record.ProcessingTimeMs)
	return nil
}

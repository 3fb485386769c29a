package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rahulvenkat/docchat/internal/docs"
)

var deleteForce bool

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List or delete uploaded documents",
	Long: `Manage documents uploaded to the backend.

Subcommands:
  list    List uploaded documents (default)
  delete  Delete a document and its chunks

Examples:
  docchat docs
  docchat docs delete 6650f2a91b...
  docchat docs delete 6650f2a91b... --force`,
	RunE: runDocsList,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	RunE:  runDocsList,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDelete,
}

func init() {
	docsDeleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsDeleteCmd)
}

func runDocsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	controller := docs.NewController(apiClient, logger)
	if err := controller.Refresh(ctx); err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	documents := controller.Documents()
	if len(documents) == 0 {
		fmt.Println("No documents uploaded.")
		return nil
	}

	fmt.Printf("Documents (%d):\n\n", len(documents))
	for _, d := range documents {
		fmt.Printf("- %s [%s]\n", d.Filename, d.Status)
		fmt.Printf("  ID: %s\n", d.DocumentID)
		if verbose {
			fmt.Printf("  Pages: %d/%d extracted, %d characters, %d bytes\n",
				d.ExtractedPages, d.TotalPages, d.TotalCharacters, d.FileSize)
			fmt.Printf("  Uploaded: %s\n", d.UploadedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	documentID := args[0]
	ctx := context.Background()

	controller := docs.NewController(apiClient, logger)

	if !deleteForce {
		fmt.Printf("About to delete document %s and all its chunks.\n", documentID)
		fmt.Print("\nContinue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))

		if response != "y" && response != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := controller.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	fmt.Printf("Deleted: %s\n", documentID)
	return nil
}

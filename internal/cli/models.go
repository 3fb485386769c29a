package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the backend's model configuration",
	RunE:  runModels,
}

func runModels(cmd *cobra.Command, args []string) error {
	info, err := apiClient.ModelInfo(context.Background())
	if err != nil {
		return fmt.Errorf("get model info: %w", err)
	}

	fmt.Printf("Chat model:      %s\n", info.ChatModel)
	fmt.Printf("Embedding model: %s\n", info.EmbeddingModel)
	fmt.Printf("Provider:        %s\n", info.Provider)
	fmt.Printf("Cost:            %s\n", info.Cost)
	if len(info.Features) > 0 {
		fmt.Println("Features:")
		for _, f := range info.Features {
			fmt.Printf("  - %s\n", f)
		}
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rahulvenkat/docchat/internal/chat"
	"github.com/rahulvenkat/docchat/internal/citations"
	"github.com/rahulvenkat/docchat/internal/lang"
	"github.com/rahulvenkat/docchat/internal/models"
)

var (
	askDoc        string
	askLang       string
	askAllSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and print the answer",
	Long: `Ask a single question and print the answer with its citations.

Without --doc the question goes to the general chat endpoint; with --doc it
is scoped to that uploaded document. Use --lang to also print the answer
translated to Hindi or Tamil.

Examples:
  docchat ask "What is a B-tree?"
  docchat ask "What is my AWS score?" --doc 6650f2...
  docchat ask "Fees kitni hai?" --lang hi
  docchat ask "Explain chapter 3" --doc 6650f2... --all-sources`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askDoc, "doc", "", "document ID to scope the question to")
	askCmd.Flags().StringVar(&askLang, "lang", "", "also print the answer translated to this language (hi, ta)")
	askCmd.Flags().BoolVar(&askAllSources, "all-sources", false, "print every citation instead of the top 3")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx := context.Background()

	if askLang != "" && askLang != "hi" && askLang != "ta" {
		return fmt.Errorf("unsupported language %q (supported: hi, ta)", askLang)
	}

	store := chat.NewStore()
	controller := chat.NewController(store, apiClient, logger)
	if askDoc != "" {
		controller.SetActiveDocument(askDoc)
	}

	logger.Debug("question language", "detected", lang.Detect(question))

	answer, err := controller.Send(ctx, question)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyInput) {
			return fmt.Errorf("question is empty")
		}
		return fmt.Errorf("%s", chat.SendError)
	}

	fmt.Println(answer.Content)

	if askLang != "" {
		translations := chat.NewTranslationCache(store, apiClient, logger)
		translated, err := translations.Get(ctx, answer.ID, askLang)
		if err == nil {
			fmt.Printf("\n[%s]\n%s\n", lang.Name(lang.Code(askLang)), translated)
		}
		// Translation failures fall back silently to the original answer.
	}

	printCitations(answer.Citations, askAllSources)

	if verbose {
		printUsage(answer)
	}

	return nil
}

// printCitations renders the source panel view of an answer's citations.
func printCitations(list []models.Citation, showAll bool) {
	if len(list) == 0 {
		return
	}

	visible := citations.Visible(list, showAll)
	fmt.Printf("\nSources (%d):\n", len(list))
	for i, c := range visible {
		line := fmt.Sprintf("  %d. %s", i+1, c.DisplayTitle())
		if c.PageNumber != nil {
			line += fmt.Sprintf(", page %d", *c.PageNumber)
		}
		if v, ok := citations.Confidence(c); ok {
			line += fmt.Sprintf(" [%s, %s]", citations.Label(v), citations.Percent(v))
		}
		fmt.Println(line)
	}
	if !showAll && citations.HasMore(list) {
		fmt.Printf("  ... and %d more (use --all-sources)\n", len(list)-citations.PanelLimit)
	}
}

// printUsage renders the token and latency stats of an answer.
func printUsage(answer *models.Message) {
	fmt.Println()
	if answer.Usage != nil {
		fmt.Printf("Tokens: %d prompt + %d completion = %d total\n",
			answer.Usage.PromptTokens, answer.Usage.CompletionTokens, answer.Usage.TotalTokens)
	}
	fmt.Printf("Latency: %.0f ms\n", answer.LatencyMs)
	if answer.Cost != "" {
		fmt.Printf("Cost: %s\n", answer.Cost)
	}
	fmt.Printf("Answer ID: %s\n", answer.AnswerID)
}

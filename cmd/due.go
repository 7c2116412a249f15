package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Solesoul2/flashcard2/internal/models"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show flashcards due for review",
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := openStore()
		if !ok {
			return
		}
		defer store.Close()

		now := time.Now()
		var cards []models.Flashcard
		var err error
		if folderID, set := folderSelection(cmd); set {
			cards, err = store.GetDueFlashcards(folderID, now)
		} else {
			cards, err = store.ListFlashcards(true, now)
		}
		if err != nil {
			fmt.Println("❌ Error listing due flashcards:", err)
			return
		}

		if len(cards) == 0 {
			fmt.Println("✅ No flashcards due right now! Good job.")
			return
		}

		folders, err := store.ListFolders()
		if err != nil {
			fmt.Println("❌ Error listing folders:", err)
			return
		}

		fmt.Printf("🔥 %d flashcards due:\n\n", len(cards))
		printCards(cards, folders)
	},
}

func init() {
	rootCmd.AddCommand(dueCmd)
	dueCmd.Flags().Int64P("folder", "f", 0, "only cards in this folder ID")
	dueCmd.Flags().Bool("uncategorized", false, "only cards without a folder")
	dueCmd.MarkFlagsMutuallyExclusive("folder", "uncategorized")
}

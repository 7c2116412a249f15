package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Solesoul2/flashcard2/internal/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List flashcards",
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := openStore()
		if !ok {
			return
		}
		defer store.Close()

		var cards []models.Flashcard
		var err error
		if folderID, set := folderSelection(cmd); set {
			cards, err = store.GetFlashcards(folderID)
		} else {
			cards, err = store.ListFlashcards(false, time.Now())
		}
		if err != nil {
			fmt.Println("❌ Error listing flashcards:", err)
			return
		}

		folders, err := store.ListFolders()
		if err != nil {
			fmt.Println("❌ Error listing folders:", err)
			return
		}

		if len(cards) == 0 {
			fmt.Println("📭 No flashcards yet. Add one with `flashcard2 add`.")
			return
		}
		printCards(cards, folders)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Int64P("folder", "f", 0, "only cards in this folder ID")
	listCmd.Flags().Bool("uncategorized", false, "only cards without a folder")
	listCmd.MarkFlagsMutuallyExclusive("folder", "uncategorized")
}

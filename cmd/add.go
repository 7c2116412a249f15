package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Solesoul2/flashcard2/internal/algorithm"
	"github.com/Solesoul2/flashcard2/internal/answer"
	"github.com/Solesoul2/flashcard2/internal/models"
)

var addFolder int64

var addCmd = &cobra.Command{
	Use:   "add [question] [answer]",
	Short: "Add a new flashcard",
	Long: `Add a new flashcard. Answer lines starting with "* " become checklist
items. Pass "-" as the answer to read it from stdin.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		text, err := readAnswer(args[1])
		if err != nil {
			fmt.Println("❌ Error reading answer:", err)
			return
		}

		store, ok := openStore()
		if !ok {
			return
		}
		defer store.Close()

		card := models.Flashcard{Question: args[0], Answer: text}
		if cmd.Flags().Changed("folder") {
			if _, err := store.GetFolder(addFolder); err != nil {
				fmt.Println("❌ Folder not found:", err)
				return
			}
			card.FolderID = &addFolder
		}

		// New cards stay unscheduled until their first rating.
		card = algorithm.InitFlashcard(card)

		id, err := store.AddFlashcard(card)
		if err != nil {
			fmt.Println("❌ Error adding flashcard:", err)
			return
		}

		items := len(answer.Parse(text).Checklist)
		fmt.Printf("✅ Added card %d (%d checklist items)\n", id, items)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().Int64VarP(&addFolder, "folder", "f", 0, "folder ID (default uncategorized)")
}

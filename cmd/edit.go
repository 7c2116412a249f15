package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	editQuestion      string
	editAnswer        string
	editFolder        int64
	editUncategorized bool
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a flashcard's question, answer or folder",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, ok := parseID(args[0])
		if !ok {
			return
		}

		store, ok := openStore()
		if !ok {
			return
		}
		defer store.Close()

		target, err := store.GetFlashcard(id)
		if err != nil {
			fmt.Println("❌ Flashcard not found:", err)
			return
		}

		answerChanged := false
		if cmd.Flags().Changed("question") {
			target.Question = editQuestion
		}
		if cmd.Flags().Changed("answer") {
			text, err := readAnswer(editAnswer)
			if err != nil {
				fmt.Println("❌ Error reading answer:", err)
				return
			}
			answerChanged = text != target.Answer
			target.Answer = text
		}
		if folderID, set := folderSelection(cmd); set {
			if folderID != nil {
				if _, err := store.GetFolder(*folderID); err != nil {
					fmt.Println("❌ Folder not found:", err)
					return
				}
			}
			target.FolderID = folderID
		}

		if err := store.UpdateFlashcardContent(*target); err != nil {
			fmt.Println("❌ Error updating flashcard:", err)
			return
		}
		// Saved check marks are keyed by item position and no longer line up.
		if answerChanged {
			if err := store.ClearChecklistState(id); err != nil {
				fmt.Println("⚠️  Could not reset checklist:", err)
			}
		}

		fmt.Println("✅ Flashcard updated successfully!")
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editQuestion, "question", "", "New question")
	editCmd.Flags().StringVar(&editAnswer, "answer", "", `New answer ("-" reads stdin)`)
	editCmd.Flags().Int64Var(&editFolder, "folder", 0, "Move to folder ID")
	editCmd.Flags().BoolVar(&editUncategorized, "uncategorized", false, "Move out of any folder")
	editCmd.MarkFlagsMutuallyExclusive("folder", "uncategorized")
}

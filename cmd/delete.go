package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var forceDelete bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a flashcard",
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

		if !forceDelete {
			fmt.Printf("⚠️  Are you sure you want to delete flashcard %d? (y/N): ", id)
			reader := bufio.NewReader(os.Stdin)
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))
			if input != "y" && input != "yes" {
				fmt.Println("❌ Cancelled.")
				return
			}
		}

		if err := store.DeleteFlashcard(id); err != nil {
			fmt.Println("❌ Error deleting flashcard:", err)
			return
		}

		fmt.Println("✅ Flashcard deleted.")
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Skip confirmation")
}

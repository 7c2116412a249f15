package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show flashcard statistics",
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := openStore()
		if !ok {
			return
		}
		defer store.Close()

		cards, err := store.ListFlashcards(false, time.Now())
		if err != nil {
			fmt.Println("❌ Error fetching flashcards:", err)
			return
		}

		now := time.Now()
		total := len(cards)
		due, unseen, learning, mastered := 0, 0, 0, 0
		for _, c := range cards {
			switch {
			case c.IsNew():
				unseen++
				continue
			case c.Interval > 30:
				mastered++
			case c.Interval < 7:
				learning++
			}
			if !c.NextReview.After(now) {
				due++
			}
		}

		fmt.Println("📊 Statistics")
		fmt.Println("-------------")
		fmt.Printf("Total Cards:     %d\n", total)
		fmt.Printf("Due Now:         %d\n", due)
		fmt.Printf("Never Studied:   %d\n", unseen)
		fmt.Printf("Learning (<7d):  %d\n", learning)
		fmt.Printf("Mastered (>30d): %d\n", mastered)
		fmt.Printf("In Progress:     %d\n", total-unseen-learning-mastered)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

package cmd

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Solesoul2/flashcard2/internal/answer"
	"github.com/Solesoul2/flashcard2/internal/models"
)

var showHTML bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a flashcard with its checklist state",
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

		card, err := store.GetFlashcard(id)
		if err != nil {
			fmt.Println("❌ Flashcard not found:", err)
			return
		}
		saved, err := store.LoadChecklistState(id)
		if err != nil {
			fmt.Println("⚠️  Could not load checklist state:", err)
		}

		parsed := answer.Parse(card.Answer)
		items := answer.ApplyPersistedState(parsed.Checklist, saved)

		if showHTML {
			html, err := answer.RenderHTML(parsed.Lines, items)
			if err != nil {
				fmt.Println("❌ Error rendering answer:", err)
				return
			}
			fmt.Println(html)
			return
		}

		path, err := store.GetFolderPath(card.FolderID)
		if err != nil {
			fmt.Println("⚠️  Could not resolve folder:", err)
		}

		fmt.Println("========================================")
		fmt.Printf("Card %d  [%s]\n", card.ID, formatPath(path))
		fmt.Printf("Q: %s\n", card.Question)
		fmt.Println("========================================")
		printAnswer(answer.VisibleLines(parsed.Lines, renderOptions()), items)
		fmt.Println("----------------------------------------")
		fmt.Printf("EF %.2f | interval %dd | reps %d | next %s\n",
			card.EasinessFactor, card.Interval, card.Repetitions, formatNext(card.NextReview))

		last, err := store.GetLastReview(id)
		switch {
		case errors.Is(err, models.ErrNotFound):
			fmt.Println("Last review: never")
		case err != nil:
			fmt.Println("⚠️  Could not load last review:", err)
		default:
			fmt.Printf("Last review: quality %d on %s\n", last.Quality, last.ReviewedAt.Local().Format(time.DateTime))
		}
	},
}

func renderOptions() answer.RenderOptions {
	return answer.RenderOptions{HideUnmarkedText: instanceProfile.HideUnmarkedText}
}

// printAnswer writes lines in source order. Checklist lines show their
// originalIndex, the number the review loop toggles by.
func printAnswer(lines []answer.Line, items []answer.ChecklistItem) {
	checked := answer.StateMap(items)
	for _, l := range lines {
		if !l.IsChecklist() {
			fmt.Println("  " + l.Text)
			continue
		}
		mark := " "
		if checked[l.ChecklistIndex] {
			mark = "x"
		}
		fmt.Printf("  [%s] %d. %s\n", mark, l.ChecklistIndex, l.Text)
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showHTML, "html", false, "render the answer as sanitized HTML")
}

package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Solesoul2/flashcard2/internal/answer"
	"github.com/Solesoul2/flashcard2/internal/db"
	"github.com/Solesoul2/flashcard2/internal/study"
)

const reviewHelp = `Commands:
  <enter>  show / hide answer      <n>  toggle checklist item n
  r        rate and continue       k    skip card
  n / p    next / previous card    e    edit answer
  d        delete card             q    quit`

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Start a review session",
	Long: `Start a review session over one folder (uncategorized cards by default).
Cards that are due come first; if nothing is due every card in the folder is
queued. Check off the answer's checklist items you recalled, then rate: the
share of checked items decides the SM-2 quality.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := openStore()
		if !ok {
			return
		}
		defer store.Close()

		folderID, _ := folderSelection(cmd)
		session := study.NewSession(store, store, study.Options{
			Logger: slog.Default(),
			Render: renderOptions(),
		})

		snap, err := session.Start(folderID)
		if err != nil {
			fmt.Println("❌ Error starting session:", err)
			return
		}
		if snap.Complete() {
			fmt.Println("✅ No flashcards to review here!")
			return
		}

		r := &reviewer{store: store, session: session, in: bufio.NewReader(os.Stdin)}
		r.run(snap)
	},
}

type reviewer struct {
	store   *db.Store
	session *study.Session
	in      *bufio.Reader
}

func (r *reviewer) prompt(label string) (string, bool) {
	fmt.Print(label)
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (r *reviewer) run(snap study.Snapshot) {
	fmt.Println(reviewHelp)
	for !snap.Complete() {
		printCard(snap)

		input, ok := r.prompt("> ")
		if !ok {
			return
		}

		switch input {
		case "":
			snap = r.session.ToggleAnswerVisibility()
		case "r":
			ratedID := snap.Current.Card.ID
			next, err := r.session.RateCard()
			if err != nil {
				fmt.Println("❌ Error rating card:", err)
				continue
			}
			printRating(next, ratedID)
			snap = next
		case "k":
			snap = r.session.SkipCard()
		case "n":
			snap = r.session.GoTo(snap.CurrentIndex + 1)
		case "p":
			snap = r.session.GoTo(snap.CurrentIndex - 1)
		case "e":
			snap = r.editAnswer(snap)
		case "d":
			if confirm, _ := r.prompt("⚠️  Delete this card? (y/N): "); strings.EqualFold(confirm, "y") {
				snap = r.session.DeleteCard(snap.Current.Card.ID)
				fmt.Println("✅ Flashcard deleted.")
			}
		case "q":
			fmt.Printf("👋 Stopped with %d cards left.\n", snap.Count())
			return
		case "?", "h":
			fmt.Println(reviewHelp)
		default:
			idx, err := strconv.Atoi(input)
			if err != nil {
				fmt.Println("⚠️  Unknown command, ? for help.")
				continue
			}
			if !snap.Current.AnswerShown {
				snap = r.session.ToggleAnswerVisibility()
			}
			snap = r.session.HandleChecklistChanged(idx, !isChecked(snap.Current.Checklist, idx))
		}
	}

	if snap.Err != nil {
		fmt.Println("❌ Session ended early:", snap.Err)
		return
	}
	fmt.Println("\n🎉 Review session complete!")
}

func (r *reviewer) editAnswer(snap study.Snapshot) study.Snapshot {
	card := snap.Current.Card
	if card.ID == 0 {
		fmt.Println("⚠️  This card is not saved yet.")
		return snap
	}

	fmt.Println(`Enter the new answer, finish with a line containing only "."`)
	var lines []string
	for {
		line, err := r.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "." || (err != nil && line == "") {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		fmt.Println("❌ Cancelled.")
		return snap
	}

	card.Answer = strings.Join(lines, "\n")
	if err := r.store.UpdateFlashcardContent(card); err != nil {
		fmt.Println("❌ Error updating flashcard:", err)
		return snap
	}
	if err := r.store.ClearChecklistState(card.ID); err != nil {
		fmt.Println("⚠️  Could not reset checklist:", err)
	}

	next, err := r.session.RefreshSingleCard(card.ID)
	if err != nil {
		fmt.Println("❌ Error reloading card:", err)
		return snap
	}
	fmt.Println("✅ Answer updated.")
	return next
}

func isChecked(items []answer.ChecklistItem, originalIndex int) bool {
	for _, item := range items {
		if item.OriginalIndex == originalIndex {
			return item.Checked
		}
	}
	return false
}

func printCard(snap study.Snapshot) {
	cur := snap.Current
	if cur == nil {
		return
	}

	fmt.Println("\n========================================")
	fmt.Printf("[%d/%d] %s\n", snap.Position(), snap.Count(), formatPath(snap.FolderPath))
	fmt.Printf("Q: %s\n", cur.Card.Question)
	fmt.Println("========================================")
	if !cur.AnswerShown {
		fmt.Println("  (answer hidden, press enter)")
		return
	}
	printAnswer(cur.Visible, cur.Checklist)

	status := "not rated"
	if answer.IsRated(cur.Checklist) {
		status = fmt.Sprintf("%d/%d checked", answer.CheckedCount(cur.Checklist), len(cur.Checklist))
	}
	last := "never rated"
	if snap.LastRatingQuality != nil {
		last = fmt.Sprintf("last quality %d", *snap.LastRatingQuality)
	}
	fmt.Printf("  %s (%s) | %s\n", status, snap.LiveColor.Hex(), last)
}

func printRating(snap study.Snapshot, cardID int64) {
	res := snap.LastRating
	if res == nil || res.CardID != cardID {
		fmt.Println("⚠️  Card was not saved, skipped.")
		return
	}
	if !res.Persisted {
		fmt.Printf("⚠️  Rated %d but the review could not be saved.\n", res.Quality)
		return
	}
	fmt.Printf("✅ Rated %d. Next review in %d days.\n", res.Quality, res.Schedule.Interval)
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().Int64P("folder", "f", 0, "folder ID to review")
	reviewCmd.Flags().Bool("uncategorized", false, "review cards without a folder (default)")
	reviewCmd.MarkFlagsMutuallyExclusive("folder", "uncategorized")
}

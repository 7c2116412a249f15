package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Solesoul2/flashcard2/internal/models"
)

func parseID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fmt.Println("❌ Invalid ID:", arg)
		return 0, false
	}
	return id, true
}

// folderSelection reads --folder and --uncategorized. ok is false when
// neither was given.
func folderSelection(cmd *cobra.Command) (folderID *int64, ok bool) {
	if cmd.Flags().Changed("folder") {
		id, _ := cmd.Flags().GetInt64("folder")
		return &id, true
	}
	if uncategorized, _ := cmd.Flags().GetBool("uncategorized"); uncategorized {
		return nil, true
	}
	return nil, false
}

// readAnswer returns arg, or all of stdin when arg is "-".
func readAnswer(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func formatNext(t *time.Time) string {
	if t == nil {
		return "new"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func folderName(id *int64, names map[int64]string) string {
	if id == nil {
		return "-"
	}
	if name, ok := names[*id]; ok {
		return name
	}
	return strconv.FormatInt(*id, 10)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printCards(cards []models.Flashcard, folders []models.Folder) {
	names := make(map[int64]string, len(folders))
	for _, f := range folders {
		names[f.ID] = f.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQuestion\tFolder\tReps\tInterval\tEF\tNext Review")
	fmt.Fprintln(w, "--\t--------\t------\t----\t--------\t--\t-----------")
	for _, c := range cards {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%dd\t%.2f\t%s\n",
			c.ID, truncate(c.Question, 40), folderName(c.FolderID, names),
			c.Repetitions, c.Interval, c.EasinessFactor, formatNext(c.NextReview))
	}
	w.Flush()
}

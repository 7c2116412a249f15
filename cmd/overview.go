package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Solesoul2/flashcard2/internal/algorithm"
	"github.com/Solesoul2/flashcard2/internal/answer"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show overview of review history",
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := openStore()
		if !ok {
			return
		}
		defer store.Close()

		stats, err := store.GetReviewStats(time.Now())
		if err != nil {
			fmt.Println("❌ Error fetching stats:", err)
			return
		}

		fmt.Println("\n📊 Performance Overview")
		fmt.Println("=======================")
		fmt.Printf("Total Reviews:      %d\n", stats.TotalReviews)
		fmt.Printf("Reviews Last 7D:    %d\n", stats.ReviewsLast7Days)
		fmt.Printf("Average Quality:    %.2f\n", stats.AverageQuality)

		fmt.Println("\n📈 Reviews by Quality (0-5)")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Quality\tColor\tCount")
		fmt.Fprintln(w, "-------\t-----\t-----")

		for q := algorithm.MinQuality; q <= algorithm.MaxQuality; q++ {
			count := stats.CountByQuality[q]
			color := answer.GradientColor(float64(q) / float64(algorithm.MaxQuality))
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", q, color.Hex(), count, strings.Repeat("█", count))
		}
		w.Flush()
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

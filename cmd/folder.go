package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Solesoul2/flashcard2/internal/models"
)

var folderParent int64

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
}

var folderAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := openStore()
		if !ok {
			return
		}
		defer store.Close()

		var parentID *int64
		if cmd.Flags().Changed("parent") {
			parentID = &folderParent
		}

		id, err := store.AddFolder(args[0], parentID)
		if err != nil {
			fmt.Println("❌ Error adding folder:", err)
			return
		}
		fmt.Printf("✅ Added folder %d\n", id)
	},
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := openStore()
		if !ok {
			return
		}
		defer store.Close()

		folders, err := store.ListFolders()
		if err != nil {
			fmt.Println("❌ Error listing folders:", err)
			return
		}
		if len(folders) == 0 {
			fmt.Println("📭 No folders yet.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFolder\tParent")
		fmt.Fprintln(w, "--\t------\t------")
		for _, f := range folders {
			parent := "-"
			if f.ParentID != nil {
				parent = fmt.Sprint(*f.ParentID)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", f.ID, f.Name, parent)
		}
		w.Flush()
	},
}

var folderPathCmd = &cobra.Command{
	Use:   "path [id]",
	Short: "Show a folder's path from the root",
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

		path, err := store.GetFolderPath(&id)
		if err != nil {
			fmt.Println("❌ Error resolving folder:", err)
			return
		}
		fmt.Println(formatPath(path))
	},
}

func formatPath(path []models.Folder) string {
	if len(path) == 0 {
		return "Uncategorized"
	}
	names := make([]string, len(path))
	for i, f := range path {
		names[i] = f.Name
	}
	return strings.Join(names, " / ")
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderAddCmd, folderListCmd, folderPathCmd)
	folderAddCmd.Flags().Int64VarP(&folderParent, "parent", "p", 0, "parent folder ID")
}

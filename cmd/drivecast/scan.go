package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drake/drivecast/internal/catalog"
	"github.com/drake/drivecast/internal/domain"
	"github.com/drake/drivecast/internal/search"
)

var scanCmd = &cobra.Command{
	Use:   "scan <folder-id>",
	Short: "Flatten every video under a folder into a catalog listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sortBy, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")
		substr, _ := cmd.Flags().GetString("search")
		typeFilter, _ := cmd.Flags().GetString("type")
		fuzzyQuery, _ := cmd.Flags().GetString("fuzzy")
		favoritesOnly, _ := cmd.Flags().GetBool("favorites")

		sess, browser, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		browser.SelectRoot(domain.MediaFile{ID: args[0], Kind: domain.KindFolder})
		if _, err := browser.ScanCurrent(); err != nil {
			return err
		}

		if fuzzyQuery != "" {
			matches := search.Find(fuzzyQuery, browser.Catalog())
			if len(matches) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, m := range matches {
				fmt.Printf("  %s  %s\n", m.File.ID, m.File.Name)
			}
			return nil
		}

		q := catalog.Query{
			Tab:        catalog.TabAll,
			Search:     substr,
			TypeFilter: typeFilter,
			SortBy:     catalog.SortKey(sortBy),
			Descending: desc,
		}
		if favoritesOnly {
			q.Tab = catalog.TabFavorites
		}

		view := browser.View(q)
		if len(view) == 0 {
			fmt.Println("No videos found.")
			return nil
		}

		snap := sess.Library().Snapshot()
		for _, f := range view {
			marker := " "
			if snap.IsFavorite(f.ID) {
				marker = "*"
			}
			progress := ""
			if p := snap.ProgressFor(f.ID); p.Percent() > 0 {
				progress = fmt.Sprintf("  %d%%", p.Percent())
			}
			fmt.Printf("%s %s  %s  (%s, %s)%s\n",
				marker, f.ID, f.Name, f.FormattedSize(), f.FormattedModified(), progress)
		}

		if types := catalog.Subtypes(view); len(types) > 1 {
			fmt.Printf("\nTypes: %v\n", types)
		}
		return nil
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <archive-id>",
	Short: "Expand a zip archive into playable entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, browser, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		archive := domain.MediaFile{ID: args[0], Kind: domain.KindArchive}
		entries, err := browser.ExtractArchive(archive)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("  %s  %s  (%s)\n", e.ID, e.Name, e.FormattedSize())
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().String("sort", string(catalog.SortName), "sort key: name, size, type, modified, watched, progress")
	scanCmd.Flags().Bool("desc", false, "sort descending")
	scanCmd.Flags().String("search", "", "substring filter on names")
	scanCmd.Flags().String("type", "", "content-type filter (e.g. mp4)")
	scanCmd.Flags().String("fuzzy", "", "ranked fuzzy search instead of the filtered view")
	scanCmd.Flags().Bool("favorites", false, "only favorites")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(extractCmd)
}

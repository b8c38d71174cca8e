package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drake/drivecast/internal/catalog"
	"github.com/drake/drivecast/internal/domain"
	"github.com/drake/drivecast/internal/tracker"
)

var watchCmd = &cobra.Command{
	Use:   "watch <folder-id> <file-id>",
	Short: "Select a video from a folder's catalog and record progress",
	Long: `Scan the folder, select the video, and print its playback URLs along
with the up-next neighbors in the current sort order.

With --done or --percent the progress record is written directly instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		done, _ := cmd.Flags().GetBool("done")
		percent, _ := cmd.Flags().GetFloat64("percent")

		sess, browser, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		browser.SelectRoot(domain.MediaFile{ID: args[0], Kind: domain.KindFolder})
		if _, err := browser.ScanCurrent(); err != nil {
			return err
		}

		var file domain.MediaFile
		found := false
		for _, f := range browser.Catalog() {
			if f.ID == args[1] {
				file, found = f, true
				break
			}
		}
		if !found {
			return fmt.Errorf("video %s not found under folder %s", args[1], args[0])
		}

		sel, err := browser.Select(file)
		if err != nil {
			return err
		}

		track := sess.Tracker()
		switch {
		case done:
			track.MarkWatched(file)
			fmt.Printf("Marked %s as watched.\n", file.Name)
			return nil
		case percent > 0:
			track.SetPercent(file, percent)
			fmt.Printf("Progress for %s set to %.0f%%.\n", file.Name, percent)
			return nil
		}

		track.Start(file, tracker.ModeEstimated)
		defer track.Stop()

		fmt.Printf("%s\n", file.Name)
		if sel.BlobHandle != "" {
			fmt.Printf("  extracted entry, payload handle: %s\n", sel.BlobHandle)
		} else {
			fmt.Printf("  stream: %s\n", sel.StreamURL)
			fmt.Printf("  embed:  %s\n", sel.EmbedURL)
		}
		fmt.Printf("  estimated duration: %.0fs\n", tracker.EstimateDuration(file.Name))

		view := browser.View(catalog.Query{Tab: catalog.TabAll, SortBy: catalog.SortName})
		if next := catalog.NextAfter(view, file.ID); next != nil && next.ID != file.ID {
			fmt.Printf("  next:     %s\n", next.Name)
		}
		if prev := catalog.PreviousBefore(view, file.ID); prev != nil && prev.ID != file.ID {
			fmt.Printf("  previous: %s\n", prev.Name)
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().Bool("done", false, "mark as fully watched")
	watchCmd.Flags().Float64("percent", 0, "set progress to a percentage")

	rootCmd.AddCommand(watchCmd)
}

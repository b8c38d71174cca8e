package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drake/drivecast/internal/domain"
)

var browseCmd = &cobra.Command{
	Use:   "browse [folder-id]",
	Short: "List the folders and media in one folder",
	Long: `List the immediate children of a remote folder.

Without an argument the folders shared with the account are listed, so
their ids can be used as browse or scan targets.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, browser, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		if len(args) == 0 {
			roots, err := browser.Roots()
			if err != nil {
				return err
			}
			if len(roots) == 0 {
				fmt.Println("No shared folders found.")
				return nil
			}
			fmt.Println("Shared folders:")
			for _, r := range roots {
				fmt.Printf("  %s  %s\n", r.ID, r.Name)
			}
			return nil
		}

		folder := domain.MediaFile{ID: args[0], Kind: domain.KindFolder}
		listing, err := browser.NavigateTo(folder)
		if errors.Is(err, domain.ErrEmptyFolder) {
			fmt.Println("Folder contains no media.")
			return nil
		}
		if err != nil {
			return err
		}

		for _, f := range listing.Folders {
			fmt.Printf("  %s  %s/\n", f.ID, f.Name)
		}
		for _, f := range listing.Files {
			fmt.Printf("  %s  %s  (%s, %s)\n", f.ID, f.Name, f.Kind, f.FormattedSize())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

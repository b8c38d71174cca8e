package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drake/drivecast/internal/domain"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently watched items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		history := lib.History()
		if len(history) == 0 {
			fmt.Println("Nothing watched yet.")
			return nil
		}
		if len(history) > domain.RecentWindow {
			history = history[:domain.RecentWindow]
		}
		for _, e := range history {
			p := lib.ProgressFor(e.File.ID)
			fmt.Printf("  %s  %s  %d%%  (%s)\n",
				e.File.ID, e.File.Name, p.Percent(), e.WatchedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites [file-id]",
	Short: "List favorites, or toggle one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		if len(args) == 1 {
			member, err := lib.ToggleFavorite(args[0])
			if err != nil {
				return err
			}
			if member {
				fmt.Println("Added to favorites.")
			} else {
				fmt.Println("Removed from favorites.")
			}
			return nil
		}

		snap := lib.Snapshot()
		if len(snap.Favorites) == 0 {
			fmt.Println("No favorites.")
			return nil
		}
		// History gives us a display name when the favorite was watched.
		names := make(map[string]string)
		for _, e := range snap.History {
			names[e.File.ID] = e.File.Name
		}
		for id := range snap.Favorites {
			if name, ok := names[id]; ok {
				fmt.Printf("  %s  %s\n", id, name)
			} else {
				fmt.Printf("  %s\n", id)
			}
		}
		return nil
	},
}

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Manage playlists",
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List playlists and their items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		playlists := lib.Playlists()
		if len(playlists) == 0 {
			fmt.Println("No playlists.")
			return nil
		}
		for _, pl := range playlists {
			fmt.Printf("%s  %s  (%d items)\n", pl.ID, pl.Name, len(pl.Files))
			for _, f := range pl.Files {
				fmt.Printf("    %s  %s\n", f.ID, f.Name)
			}
		}
		return nil
	},
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		pl, err := lib.CreatePlaylist(args[0])
		if err != nil {
			return err
		}
		if pl == nil {
			fmt.Println("Playlist name cannot be empty.")
			return nil
		}
		fmt.Printf("Created playlist %s (%s)\n", pl.Name, pl.ID)
		return nil
	},
}

var playlistAddCmd = &cobra.Command{
	Use:   "add <playlist-id> <file-id>",
	Short: "Add a file to a playlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		file := domain.MediaFile{ID: args[1], Name: name, Kind: domain.KindVideo}
		if name == "" {
			// Reuse the snapshot from history when the file was watched.
			for _, e := range lib.History() {
				if e.File.ID == args[1] {
					file = e.File
					break
				}
			}
		}

		err = lib.AddToPlaylist(file, args[0])
		if errors.Is(err, domain.ErrAlreadyInPlaylist) {
			fmt.Println("Already in playlist.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println("Added.")
		return nil
	},
}

var playlistRemoveCmd = &cobra.Command{
	Use:   "remove <playlist-id> <file-id>",
	Short: "Remove a file from a playlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		if err := lib.RemoveFromPlaylist(args[1], args[0]); err != nil {
			return err
		}
		fmt.Println("Removed.")
		return nil
	},
}

var playlistDeleteCmd = &cobra.Command{
	Use:   "delete <playlist-id>",
	Short: "Delete a playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		if err := lib.DeletePlaylist(args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	playlistAddCmd.Flags().String("name", "", "display name for the file")

	playlistCmd.AddCommand(playlistListCmd, playlistCreateCmd, playlistAddCmd, playlistRemoveCmd, playlistDeleteCmd)
	rootCmd.AddCommand(recentCmd, favoritesCmd, playlistCmd)
}

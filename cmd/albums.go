package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/internal/app"
	"github.com/spf13/cobra"
)

// albumsCmd 相册管理命令
var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "Manage albums",
}

var albumsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all albums",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		withStore(func(ctx context.Context, store *albums.Store) error {
			return runAlbumsList(ctx, cmd.OutOrStdout(), store, asJSON)
		})
	},
}

var albumsCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create an album, a default title is used when omitted",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		title := ""
		if len(args) == 1 {
			title = args[0]
		}
		withStore(func(ctx context.Context, store *albums.Store) error {
			return runAlbumsCreate(ctx, cmd.OutOrStdout(), store, title)
		})
	},
}

var albumsRenameCmd = &cobra.Command{
	Use:   "rename <albumId> <title>",
	Short: "Rename an album",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(ctx context.Context, store *albums.Store) error {
			return store.RenameAlbum(ctx, args[0], args[1])
		})
	},
}

var albumsDeleteCmd = &cobra.Command{
	Use:   "delete <albumId>",
	Short: "Delete an album together with its photos",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(ctx context.Context, store *albums.Store) error {
			return store.DeleteAlbum(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(albumsCmd)
	albumsCmd.AddCommand(albumsListCmd, albumsCreateCmd, albumsRenameCmd, albumsDeleteCmd)
	albumsListCmd.Flags().Bool("json", false, "Print albums as JSON")
}

// withContainer 初始化容器执行 fn，失败时退出
func withContainer(fn func(ctx context.Context, container *app.Container) error) {
	ctx := context.Background()
	container, err := openContainer(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = fn(ctx, container)
	_ = container.Close()
	if err != nil {
		log.Fatalf("Command failed: %v", err)
	}
}

// withStore 只需要相册存储的命令使用
func withStore(fn func(ctx context.Context, store *albums.Store) error) {
	withContainer(func(ctx context.Context, container *app.Container) error {
		return fn(ctx, container.GetStore())
	})
}

func runAlbumsList(ctx context.Context, w io.Writer, store *albums.Store, asJSON bool) error {
	list, err := store.ListAlbums(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(w, list)
	}
	printAlbums(w, list)
	return nil
}

func runAlbumsCreate(ctx context.Context, w io.Writer, store *albums.Store, title string) error {
	album, err := store.CreateAlbum(ctx, title)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Created album %s (%s)\n", album.ID, album.Title)
	return nil
}

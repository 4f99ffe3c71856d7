package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/internal/app"
	"github.com/anoixa/photo-album/internal/upload"
	"github.com/spf13/cobra"
)

// photosCmd 照片管理命令
var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "Manage photos inside an album",
}

var photosListCmd = &cobra.Command{
	Use:   "list <albumId>",
	Short: "List photos of an album",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query, _ := cmd.Flags().GetString("query")
		asJSON, _ := cmd.Flags().GetBool("json")
		withStore(func(ctx context.Context, store *albums.Store) error {
			return runPhotosList(ctx, cmd.OutOrStdout(), store, args[0], query, asJSON)
		})
	},
}

var photosAddCmd = &cobra.Command{
	Use:   "add <albumId>",
	Short: "Add a photo by URL",
	Long: `Add a photo that already has a URL.

Example:
  photo-album photos add 7f9c... --url https://example.com/a.jpg --title Sunset`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		url, _ := cmd.Flags().GetString("url")
		title, _ := cmd.Flags().GetString("title")
		withStore(func(ctx context.Context, store *albums.Store) error {
			photo, err := store.AddPhoto(ctx, args[0], title, url)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added photo %s\n", photo.ID)
			return nil
		})
	},
}

var photosUploadCmd = &cobra.Command{
	Use:   "upload <albumId> <file>...",
	Short: "Upload local image files into an album",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withContainer(func(ctx context.Context, container *app.Container) error {
			return runPhotosUpload(ctx, cmd.OutOrStdout(), container.GetUploader(), args[0], args[1:])
		})
	},
}

var photosViewCmd = &cobra.Command{
	Use:   "view <albumId> <photoId>",
	Short: "Show a photo with its neighbours",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(ctx context.Context, store *albums.Store) error {
			view, err := store.ViewPhoto(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		})
	},
}

var photosRenameCmd = &cobra.Command{
	Use:   "rename <albumId> <photoId> <title>",
	Short: "Rename a photo",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(ctx context.Context, store *albums.Store) error {
			return store.RenamePhoto(ctx, args[0], args[1], args[2])
		})
	},
}

var photosDeleteCmd = &cobra.Command{
	Use:   "delete <albumId> <photoId>",
	Short: "Delete a photo",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(ctx context.Context, store *albums.Store) error {
			return store.DeletePhoto(ctx, args[0], args[1])
		})
	},
}

func init() {
	rootCmd.AddCommand(photosCmd)
	photosCmd.AddCommand(photosListCmd, photosAddCmd, photosUploadCmd, photosViewCmd, photosRenameCmd, photosDeleteCmd)

	photosListCmd.Flags().StringP("query", "q", "", "Case-insensitive title filter")
	photosListCmd.Flags().Bool("json", false, "Print photos as JSON")

	photosAddCmd.Flags().String("url", "", "Photo URL (required)")
	photosAddCmd.Flags().String("title", "", "Photo title")
	_ = photosAddCmd.MarkFlagRequired("url")
}

func runPhotosList(ctx context.Context, w io.Writer, store *albums.Store, albumID, query string, asJSON bool) error {
	list, err := store.SearchPhotos(ctx, albumID, query)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(w, list)
	}
	printPhotos(w, list)
	return nil
}

// runPhotosUpload 上传本地文件，单个文件失败不影响其他文件
func runPhotosUpload(ctx context.Context, w io.Writer, uploader *upload.Service, albumID string, paths []string) error {
	files := make([]upload.File, 0, len(paths))
	for _, path := range paths {
		f, err := upload.FromPath(path)
		if err != nil {
			return fmt.Errorf("cannot upload %s: %w", path, err)
		}
		files = append(files, f)
	}

	results, err := uploader.UploadBatch(ctx, albumID, files)
	if err != nil {
		return err
	}

	var failed []error
	for _, r := range results {
		if r.Err() != nil {
			fmt.Fprintf(w, "  FAIL  %s: %s\n", r.FileName, r.Error)
			failed = append(failed, fmt.Errorf("%s: %w", r.FileName, r.Err()))
			continue
		}
		fmt.Fprintf(w, "  OK    %s -> %s\n", r.FileName, r.Photo.ID)
	}
	fmt.Fprintf(w, "\nUploaded %d of %d files (%s)\n", len(results)-len(failed), len(results), uploader.Mode())

	if len(failed) == len(results) {
		return errors.Join(failed...)
	}
	return nil
}

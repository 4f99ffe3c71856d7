package cmd

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/anoixa/photo-album/internal/albums"
	"github.com/spf13/cobra"
)

// maxArchiveEntrySize 单个归档条目的读取上限
const maxArchiveEntrySize = 512 << 20

// restoreCmd 相册还原命令
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore albums and photos from a backup archive",
	Long: `Restore the album store from a tar.gz archive created by the backup command.
Both collections are replaced; photo counts are recomputed from the photos.

Example:
  # Restore from backup file
  photo-album restore --input ./backups/backup_20260214_222320.tar.gz

  # Restore with dry-run (validate and preview only)
  photo-album restore --input ./backup.tar.gz --dry-run`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("input")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		withStore(func(ctx context.Context, store *albums.Store) error {
			return runRestore(ctx, cmd.OutOrStdout(), store, inputFile, dryRun)
		})
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().StringP("input", "i", "", "Input tar.gz backup file path (required)")
	restoreCmd.Flags().Bool("dry-run", false, "Preview restore without actually writing to the store")

	_ = restoreCmd.MarkFlagRequired("input")
}

// runRestore 执行还原
func runRestore(ctx context.Context, w io.Writer, store *albums.Store, inputFile string, dryRun bool) error {
	file, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = file.Close() }()

	metadata, snap, err := readArchive(file)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Backup from %s (format %s, backend %s)\n",
		metadata.Timestamp.Format("2006-01-02 15:04:05"), metadata.Version, metadata.Backend)
	fmt.Fprintf(w, "Albums: %d, Photos: %d\n", len(snap.Albums), len(snap.Photos))

	if dryRun {
		fmt.Fprintln(w, "Dry run: nothing written.")
		return nil
	}

	if err := store.Restore(ctx, snap); err != nil {
		return fmt.Errorf("failed to restore: %w", err)
	}
	log.Printf("Restore completed successfully into %s", store.Backend())
	fmt.Fprintln(w, "Restore completed.")
	return nil
}

// readArchive 读取备份归档中的元数据和两个集合
func readArchive(r io.Reader) (*backupMetadata, *albums.Snapshot, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = gzReader.Close() }()

	tarReader := tar.NewReader(gzReader)
	var (
		metadata *backupMetadata
		snap     = &albums.Snapshot{}
		seen     = make(map[string]bool)
	)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		var dest interface{}
		switch header.Name {
		case metadataEntry:
			metadata = &backupMetadata{}
			dest = metadata
		case albumsEntry:
			dest = &snap.Albums
		case photosEntry:
			dest = &snap.Photos
		default:
			continue
		}

		data, err := io.ReadAll(io.LimitReader(tarReader, maxArchiveEntrySize))
		if err != nil {
			return nil, nil, err
		}
		if err := json.Unmarshal(data, dest); err != nil {
			return nil, nil, fmt.Errorf("invalid %s: %w", header.Name, err)
		}
		seen[header.Name] = true
	}

	for _, name := range []string{metadataEntry, albumsEntry, photosEntry} {
		if !seen[name] {
			return nil, nil, fmt.Errorf("backup is missing %s", name)
		}
	}
	if metadata.Version != backupFormatVersion {
		return nil, nil, fmt.Errorf("unsupported backup format version: %s", metadata.Version)
	}
	if snap.Albums == nil {
		snap.Albums = []albums.Album{}
	}
	if snap.Photos == nil {
		snap.Photos = []albums.Photo{}
	}
	return metadata, snap, nil
}

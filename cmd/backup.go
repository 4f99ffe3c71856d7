package cmd

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anoixa/photo-album/config"
	"github.com/anoixa/photo-album/internal/albums"
	"github.com/spf13/cobra"
)

const (
	backupFormatVersion = "1.0"
	metadataEntry       = "metadata.json"
	albumsEntry         = "albums.json"
	photosEntry         = "photos.json"
)

// backupCmd 相册备份命令
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Backup albums and photos to a tar.gz archive",
	Long: `Backup both collections of the album store into a tar.gz archive.

Example:
  # Backup to default file (./backups/backup_YYYYMMDD_HHMMSS.tar.gz)
  photo-album backup

  # Backup to specific file
  photo-album backup --output ./my-backup.tar.gz`,
	Run: func(cmd *cobra.Command, args []string) {
		outputFile, _ := cmd.Flags().GetString("output")

		withStore(func(ctx context.Context, store *albums.Store) error {
			return runBackup(ctx, cmd.OutOrStdout(), store, outputFile)
		})
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringP("output", "o", "", "Output tar.gz file path (default: ./backups/backup_YYYYMMDD_HHMMSS.tar.gz)")
}

// backupMetadata 备份元数据
type backupMetadata struct {
	Version     string         `json:"version"`
	AppVersion  string         `json:"app_version"`
	Timestamp   time.Time      `json:"timestamp"`
	Backend     string         `json:"backend"`
	RecordCount map[string]int `json:"record_count"`
}

// runBackup 执行备份
func runBackup(ctx context.Context, w io.Writer, store *albums.Store, outputFile string) error {
	snap, err := store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	if outputFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputFile = filepath.Join("./backups", fmt.Sprintf("backup_%s.tar.gz", timestamp))
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	log.Printf("Starting backup to: %s", outputFile)

	metadata := &backupMetadata{
		Version:    backupFormatVersion,
		AppVersion: config.Version,
		Timestamp:  time.Now(),
		Backend:    store.Backend(),
		RecordCount: map[string]int{
			"albums": len(snap.Albums),
			"photos": len(snap.Photos),
		},
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	if err := writeArchive(file, metadata, snap); err != nil {
		_ = file.Close()
		_ = os.Remove(outputFile)
		return fmt.Errorf("failed to create archive: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}

	log.Printf("Backup completed successfully: %s", outputFile)
	printBackupSummary(w, metadata, outputFile)
	return nil
}

// writeArchive 将元数据和两个集合写入 tar.gz
func writeArchive(w io.Writer, metadata *backupMetadata, snap *albums.Snapshot) error {
	gzWriter := gzip.NewWriter(w)
	tarWriter := tar.NewWriter(gzWriter)

	entries := []struct {
		name  string
		value interface{}
	}{
		{metadataEntry, metadata},
		{albumsEntry, snap.Albums},
		{photosEntry, snap.Photos},
	}
	for _, entry := range entries {
		data, err := json.MarshalIndent(entry.value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", entry.name, err)
		}
		header := &tar.Header{
			Name:    entry.name,
			Mode:    0644,
			Size:    int64(len(data)),
			ModTime: metadata.Timestamp,
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if _, err := tarWriter.Write(data); err != nil {
			return err
		}
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}
	return gzWriter.Close()
}

// printBackupSummary 打印备份摘要
func printBackupSummary(w io.Writer, metadata *backupMetadata, outputFile string) {
	fmt.Fprintln(w, "\nBackup Summary:")
	fmt.Fprintln(w, "===============")
	fmt.Fprintf(w, "Version:    %s\n", metadata.Version)
	fmt.Fprintf(w, "Timestamp:  %s\n", metadata.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Backend:    %s\n", metadata.Backend)
	fmt.Fprintf(w, "Output:     %s\n", outputFile)
	fmt.Fprintf(w, "Albums:     %d\n", metadata.RecordCount["albums"])
	fmt.Fprintf(w, "Photos:     %d\n", metadata.RecordCount["photos"])
}

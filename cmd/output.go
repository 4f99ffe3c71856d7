package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/utils"
)

// printJSON 以缩进 JSON 输出
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

// truncateURL data URL 可能有几 MB，列表里只显示开头
func truncateURL(url string) string {
	return utils.SanitizeLogTitle(url)
}

func printAlbums(w io.Writer, list []albums.Album) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No albums.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-24s  %6s  %s\n", "ID", "TITLE", "PHOTOS", "CREATED")
	for _, a := range list {
		fmt.Fprintf(w, "%-36s  %-24s  %6d  %s\n", a.ID, a.Title, a.PhotoCount, formatTimestamp(a.Timestamp))
	}
	fmt.Fprintf(w, "\nTotal: %d albums\n", len(list))
}

func printPhotos(w io.Writer, list []albums.Photo) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No photos.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-24s  %-16s  %s\n", "ID", "TITLE", "TAKEN", "URL")
	for _, p := range list {
		fmt.Fprintf(w, "%-36s  %-24s  %-16s  %s\n", p.ID, p.Title, formatTimestamp(p.Timestamp), truncateURL(p.URL))
	}
	fmt.Fprintf(w, "\nTotal: %d photos\n", len(list))
}

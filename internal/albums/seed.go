package albums

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// demoAlbum 首次启动时写入的演示相册
type demoAlbum struct {
	title    string
	category string
	age      time.Duration
	count    int
}

var demoAlbums = []demoAlbum{
	{title: "Nature", category: "nature", age: 7 * day, count: 12},
	{title: "Travel", category: "travel", age: 3 * day, count: 24},
	{title: "Architecture", category: "architecture", age: 14 * day, count: 9},
}

var sampleCategories = []string{"nature", "travel", "architecture", "people", "food"}

// seedAlbums 生成演示相册，photoCount 与随后生成的示例照片数量一致
func (s *Store) seedAlbums(now time.Time, taken map[string]struct{}) ([]Album, error) {
	albums := make([]Album, 0, len(demoAlbums))
	for _, demo := range demoAlbums {
		id, err := s.allocateID(taken)
		if err != nil {
			return nil, err
		}
		albums = append(albums, Album{
			ID:         id,
			Title:      demo.title,
			CoverURL:   fmt.Sprintf("https://source.unsplash.com/random/300x300/?%s", demo.category),
			Timestamp:  now.Add(-demo.age).UnixMilli(),
			PhotoCount: demo.count,
		})
	}
	return albums, nil
}

// seedPhotos 按每个相册的 photoCount 生成示例照片
func (s *Store) seedPhotos(albums []Album, now time.Time, taken map[string]struct{}) ([]Photo, error) {
	photos := make([]Photo, 0)
	for i, album := range albums {
		category := sampleCategories[i%len(sampleCategories)]
		for j := 0; j < album.PhotoCount; j++ {
			id, err := s.allocateID(taken)
			if err != nil {
				return nil, err
			}
			photos = append(photos, Photo{
				ID:        id,
				Title:     fmt.Sprintf("Photo %d", j+1),
				URL:       fmt.Sprintf("https://source.unsplash.com/random/800x600/?%s&sig=%d", category, j),
				AlbumID:   album.ID,
				Timestamp: now.Add(-time.Duration(j%30) * day).UnixMilli(),
			})
		}
	}
	return photos, nil
}

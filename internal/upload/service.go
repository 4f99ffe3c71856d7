// Package upload 批量上传：每个文件独立编码后各自提交一次 AddPhoto
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/utils"
	"github.com/anoixa/photo-album/utils/format"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotImage      = errors.New("file is not a supported image")
	ErrFileTooLarge  = errors.New("file exceeds the upload size limit")
	ErrBatchTooLarge = errors.New("batch exceeds the total upload size limit")
	ErrNoFiles       = errors.New("no files to upload")
)

// PhotoStore 上传需要的相册存储能力
type PhotoStore interface {
	GetAlbum(ctx context.Context, albumID string) (*albums.Album, error)
	AddPhoto(ctx context.Context, albumID, title, url string) (*albums.Photo, error)
}

// File 待上传的文件
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FromFileHeader 包装 multipart 文件
func FromFileHeader(fh *multipart.FileHeader) File {
	return File{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromPath 包装本地文件
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Result 单个文件的上传结果
type Result struct {
	FileName string        `json:"fileName"`
	Photo    *albums.Photo `json:"photo,omitempty"`
	Error    string        `json:"error,omitempty"`
	err      error
}

// Err 返回原始错误
func (r *Result) Err() error {
	return r.err
}

// Limits 上传大小限制，0 表示不限制
type Limits struct {
	MaxFileBytes  int64
	MaxBatchBytes int64
}

// Service 批量上传服务
type Service struct {
	store   PhotoStore
	encoder Encoder
	workers int
	limits  Limits
}

// NewService 创建上传服务，workers 为并发上限
func NewService(store PhotoStore, encoder Encoder, workers int, limits Limits) *Service {
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		store:   store,
		encoder: encoder,
		workers: workers,
		limits:  limits,
	}
}

// Mode 返回编码模式
func (s *Service) Mode() string {
	return s.encoder.Mode()
}

// UploadBatch 并发处理每个文件，全部完成后按输入顺序返回结果
// 单个文件失败记录在 Result 中；相册不存在时在开始前直接返回 ErrAlbumNotFound
func (s *Service) UploadBatch(ctx context.Context, albumID string, files []File) ([]*Result, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	var total int64
	for _, f := range files {
		total += f.Size
	}
	if s.limits.MaxBatchBytes > 0 && total > s.limits.MaxBatchBytes {
		return nil, fmt.Errorf("%w: %s > %s", ErrBatchTooLarge,
			format.HumanReadableSize(total), format.HumanReadableSize(s.limits.MaxBatchBytes))
	}

	if _, err := s.store.GetAlbum(ctx, albumID); err != nil {
		return nil, err
	}

	results := make([]*Result, len(files))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, f := range files {
		g.Go(func() error {
			result := &Result{FileName: f.Name}
			photo, err := s.uploadOne(ctx, albumID, f)
			if err != nil {
				result.err = err
				result.Error = err.Error()
				if !utils.IsContextCanceled(err) {
					log.Printf("[Upload] Failed to upload %s: %v", utils.SanitizeLogTitle(f.Name), err)
				}
			} else {
				result.Photo = photo
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, r := range results {
		if r.err == nil {
			succeeded++
		}
	}
	log.Printf("[Upload] Batch into album %s finished: %d/%d succeeded (%s)", albumID, succeeded, len(files), s.encoder.Mode())

	return results, nil
}

// uploadOne 读取、编码并提交单个文件
func (s *Service) uploadOne(ctx context.Context, albumID string, f File) (*albums.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.readFile(f)
	if err != nil {
		return nil, err
	}

	ref, err := s.encoder.Encode(ctx, f.Name, data)
	if err != nil {
		return nil, err
	}

	return s.store.AddPhoto(ctx, albumID, utils.TitleFromFilename(f.Name), ref)
}

// readFile 读取文件内容，超过单文件上限时返回 ErrFileTooLarge
func (s *Service) readFile(f File) ([]byte, error) {
	max := s.limits.MaxFileBytes
	if max > 0 && f.Size > max {
		return nil, fmt.Errorf("%w: %s > %s", ErrFileTooLarge,
			format.HumanReadableSize(f.Size), format.HumanReadableSize(max))
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer rc.Close()

	var reader io.Reader = rc
	if max > 0 {
		reader = io.LimitReader(rc, max+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if max > 0 && int64(len(data)) > max {
		return nil, fmt.Errorf("%w: more than %s", ErrFileTooLarge, format.HumanReadableSize(max))
	}
	return data, nil
}

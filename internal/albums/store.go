// Package albums 相册与照片的存储，负责两者之间的引用完整性
//
// 相册集合与照片集合各自序列化为一个 JSON 数组保存在 kv.Storage 的一个键下，
// 每次变更整体重写受影响的集合。
package albums

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/anoixa/photo-album/kv"
	"github.com/google/uuid"
)

const (
	DefaultAlbumKey = "albums"
	DefaultPhotoKey = "photos"

	maxIDAttempts = 16
)

// errDecode 已存储的集合无法解析
var errDecode = errors.New("malformed collection")

// Store 相册存储
// 所有操作经过同一把读写锁，读者看不到只应用了一半的变更
type Store struct {
	mu       sync.RWMutex
	storage  kv.Storage
	albumKey string
	photoKey string
	newID    func() string
	now      func() time.Time
}

// Option 存储选项
type Option func(*Store)

// WithIDGenerator 替换 ID 生成器
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithClock 替换时钟
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		s.now = fn
	}
}

// WithKeys 指定相册与照片集合使用的键名
func WithKeys(albumKey, photoKey string) Option {
	return func(s *Store) {
		if albumKey != "" {
			s.albumKey = albumKey
		}
		if photoKey != "" {
			s.photoKey = photoKey
		}
	}
}

// New 创建存储并执行一次 InitializeIfEmpty
func New(ctx context.Context, storage kv.Storage, opts ...Option) (*Store, error) {
	s := &Store{
		storage:  storage,
		albumKey: DefaultAlbumKey,
		photoKey: DefaultPhotoKey,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.albumKey == s.photoKey {
		return nil, fmt.Errorf("album key and photo key must differ, both are %q", s.albumKey)
	}

	if err := s.InitializeIfEmpty(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Backend 返回底层存储名称
func (s *Store) Backend() string {
	return s.storage.Name()
}

// document 读取时的原始值，部分写入失败时用于回滚
type document struct {
	key    string
	raw    string
	exists bool
}

// change 待写入的一个集合
type change struct {
	prev  document
	value interface{}
}

func (s *Store) read(ctx context.Context, key string, dest interface{}) (document, error) {
	raw, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		return document{}, fmt.Errorf("load %s: %w", key, err)
	}
	doc := document{key: key, raw: raw, exists: ok}
	if ok && strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), dest); err != nil {
			return doc, fmt.Errorf("%w %s: %w", errDecode, key, err)
		}
	}
	return doc, nil
}

func (s *Store) readAlbums(ctx context.Context) ([]Album, document, error) {
	albums := make([]Album, 0)
	doc, err := s.read(ctx, s.albumKey, &albums)
	if albums == nil {
		albums = make([]Album, 0)
	}
	return albums, doc, err
}

func (s *Store) readPhotos(ctx context.Context) ([]Photo, document, error) {
	photos := make([]Photo, 0)
	doc, err := s.read(ctx, s.photoKey, &photos)
	if photos == nil {
		photos = make([]Photo, 0)
	}
	return photos, doc, err
}

// commit 写入一个或两个集合
// 后端支持 Batcher 时一次写入；否则顺序写入，失败时把已写入的键恢复为原值
func (s *Store) commit(ctx context.Context, changes ...change) error {
	values := make([]string, len(changes))
	for i, c := range changes {
		data, err := json.Marshal(c.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c.prev.key, err)
		}
		values[i] = string(data)
	}

	if len(changes) == 1 {
		if err := s.storage.Set(ctx, changes[0].prev.key, values[0]); err != nil {
			return fmt.Errorf("persist %s: %w", changes[0].prev.key, err)
		}
		return nil
	}

	if batcher, ok := s.storage.(kv.Batcher); ok {
		entries := make(map[string]string, len(changes))
		keys := make([]string, 0, len(changes))
		for i, c := range changes {
			entries[c.prev.key] = values[i]
			keys = append(keys, c.prev.key)
		}
		if err := batcher.SetMany(ctx, entries); err != nil {
			return fmt.Errorf("persist %s: %w", strings.Join(keys, "+"), err)
		}
		return nil
	}

	for i, c := range changes {
		if err := s.storage.Set(ctx, c.prev.key, values[i]); err != nil {
			s.rollback(ctx, changes[:i])
			return fmt.Errorf("persist %s: %w", c.prev.key, err)
		}
	}
	return nil
}

// rollback 按相反顺序恢复已写入的键，调用方的 ctx 取消后仍然执行
func (s *Store) rollback(ctx context.Context, applied []change) {
	ctx = context.WithoutCancel(ctx)
	for i := len(applied) - 1; i >= 0; i-- {
		prev := applied[i].prev
		if !prev.exists {
			log.Printf("[Albums] Key %s did not exist before the failed write, leaving new value in place", prev.key)
			continue
		}
		if err := s.storage.Set(ctx, prev.key, prev.raw); err != nil {
			log.Printf("[Albums] Failed to restore %s after partial write: %v", prev.key, err)
		}
	}
}

// allocateID 生成在 taken 中不存在的 ID 并登记
func (s *Store) allocateID(taken map[string]struct{}) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, dup := taken[id]; dup {
			continue
		}
		taken[id] = struct{}{}
		return id, nil
	}
	return "", fmt.Errorf("failed to allocate a unique id after %d attempts", maxIDAttempts)
}

func albumIDs(albums []Album) map[string]struct{} {
	ids := make(map[string]struct{}, len(albums))
	for _, a := range albums {
		ids[a.ID] = struct{}{}
	}
	return ids
}

func photoIDs(photos []Photo) map[string]struct{} {
	ids := make(map[string]struct{}, len(photos))
	for _, p := range photos {
		ids[p.ID] = struct{}{}
	}
	return ids
}

func findAlbum(albums []Album, albumID string) int {
	for i := range albums {
		if albums[i].ID == albumID {
			return i
		}
	}
	return -1
}

func findPhoto(photos []Photo, albumID, photoID string) int {
	for i := range photos {
		if photos[i].ID == photoID && photos[i].AlbumID == albumID {
			return i
		}
	}
	return -1
}

func photosOf(photos []Photo, albumID string) []Photo {
	result := make([]Photo, 0)
	for _, p := range photos {
		if p.AlbumID == albumID {
			result = append(result, p)
		}
	}
	return result
}

// InitializeIfEmpty 相册键从未写入时写入演示数据
// 相册键存在而照片键缺失时，按各相册的 photoCount 补齐示例照片
func (s *Store) InitializeIfEmpty(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums, albumDoc, err := s.readAlbums(ctx)
	if err != nil {
		return err
	}
	photos, photoDoc, err := s.readPhotos(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	switch {
	case !albumDoc.exists:
		albums, err = s.seedAlbums(now, make(map[string]struct{}))
		if err != nil {
			return err
		}
		photos, err = s.seedPhotos(albums, now, make(map[string]struct{}))
		if err != nil {
			return err
		}
		if err := s.commit(ctx, change{prev: photoDoc, value: photos}, change{prev: albumDoc, value: albums}); err != nil {
			return err
		}
		log.Printf("[Albums] Seeded %d demo albums with %d photos into %s", len(albums), len(photos), s.storage.Name())
	case !photoDoc.exists:
		photos, err = s.seedPhotos(albums, now, make(map[string]struct{}))
		if err != nil {
			return err
		}
		if err := s.commit(ctx, change{prev: photoDoc, value: photos}); err != nil {
			return err
		}
		log.Printf("[Albums] Seeded %d sample photos for existing albums", len(photos))
	default:
		return s.repair(ctx, albums, photos, albumDoc, photoDoc)
	}
	return nil
}

// repair 修复两次写入之间中断留下的不一致数据
// 丢弃引用不存在相册的照片，并按照片重新计算 photoCount
func (s *Store) repair(ctx context.Context, albums []Album, photos []Photo, albumDoc, photoDoc document) error {
	fixedAlbums, kept, recounted := reconcile(albums, photos)
	dropped := len(photos) - len(kept)
	if dropped == 0 && recounted == 0 {
		return nil
	}

	var changes []change
	if dropped > 0 {
		changes = append(changes, change{prev: photoDoc, value: kept})
	}
	if recounted > 0 {
		changes = append(changes, change{prev: albumDoc, value: fixedAlbums})
	}
	if err := s.commit(ctx, changes...); err != nil {
		return err
	}
	log.Printf("[Albums] Repaired %s: dropped %d orphan photos, corrected %d photo counts", s.storage.Name(), dropped, recounted)
	return nil
}

// reconcile 返回按照片数量修正后的相册、仍属于现有相册的照片以及被修正的相册数
func reconcile(albums []Album, photos []Photo) ([]Album, []Photo, int) {
	counts := make(map[string]int, len(albums))
	for _, a := range albums {
		counts[a.ID] = 0
	}
	kept := make([]Photo, 0, len(photos))
	for _, p := range photos {
		if _, ok := counts[p.AlbumID]; !ok {
			continue
		}
		counts[p.AlbumID]++
		kept = append(kept, p)
	}

	fixed := make([]Album, len(albums))
	recounted := 0
	for i, a := range albums {
		if a.PhotoCount != counts[a.ID] {
			a.PhotoCount = counts[a.ID]
			recounted++
		}
		fixed[i] = a
	}
	return fixed, kept, recounted
}

// ListAlbums 按插入顺序返回全部相册
func (s *Store) ListAlbums(ctx context.Context) ([]Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	albums, _, err := s.readAlbums(ctx)
	return albums, err
}

// GetAlbum 按 ID 获取相册
func (s *Store) GetAlbum(ctx context.Context, albumID string) (*Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	albums, _, err := s.readAlbums(ctx)
	if err != nil {
		return nil, err
	}
	idx := findAlbum(albums, albumID)
	if idx < 0 {
		return nil, ErrAlbumNotFound
	}
	album := albums[idx]
	return &album, nil
}

// ListPhotos 按插入顺序返回相册内的照片，相册不存在时返回空列表
func (s *Store) ListPhotos(ctx context.Context, albumID string) ([]Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	photos, _, err := s.readPhotos(ctx)
	if err != nil {
		return nil, err
	}
	return photosOf(photos, albumID), nil
}

// SearchPhotos 按标题过滤相册内的照片，忽略大小写，空查询返回全部
func (s *Store) SearchPhotos(ctx context.Context, albumID, query string) ([]Photo, error) {
	photos, err := s.ListPhotos(ctx, albumID)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return photos, nil
	}

	result := make([]Photo, 0)
	for _, p := range photos {
		if strings.Contains(strings.ToLower(p.Title), query) {
			result = append(result, p)
		}
	}
	return result, nil
}

// ViewPhoto 返回照片在相册中的位置以及相邻照片
func (s *Store) ViewPhoto(ctx context.Context, albumID, photoID string) (*PhotoView, error) {
	photos, err := s.ListPhotos(ctx, albumID)
	if err != nil {
		return nil, err
	}

	for i, p := range photos {
		if p.ID != photoID {
			continue
		}
		view := &PhotoView{Photo: p, Index: i, Total: len(photos)}
		if i > 0 {
			view.PrevID = photos[i-1].ID
		}
		if i < len(photos)-1 {
			view.NextID = photos[i+1].ID
		}
		return view, nil
	}
	return nil, ErrPhotoNotFound
}

// CreateAlbum 创建相册，空标题时使用 "New album N"
func (s *Store) CreateAlbum(ctx context.Context, title string) (*Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums, doc, err := s.readAlbums(ctx)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("New album %d", len(albums)+1)
	}
	id, err := s.allocateID(albumIDs(albums))
	if err != nil {
		return nil, err
	}

	album := Album{
		ID:        id,
		Title:     title,
		Timestamp: s.now().UnixMilli(),
	}
	if err := s.commit(ctx, change{prev: doc, value: append(albums, album)}); err != nil {
		return nil, err
	}
	return &album, nil
}

// RenameAlbum 修改相册标题，相册不存在或标题为空时不做任何事
func (s *Store) RenameAlbum(ctx context.Context, albumID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	albums, doc, err := s.readAlbums(ctx)
	if err != nil {
		return err
	}
	idx := findAlbum(albums, albumID)
	if idx < 0 {
		return nil
	}
	albums[idx].Title = title
	return s.commit(ctx, change{prev: doc, value: albums})
}

// DeleteAlbum 删除相册及其全部照片，两个集合作为一个整体写入
func (s *Store) DeleteAlbum(ctx context.Context, albumID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums, albumDoc, err := s.readAlbums(ctx)
	if err != nil {
		return err
	}
	idx := findAlbum(albums, albumID)
	if idx < 0 {
		return nil
	}
	photos, photoDoc, err := s.readPhotos(ctx)
	if err != nil {
		return err
	}

	remainingAlbums := append(albums[:idx:idx], albums[idx+1:]...)
	remainingPhotos := make([]Photo, 0, len(photos))
	for _, p := range photos {
		if p.AlbumID != albumID {
			remainingPhotos = append(remainingPhotos, p)
		}
	}

	return s.commit(ctx,
		change{prev: albumDoc, value: remainingAlbums},
		change{prev: photoDoc, value: remainingPhotos},
	)
}

// AddPhoto 向相册添加照片
// 相册原本没有照片且没有封面时，以该照片作为封面
func (s *Store) AddPhoto(ctx context.Context, albumID, title, url string) (*Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums, albumDoc, err := s.readAlbums(ctx)
	if err != nil {
		return nil, err
	}
	idx := findAlbum(albums, albumID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrAlbumNotFound, albumID)
	}
	photos, photoDoc, err := s.readPhotos(ctx)
	if err != nil {
		return nil, err
	}

	id, err := s.allocateID(photoIDs(photos))
	if err != nil {
		return nil, err
	}
	photo := Photo{
		ID:        id,
		Title:     strings.TrimSpace(title),
		URL:       url,
		AlbumID:   albumID,
		Timestamp: s.now().UnixMilli(),
	}

	album := &albums[idx]
	if album.PhotoCount == 0 && album.CoverURL == "" {
		album.CoverURL = url
	}
	album.PhotoCount++

	err = s.commit(ctx,
		change{prev: photoDoc, value: append(photos, photo)},
		change{prev: albumDoc, value: albums},
	)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// RenamePhoto 修改照片标题，照片不在该相册下或标题为空时不做任何事
func (s *Store) RenamePhoto(ctx context.Context, albumID, photoID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	photos, doc, err := s.readPhotos(ctx)
	if err != nil {
		return err
	}
	idx := findPhoto(photos, albumID, photoID)
	if idx < 0 {
		return nil
	}
	photos[idx].Title = title
	return s.commit(ctx, change{prev: doc, value: photos})
}

// DeletePhoto 删除照片并减少相册计数，封面保持不变
func (s *Store) DeletePhoto(ctx context.Context, albumID, photoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	photos, photoDoc, err := s.readPhotos(ctx)
	if err != nil {
		return err
	}
	idx := findPhoto(photos, albumID, photoID)
	if idx < 0 {
		return nil
	}
	albums, albumDoc, err := s.readAlbums(ctx)
	if err != nil {
		return err
	}

	remaining := append(photos[:idx:idx], photos[idx+1:]...)
	if a := findAlbum(albums, albumID); a >= 0 && albums[a].PhotoCount > 0 {
		albums[a].PhotoCount--
	}

	return s.commit(ctx,
		change{prev: photoDoc, value: remaining},
		change{prev: albumDoc, value: albums},
	)
}

// Snapshot 在同一把读锁内读取两个集合
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	albums, _, err := s.readAlbums(ctx)
	if err != nil {
		return nil, err
	}
	photos, _, err := s.readPhotos(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Albums: albums, Photos: photos}, nil
}

// Validate 检查 ID 唯一且每张照片都属于存在的相册
func (snap *Snapshot) Validate() error {
	albumSet := make(map[string]struct{}, len(snap.Albums))
	for _, a := range snap.Albums {
		if a.ID == "" {
			return fmt.Errorf("%w: album with empty id", ErrInvalidSnapshot)
		}
		if _, dup := albumSet[a.ID]; dup {
			return fmt.Errorf("%w: duplicate album id %s", ErrInvalidSnapshot, a.ID)
		}
		albumSet[a.ID] = struct{}{}
	}

	photoSet := make(map[string]struct{}, len(snap.Photos))
	for _, p := range snap.Photos {
		if p.ID == "" {
			return fmt.Errorf("%w: photo with empty id", ErrInvalidSnapshot)
		}
		if _, dup := photoSet[p.ID]; dup {
			return fmt.Errorf("%w: duplicate photo id %s", ErrInvalidSnapshot, p.ID)
		}
		photoSet[p.ID] = struct{}{}
		if _, ok := albumSet[p.AlbumID]; !ok {
			return fmt.Errorf("%w: photo %s references missing album %s", ErrInvalidSnapshot, p.ID, p.AlbumID)
		}
	}
	return nil
}

// Restore 校验快照后覆盖当前数据，photoCount 按照片重新计算
func (s *Store) Restore(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	albums, photos, _ := reconcile(snap.Albums, snap.Photos)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, albumDoc, err := s.readAlbums(ctx)
	if err != nil && !errors.Is(err, errDecode) {
		return err
	}
	_, photoDoc, err := s.readPhotos(ctx)
	if err != nil && !errors.Is(err, errDecode) {
		return err
	}

	return s.commit(ctx,
		change{prev: albumDoc, value: albums},
		change{prev: photoDoc, value: photos},
	)
}

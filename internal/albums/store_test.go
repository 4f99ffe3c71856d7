package albums

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/anoixa/photo-album/kv"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// sequentialIDs 返回可预测的 ID 生成器
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, storage kv.Storage) *Store {
	t.Helper()
	if storage == nil {
		storage = kv.NewMemory()
	}
	s, err := New(context.Background(), storage,
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return s
}

// emptyStore 创建未写入演示数据的存储
func emptyStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	require.NoError(t, mem.SetMany(context.Background(), map[string]string{
		DefaultAlbumKey: "[]",
		DefaultPhotoKey: "[]",
	}))
	return newTestStore(t, mem), mem
}

// assertInvariants 校验引用完整性、计数一致与 ID 唯一
func assertInvariants(t *testing.T, s *Store) {
	t.Helper()
	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	require.NoError(t, snap.Validate())

	counts := make(map[string]int)
	for _, p := range snap.Photos {
		counts[p.AlbumID]++
	}
	for _, a := range snap.Albums {
		assert.Equal(t, counts[a.ID], a.PhotoCount, "photoCount of album %s", a.ID)
	}
}

func TestInitializeIfEmpty_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := newTestStore(t, mem)

	albums, err := s.ListAlbums(ctx)
	require.NoError(t, err)
	require.Len(t, albums, 3)

	assert.Equal(t, "Nature", albums[0].Title)
	assert.Equal(t, "Travel", albums[1].Title)
	assert.Equal(t, "Architecture", albums[2].Title)
	assert.Equal(t, 12, albums[0].PhotoCount)
	assert.Equal(t, 24, albums[1].PhotoCount)
	assert.Equal(t, 9, albums[2].PhotoCount)
	assert.Equal(t, fixedNow.Add(-7*day).UnixMilli(), albums[0].Timestamp)
	assert.Equal(t, fixedNow.Add(-3*day).UnixMilli(), albums[1].Timestamp)
	assert.Equal(t, fixedNow.Add(-14*day).UnixMilli(), albums[2].Timestamp)
	for _, a := range albums {
		assert.NotEmpty(t, a.CoverURL)
	}
	assertInvariants(t, s)

	before, _, err := mem.Get(ctx, DefaultAlbumKey)
	require.NoError(t, err)

	require.NoError(t, s.InitializeIfEmpty(ctx))
	_, err = New(ctx, mem)
	require.NoError(t, err)

	after, _, err := mem.Get(ctx, DefaultAlbumKey)
	require.NoError(t, err)
	assert.Equal(t, before, after, "seeding must happen at most once")
}

func TestInitializeIfEmpty_EmptyCollectionIsNotReseeded(t *testing.T) {
	s, _ := emptyStore(t)

	albums, err := s.ListAlbums(context.Background())
	require.NoError(t, err)
	assert.Empty(t, albums)
}

func TestInitializeIfEmpty_MissingPhotosKey(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, DefaultAlbumKey, `[{"id":"a1","title":"Kept","timestamp":1,"photoCount":2}]`))

	s := newTestStore(t, mem)
	photos, err := s.ListPhotos(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, photos, 2)
	assertInvariants(t, s)
}

func TestInitializeIfEmpty_RepairsInterruptedWrite(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	// 照片已写入，相册计数仍是旧值；另有一张照片指向已删除的相册
	require.NoError(t, mem.SetMany(ctx, map[string]string{
		DefaultAlbumKey: `[{"id":"a1","title":"One","timestamp":1,"photoCount":1},{"id":"a2","title":"Two","timestamp":2,"photoCount":3}]`,
		DefaultPhotoKey: `[{"id":"p1","albumId":"a1","title":"x","url":"u1","timestamp":1},` +
			`{"id":"p2","albumId":"a1","title":"y","url":"u2","timestamp":2},` +
			`{"id":"p3","albumId":"gone","title":"z","url":"u3","timestamp":3}]`,
	}))

	s := newTestStore(t, mem)

	a1, err := s.GetAlbum(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 2, a1.PhotoCount)
	a2, err := s.GetAlbum(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, 0, a2.PhotoCount)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Photos, 2)
	assertInvariants(t, s)
}

func TestInitializeIfEmpty_ConsistentDataUntouched(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	newTestStore(t, mem)

	albumsBefore, _, err := mem.Get(ctx, DefaultAlbumKey)
	require.NoError(t, err)
	photosBefore, _, err := mem.Get(ctx, DefaultPhotoKey)
	require.NoError(t, err)

	newTestStore(t, mem)

	albumsAfter, _, err := mem.Get(ctx, DefaultAlbumKey)
	require.NoError(t, err)
	photosAfter, _, err := mem.Get(ctx, DefaultPhotoKey)
	require.NoError(t, err)
	assert.Equal(t, albumsBefore, albumsAfter)
	assert.Equal(t, photosBefore, photosAfter)
}

func TestNew_SameKeys(t *testing.T) {
	_, err := New(context.Background(), kv.NewMemory(), WithKeys("data", "data"))
	assert.Error(t, err)
}

func TestWithKeys(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	_, err := New(ctx, mem, WithKeys("my-albums", "my-photos"))
	require.NoError(t, err)

	_, ok, err := mem.Get(ctx, "my-albums")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = mem.Get(ctx, DefaultAlbumKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistedWireFormat(t *testing.T) {
	ctx := context.Background()
	s, mem := emptyStore(t)

	album, err := s.CreateAlbum(ctx, "Trip")
	require.NoError(t, err)
	_, err = s.AddPhoto(ctx, album.ID, "Beach", "data:image/png;base64,AAA")
	require.NoError(t, err)

	raw, _, err := mem.Get(ctx, DefaultAlbumKey)
	require.NoError(t, err)
	var albums []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &albums))
	require.Len(t, albums, 1)
	for _, field := range []string{"id", "title", "coverUrl", "timestamp", "photoCount"} {
		assert.Contains(t, albums[0], field)
	}

	raw, _, err = mem.Get(ctx, DefaultPhotoKey)
	require.NoError(t, err)
	var photos []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &photos))
	require.Len(t, photos, 1)
	for _, field := range []string{"id", "title", "url", "albumId", "timestamp"} {
		assert.Contains(t, photos[0], field)
	}
}

func TestScenarios(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)

	// A: create album
	album, err := s.CreateAlbum(ctx, "Trip")
	require.NoError(t, err)
	assert.Equal(t, "Trip", album.Title)
	assert.Equal(t, 0, album.PhotoCount)
	assert.Empty(t, album.CoverURL)
	assert.Equal(t, fixedNow.UnixMilli(), album.Timestamp)

	albums, err := s.ListAlbums(ctx)
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, album.ID, albums[0].ID)

	// B: first photo sets cover
	beach, err := s.AddPhoto(ctx, album.ID, "Beach", "data:beach")
	require.NoError(t, err)
	got, err := s.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PhotoCount)
	assert.Equal(t, "data:beach", got.CoverURL)

	// C: second photo keeps cover
	_, err = s.AddPhoto(ctx, album.ID, "Sunset", "data:sunset")
	require.NoError(t, err)
	got, err = s.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PhotoCount)
	assert.Equal(t, "data:beach", got.CoverURL)

	// E: rename photo
	require.NoError(t, s.RenamePhoto(ctx, album.ID, beach.ID, ""))
	photos, err := s.ListPhotos(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beach", photos[0].Title)

	require.NoError(t, s.RenamePhoto(ctx, album.ID, beach.ID, "New Title"))
	photos, err = s.ListPhotos(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Title", photos[0].Title)

	// D: delete album cascades
	require.NoError(t, s.DeleteAlbum(ctx, album.ID))
	albums, err = s.ListAlbums(ctx)
	require.NoError(t, err)
	assert.Empty(t, albums)
	photos, err = s.ListPhotos(ctx, album.ID)
	require.NoError(t, err)
	assert.Empty(t, photos)

	assertInvariants(t, s)
}

func TestAddPhoto_UnknownAlbum(t *testing.T) {
	ctx := context.Background()
	s, mem := emptyStore(t)

	before, _, err := mem.Get(ctx, DefaultPhotoKey)
	require.NoError(t, err)

	photo, err := s.AddPhoto(ctx, "missing", "x", "y")
	assert.Nil(t, photo)
	assert.ErrorIs(t, err, ErrAlbumNotFound)

	after, _, err := mem.Get(ctx, DefaultPhotoKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateAlbum_DefaultTitle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	album, err := s.CreateAlbum(ctx, "   ")
	require.NoError(t, err)
	assert.Equal(t, "New album 4", album.Title)

	album, err = s.CreateAlbum(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "New album 5", album.Title)
}

func TestCreateAlbum_TrimsTitle(t *testing.T) {
	s, _ := emptyStore(t)
	album, err := s.CreateAlbum(context.Background(), "  Trip  ")
	require.NoError(t, err)
	assert.Equal(t, "Trip", album.Title)
}

func TestRenameAlbum(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	album, err := s.CreateAlbum(ctx, "Trip")
	require.NoError(t, err)

	tests := []struct {
		name    string
		albumID string
		title   string
		want    string
	}{
		{name: "blank title", albumID: album.ID, title: "", want: "Trip"},
		{name: "whitespace title", albumID: album.ID, title: " \t\n", want: "Trip"},
		{name: "unknown album", albumID: "missing", title: "Other", want: "Trip"},
		{name: "trimmed", albumID: album.ID, title: "  Holiday ", want: "Holiday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.RenameAlbum(ctx, tt.albumID, tt.title))
			got, err := s.GetAlbum(ctx, album.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestRenamePhoto_WrongAlbumIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	a, err := s.CreateAlbum(ctx, "A")
	require.NoError(t, err)
	b, err := s.CreateAlbum(ctx, "B")
	require.NoError(t, err)
	photo, err := s.AddPhoto(ctx, a.ID, "Beach", "u1")
	require.NoError(t, err)

	require.NoError(t, s.RenamePhoto(ctx, b.ID, photo.ID, "Hijacked"))
	photos, err := s.ListPhotos(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beach", photos[0].Title)
}

func TestDeletePhoto_KeepsCover(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	album, err := s.CreateAlbum(ctx, "Trip")
	require.NoError(t, err)
	first, err := s.AddPhoto(ctx, album.ID, "Beach", "u1")
	require.NoError(t, err)
	_, err = s.AddPhoto(ctx, album.ID, "Sunset", "u2")
	require.NoError(t, err)

	require.NoError(t, s.DeletePhoto(ctx, album.ID, first.ID))

	got, err := s.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PhotoCount)
	assert.Equal(t, "u1", got.CoverURL)
	assertInvariants(t, s)

	// 封面不为空时，计数回到 0 后再添加照片也不改变封面
	photos, err := s.ListPhotos(ctx, album.ID)
	require.NoError(t, err)
	require.NoError(t, s.DeletePhoto(ctx, album.ID, photos[0].ID))
	_, err = s.AddPhoto(ctx, album.ID, "Forest", "u3")
	require.NoError(t, err)
	got, err = s.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.CoverURL)
}

func TestDeletePhoto_Unknown(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	album, err := s.CreateAlbum(ctx, "Trip")
	require.NoError(t, err)
	_, err = s.AddPhoto(ctx, album.ID, "Beach", "u1")
	require.NoError(t, err)

	require.NoError(t, s.DeletePhoto(ctx, album.ID, "missing"))
	require.NoError(t, s.DeletePhoto(ctx, "missing", "missing"))

	got, err := s.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PhotoCount)
}

func TestDeleteAlbum_OnlyOwnPhotos(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	album, err := s.CreateAlbum(ctx, "Trip")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.AddPhoto(ctx, album.ID, fmt.Sprintf("p%d", i), "u")
		require.NoError(t, err)
	}

	before, err := s.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, s.DeleteAlbum(ctx, album.ID))
	require.NoError(t, s.DeleteAlbum(ctx, album.ID))

	after, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, after.Albums, len(before.Albums)-1)
	assert.Len(t, after.Photos, len(before.Photos)-3)
	for _, p := range after.Photos {
		assert.NotEqual(t, album.ID, p.AlbumID)
	}
	assertInvariants(t, s)
}

func TestListPhotos_UnknownAlbum(t *testing.T) {
	s := newTestStore(t, nil)
	photos, err := s.ListPhotos(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, photos)
	assert.Empty(t, photos)
}

func TestGetAlbum_NotFound(t *testing.T) {
	s := newTestStore(t, nil)
	_, err := s.GetAlbum(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAlbumNotFound)
}

func TestSearchPhotos(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	album, err := s.CreateAlbum(ctx, "Trip")
	require.NoError(t, err)
	for _, title := range []string{"Beach Day", "Sunset", "beach night"} {
		_, err := s.AddPhoto(ctx, album.ID, title, "u")
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 3},
		{query: "  ", want: 3},
		{query: "BEACH", want: 2},
		{query: "sun", want: 1},
		{query: " sun ", want: 1},
		{query: "mountain", want: 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("query=%q", tt.query), func(t *testing.T) {
			photos, err := s.SearchPhotos(ctx, album.ID, tt.query)
			require.NoError(t, err)
			assert.Len(t, photos, tt.want)
		})
	}
}

func TestViewPhoto(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	album, err := s.CreateAlbum(ctx, "Trip")
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 3; i++ {
		p, err := s.AddPhoto(ctx, album.ID, fmt.Sprintf("p%d", i), "u")
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	first, err := s.ViewPhoto(ctx, album.ID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 3, first.Total)
	assert.Empty(t, first.PrevID)
	assert.Equal(t, ids[1], first.NextID)

	middle, err := s.ViewPhoto(ctx, album.ID, ids[1])
	require.NoError(t, err)
	assert.Equal(t, ids[0], middle.PrevID)
	assert.Equal(t, ids[2], middle.NextID)

	last, err := s.ViewPhoto(ctx, album.ID, ids[2])
	require.NoError(t, err)
	assert.Equal(t, 2, last.Index)
	assert.Empty(t, last.NextID)

	_, err = s.ViewPhoto(ctx, "missing", ids[0])
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestIDUniqueness(t *testing.T) {
	s, err := New(context.Background(), kv.NewMemory())
	require.NoError(t, err)

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := s.newID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestAllocateID_SkipsCollisions(t *testing.T) {
	ctx := context.Background()
	calls := 0
	ids := []string{"a", "a", "a", "b"}
	s, err := New(ctx, kv.NewMemory(), WithIDGenerator(func() string {
		id := ids[calls%len(ids)]
		calls++
		return id
	}), WithKeys("albums", "photos"))
	require.Error(t, err, "seeding 3 albums from a generator with two distinct ids must fail")

	mem := kv.NewMemory()
	require.NoError(t, mem.SetMany(ctx, map[string]string{"albums": "[]", "photos": "[]"}))
	calls = 0
	s, err = New(ctx, mem, WithIDGenerator(func() string {
		id := ids[calls%len(ids)]
		calls++
		return id
	}))
	require.NoError(t, err)

	first, err := s.CreateAlbum(ctx, "one")
	require.NoError(t, err)
	second, err := s.CreateAlbum(ctx, "two")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestConcurrentAddPhoto(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, kv.NewMemory())
	require.NoError(t, err)
	album, err := s.CreateAlbum(ctx, "Batch")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AddPhoto(ctx, album.ID, fmt.Sprintf("p%d", i), fmt.Sprintf("u%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.PhotoCount)
	assert.NotEmpty(t, got.CoverURL)
	assertInvariants(t, s)
}

// flakyStorage 没有批量写入能力、可按键注入写失败的存储
type flakyStorage struct {
	kv.Storage
	mu      sync.Mutex
	failKey string
	failGet bool
}

func (f *flakyStorage) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	failGet := f.failGet
	f.mu.Unlock()
	if failGet {
		return "", false, kv.ErrUnavailable
	}
	return f.Storage.Get(ctx, key)
}

func (f *flakyStorage) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	failKey := f.failKey
	f.mu.Unlock()
	if key == failKey {
		return fmt.Errorf("quota exceeded: %w", kv.ErrUnavailable)
	}
	return f.Storage.Set(ctx, key, value)
}

func (f *flakyStorage) failOn(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKey = key
}

func rawState(t *testing.T, storage kv.Storage) (string, string) {
	t.Helper()
	albums, _, err := storage.Get(context.Background(), DefaultAlbumKey)
	require.NoError(t, err)
	photos, _, err := storage.Get(context.Background(), DefaultPhotoKey)
	require.NoError(t, err)
	return albums, photos
}

func TestPartialWriteIsRolledBack(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	flaky := &flakyStorage{Storage: mem}
	s := newTestStore(t, flaky)

	_, isBatcher := kv.Storage(flaky).(kv.Batcher)
	require.False(t, isBatcher)

	album, err := s.CreateAlbum(ctx, "Trip")
	require.NoError(t, err)
	photo, err := s.AddPhoto(ctx, album.ID, "Beach", "u1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		failKey string
		op      func() error
	}{
		{
			name:    "add photo fails on albums",
			failKey: DefaultAlbumKey,
			op: func() error {
				_, err := s.AddPhoto(ctx, album.ID, "Sunset", "u2")
				return err
			},
		},
		{
			name:    "delete photo fails on albums",
			failKey: DefaultAlbumKey,
			op:      func() error { return s.DeletePhoto(ctx, album.ID, photo.ID) },
		},
		{
			name:    "delete album fails on photos",
			failKey: DefaultPhotoKey,
			op:      func() error { return s.DeleteAlbum(ctx, album.ID) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			albumsBefore, photosBefore := rawState(t, mem)

			flaky.failOn(tt.failKey)
			err := tt.op()
			flaky.failOn("")

			require.Error(t, err)
			assert.ErrorIs(t, err, kv.ErrUnavailable)

			albumsAfter, photosAfter := rawState(t, mem)
			assert.Equal(t, albumsBefore, albumsAfter)
			assert.Equal(t, photosBefore, photosAfter)
			assertInvariants(t, s)
		})
	}
}

func TestPersistenceErrorsSurface(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStorage{Storage: kv.NewMemory()}
	s := newTestStore(t, flaky)

	flaky.mu.Lock()
	flaky.failGet = true
	flaky.mu.Unlock()

	_, err := s.ListAlbums(ctx)
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	_, err = s.CreateAlbum(ctx, "x")
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	err = s.RenameAlbum(ctx, "a", "b")
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	_, err = s.AddPhoto(ctx, "a", "b", "c")
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	assert.False(t, errors.Is(err, ErrAlbumNotFound))
}

func TestCorruptCollection(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.SetMany(ctx, map[string]string{
		DefaultAlbumKey: "{not json",
		DefaultPhotoKey: "[]",
	}))

	_, err := New(ctx, mem)
	assert.ErrorIs(t, err, errDecode)
}

func TestSnapshotRestore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Albums, 3)
	require.Len(t, snap.Photos, 45)

	target, _ := emptyStore(t)
	require.NoError(t, target.Restore(ctx, snap))

	restored, err := target.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, restored)
}

func TestRestore_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		snap *Snapshot
	}{
		{name: "nil", snap: nil},
		{
			name: "orphan photo",
			snap: &Snapshot{
				Albums: []Album{{ID: "a1"}},
				Photos: []Photo{{ID: "p1", AlbumID: "a2"}},
			},
		},
		{
			name: "duplicate album",
			snap: &Snapshot{Albums: []Album{{ID: "a1"}, {ID: "a1"}}},
		},
		{
			name: "duplicate photo",
			snap: &Snapshot{
				Albums: []Album{{ID: "a1"}},
				Photos: []Photo{{ID: "p1", AlbumID: "a1"}, {ID: "p1", AlbumID: "a1"}},
			},
		},
		{
			name: "empty id",
			snap: &Snapshot{Albums: []Album{{ID: ""}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mem := emptyStore(t)
			albumsBefore, photosBefore := rawState(t, mem)

			err := s.Restore(ctx, tt.snap)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)

			albumsAfter, photosAfter := rawState(t, mem)
			assert.Equal(t, albumsBefore, albumsAfter)
			assert.Equal(t, photosBefore, photosAfter)
		})
	}
}

func TestRestore_RecomputesCounts(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)

	err := s.Restore(ctx, &Snapshot{
		Albums: []Album{{ID: "a1", Title: "One", PhotoCount: 99}, {ID: "a2", Title: "Two", PhotoCount: 5}},
		Photos: []Photo{{ID: "p1", AlbumID: "a1"}, {ID: "p2", AlbumID: "a1"}},
	})
	require.NoError(t, err)

	a1, err := s.GetAlbum(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 2, a1.PhotoCount)
	a2, err := s.GetAlbum(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, 0, a2.PhotoCount)
	assertInvariants(t, s)
}

func TestRestore_OverCorruptState(t *testing.T) {
	ctx := context.Background()
	s, mem := emptyStore(t)
	require.NoError(t, mem.Set(ctx, DefaultPhotoKey, "garbage"))

	require.NoError(t, s.Restore(ctx, &Snapshot{Albums: []Album{{ID: uuid.NewString(), Title: "x"}}}))
	assertInvariants(t, s)
}

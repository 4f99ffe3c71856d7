package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocalStorage_PathTraversal_Prevention 测试路径遍历防护
func TestLocalStorage_PathTraversal_Prevention(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	traversalAttempts := []string{
		"../../../etc/passwd",
		"..\\..\\..\\windows\\system32\\config\\sam",
		"../../.env",
		"..",
		".",
		"",
		"kv/../../../etc/passwd",
		"/absolute/albums.json",
	}

	for _, attempt := range traversalAttempts {
		t.Run("save_"+attempt, func(t *testing.T) {
			err := storage.SaveWithContext(ctx, attempt, strings.NewReader("[]"))
			require.Error(t, err, "Path traversal attempt should be rejected: %s", attempt)
			assert.Contains(t, err.Error(), "invalid")

			_, err = storage.GetWithContext(ctx, attempt)
			assert.Error(t, err)
		})
	}
}

// TestLocalStorage_SaveAndGet 测试写入后读取
func TestLocalStorage_SaveAndGet(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.SaveWithContext(ctx, "kv/albums.json", strings.NewReader(`[{"id":"a"}]`)))

	r, err := storage.GetWithContext(ctx, "kv/albums.json")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	if c, ok := r.(io.Closer); ok {
		_ = c.Close()
	}
	assert.Equal(t, `[{"id":"a"}]`, string(data))

	exists, err := storage.Exists(ctx, "kv/albums.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

// TestLocalStorage_Overwrite 覆盖写入不留下临时文件
func TestLocalStorage_Overwrite(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.SaveWithContext(ctx, "kv/photos.json", strings.NewReader("first")))
	require.NoError(t, storage.SaveWithContext(ctx, "kv/photos.json", strings.NewReader("second")))

	data, err := os.ReadFile(filepath.Join(dir, "kv", "photos.json"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "kv"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// TestLocalStorage_NotFound 不存在的文件返回 ErrNotFound
func TestLocalStorage_NotFound(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = storage.GetWithContext(ctx, "kv/missing.json")
	assert.ErrorIs(t, err, ErrNotFound)

	err = storage.DeleteWithContext(ctx, "kv/missing.json")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := storage.Exists(ctx, "kv/missing.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestLocalStorage_Delete 删除后不可再读取
func TestLocalStorage_Delete(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.SaveWithContext(ctx, "photos/2026/01/02/a.png", strings.NewReader("png")))
	require.NoError(t, storage.DeleteWithContext(ctx, "photos/2026/01/02/a.png"))

	_, err = storage.GetWithContext(ctx, "photos/2026/01/02/a.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestLocalStorage_CanceledContext 取消的上下文不写入
func TestLocalStorage_CanceledContext(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = storage.SaveWithContext(ctx, "kv/albums.json", strings.NewReader("[]"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsValidStoragePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"kv/albums.json", true},
		{"photos/2026/10/19/abc-def_1.png", true},
		{"", false},
		{"../x", false},
		{"/etc/passwd", false},
		{"a b.json", false},
		{"file\x00.txt", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidStoragePath(tt.path), tt.path)
	}
}

func TestFactory_LocalDefault(t *testing.T) {
	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	f, err := NewFactoryWith("local", map[string]Provider{"local": local})
	require.NoError(t, err)
	assert.Equal(t, "local", f.GetDefaultName())
	assert.Equal(t, local, f.GetDefault())
	assert.Equal(t, []string{"local"}, f.ListProviders())

	_, err = f.Get("minio")
	assert.Error(t, err)

	_, err = NewFactoryWith("webdav", map[string]Provider{"local": local})
	assert.Error(t, err)
}

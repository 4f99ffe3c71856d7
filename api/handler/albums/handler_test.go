package albums

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/kv"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status string          `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

func setupTestRouter(t *testing.T) (*gin.Engine, *svcAlbums.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := svcAlbums.New(context.Background(), kv.NewMemory())
	require.NoError(t, err)

	h := NewHandler(store)
	router := gin.New()
	router.GET("/albums", h.ListAlbumsHandler)
	router.POST("/albums", h.CreateAlbumHandler)
	router.GET("/albums/:albumId", h.GetAlbumDetailHandler)
	router.PATCH("/albums/:albumId", h.UpdateAlbumHandler)
	router.DELETE("/albums/:albumId", h.DeleteAlbumHandler)
	return router, store
}

func doRequest(router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestListAlbumsHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w, env := doRequest(router, http.MethodGet, "/albums", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)

	var resp ListAlbumsResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Albums, 3)
	assert.Equal(t, "Nature", resp.Albums[0].Title)
	assert.Equal(t, "Travel", resp.Albums[1].Title)
	assert.Equal(t, "Architecture", resp.Albums[2].Title)
}

func TestCreateAlbumHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantTitle  string
	}{
		{name: "with title", body: `{"title":"  Holidays  "}`, wantStatus: http.StatusCreated, wantTitle: "Holidays"},
		{name: "empty body", body: "", wantStatus: http.StatusCreated, wantTitle: "New album 4"},
		{name: "blank title", body: `{"title":"   "}`, wantStatus: http.StatusCreated, wantTitle: "New album 4"},
		{name: "invalid json", body: `{"title":`, wantStatus: http.StatusBadRequest},
		{name: "title too long", body: `{"title":"` + strings.Repeat("a", 101) + `"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, store := setupTestRouter(t)

			w, env := doRequest(router, http.MethodPost, "/albums", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusCreated {
				assert.Equal(t, "error", env.Status)
				return
			}

			var album svcAlbums.Album
			require.NoError(t, json.Unmarshal(env.Data, &album))
			assert.Equal(t, tt.wantTitle, album.Title)
			assert.Zero(t, album.PhotoCount)
			assert.Empty(t, album.CoverURL)

			all, err := store.ListAlbums(context.Background())
			require.NoError(t, err)
			require.Len(t, all, 4)
			assert.Equal(t, album.ID, all[3].ID)
		})
	}
}

func TestGetAlbumDetailHandler(t *testing.T) {
	router, store := setupTestRouter(t)
	all, err := store.ListAlbums(context.Background())
	require.NoError(t, err)

	w, env := doRequest(router, http.MethodGet, "/albums/"+all[1].ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var album svcAlbums.Album
	require.NoError(t, json.Unmarshal(env.Data, &album))
	assert.Equal(t, "Travel", album.Title)
	assert.Equal(t, 24, album.PhotoCount)

	w, env = doRequest(router, http.MethodGet, "/albums/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Album not found", env.Msg)
}

func TestUpdateAlbumHandler(t *testing.T) {
	router, store := setupTestRouter(t)
	ctx := context.Background()
	all, err := store.ListAlbums(ctx)
	require.NoError(t, err)
	id := all[0].ID

	t.Run("rename", func(t *testing.T) {
		w, env := doRequest(router, http.MethodPatch, "/albums/"+id, `{"title":" Forests "}`)
		require.Equal(t, http.StatusOK, w.Code)
		var album svcAlbums.Album
		require.NoError(t, json.Unmarshal(env.Data, &album))
		assert.Equal(t, "Forests", album.Title)
	})

	t.Run("blank title keeps current", func(t *testing.T) {
		w, _ := doRequest(router, http.MethodPatch, "/albums/"+id, `{"title":"  "}`)
		require.Equal(t, http.StatusOK, w.Code)
		album, err := store.GetAlbum(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Forests", album.Title)
	})

	t.Run("unknown album is a no-op", func(t *testing.T) {
		w, env := doRequest(router, http.MethodPatch, "/albums/missing", `{"title":"X"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, env.Data)
	})

	t.Run("invalid body", func(t *testing.T) {
		w, _ := doRequest(router, http.MethodPatch, "/albums/"+id, `not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteAlbumHandler(t *testing.T) {
	router, store := setupTestRouter(t)
	ctx := context.Background()
	all, err := store.ListAlbums(ctx)
	require.NoError(t, err)

	w, env := doRequest(router, http.MethodDelete, "/albums/"+all[0].ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Album deleted", env.Msg)

	remaining, err := store.ListAlbums(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	photos, err := store.ListPhotos(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Empty(t, photos)

	w, _ = doRequest(router, http.MethodDelete, "/albums/missing", "")
	assert.Equal(t, http.StatusOK, w.Code)
	remaining, err = store.ListAlbums(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juniu86/rr-guanabara/internal/test/testdb"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newPhotoEnv(t *testing.T) (*env, *PhotoService, uint) {
	t.Helper()
	e := newEnv(t)
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 1, 0)
	items, err := e.repo.ListChecklistItems(context.Background(), m.ID)
	require.NoError(t, err)
	s := NewPhotoService(e.repo, e.cfg, e.store, e.metrics).(*PhotoService)
	return e, s, items[0].ID
}

func TestPhotoUpload(t *testing.T) {
	e, s, itemID := newPhotoEnv(t)
	ctx := context.Background()

	res, err := s.Upload(ctx, actorOf(e.fx.Tecnico), itemID, PhotoPayload{
		FileData:    base64.StdEncoding.EncodeToString(pngHeader),
		FileName:    `C:\fotos\bomba 1.png`,
		Description: strPtr("Vazamento"),
	})
	require.NoError(t, err)
	assert.Positive(t, res.PhotoID)
	assert.True(t, strings.HasPrefix(res.URL, "memory://maintenance-photos/"))

	photos, err := s.ListByChecklistItem(ctx, itemID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.True(t, strings.HasSuffix(photos[0].FileKey, "-bomba 1.png"))

	obj, ok := e.store.Get(photos[0].FileKey)
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestPhotoUpload_DataURL(t *testing.T) {
	e, s, itemID := newPhotoEnv(t)
	_, err := s.Upload(context.Background(), actorOf(e.fx.Admin), itemID, PhotoPayload{
		FileData: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader),
		FileName: "a.png",
	})
	assert.NoError(t, err)
}

func TestPhotoUpload_Rejects(t *testing.T) {
	e, s, itemID := newPhotoEnv(t)
	ctx := context.Background()
	ok := PhotoPayload{FileData: base64.StdEncoding.EncodeToString(pngHeader), FileName: "a.png"}

	_, err := s.Upload(ctx, actorOf(e.fx.Guanabara), itemID, ok)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.Upload(ctx, actorOf(e.fx.Tecnico), 999, ok)
	assert.ErrorIs(t, err, ErrChecklistItemNotFound)

	_, err = s.Upload(ctx, actorOf(e.fx.Tecnico), itemID, PhotoPayload{FileData: "%%%", FileName: "a.png"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	big := base64.StdEncoding.EncodeToString(make([]byte, e.cfg.MaxPhotoBytes+1))
	_, err = s.Upload(ctx, actorOf(e.fx.Tecnico), itemID, PhotoPayload{FileData: big, FileName: "a.png"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, e.store.Len())
}

func TestPhotoUploadBatch_AllSettled(t *testing.T) {
	e, s, itemID := newPhotoEnv(t)
	e.store.FailPut = func(key string) error {
		if strings.HasSuffix(key, "-falha.png") {
			return errors.New("bucket offline")
		}
		return nil
	}
	data := base64.StdEncoding.EncodeToString(pngHeader)

	results, err := s.UploadBatch(context.Background(), actorOf(e.fx.Tecnico), itemID, []PhotoPayload{
		{FileData: data, FileName: "um.png"},
		{FileData: data, FileName: "falha.png"},
		{FileData: "???", FileName: "tres.png"},
		{FileData: data, FileName: "quatro.png"},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
	}
	assert.Empty(t, results[0].Error)
	assert.Positive(t, results[0].PhotoID)
	assert.NotEmpty(t, results[1].Error)
	assert.Zero(t, results[1].PhotoID)
	assert.NotEmpty(t, results[2].Error)
	assert.Empty(t, results[3].Error)

	photos, err := s.ListByChecklistItem(context.Background(), itemID)
	require.NoError(t, err)
	assert.Len(t, photos, 2)
}

func TestPhotoUploadBatch_Empty(t *testing.T) {
	e, s, itemID := newPhotoEnv(t)
	_, err := s.UploadBatch(context.Background(), actorOf(e.fx.Tecnico), itemID, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

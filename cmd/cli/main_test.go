package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/moodsync/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
)

func newRepo(t *testing.T) *sqlite.SQLiteRepository {
	t.Helper()
	repo, err := sqlite.NewSQLiteRepository("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newRepo(t)

	now := time.Now().UTC().Truncate(time.Second)
	c := &domain.Collection{OwnerEmail: "a@example.com", Name: "Road trip", IsPublic: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, src.CreateCollection(ctx, c))
	for _, title := range []string{"First", "Second", "Third"} {
		require.NoError(t, src.AppendItem(ctx, &domain.CollectionItem{
			CollectionID: c.ID, ContentType: domain.ContentMusic, ContentTitle: title, AddedAt: now,
		}))
	}

	var buf bytes.Buffer
	require.NoError(t, doExport(ctx, src, &buf))

	var exported []domain.Collection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	require.Len(t, exported, 1)
	require.Len(t, exported[0].Items, 3)

	dst := newRepo(t)
	n, err := doImport(ctx, dst, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := dst.ListCollectionsByOwner(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Road trip", got[0].Name)
	assert.True(t, got[0].IsPublic)
	require.Len(t, got[0].Items, 3)
	for i, want := range []string{"First", "Second", "Third"} {
		assert.Equal(t, want, got[0].Items[i].ContentTitle)
		assert.Equal(t, i, got[0].Items[i].ItemOrder)
	}
}

func TestImportOrdersByItemOrder(t *testing.T) {
	ctx := context.Background()
	dst := newRepo(t)

	in := `[{"ownerEmail":"b@example.com","name":"Shuffled","items":[
		{"contentType":"book","contentTitle":"Z","itemOrder":7},
		{"contentType":"book","contentTitle":"X","itemOrder":1}
	]}]`
	n, err := doImport(ctx, dst, bytes.NewBufferString(in))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := dst.ListCollectionsByOwner(ctx, "b@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Items, 2)
	assert.Equal(t, "X", got[0].Items[0].ContentTitle)
	assert.Equal(t, 1, got[0].Items[1].ItemOrder)
}

func TestImportRejectsGarbage(t *testing.T) {
	_, err := doImport(context.Background(), newRepo(t), bytes.NewBufferString("not json"))
	assert.Error(t, err)
}

func TestImportRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	dst := newRepo(t)

	n, err := doImport(ctx, dst, bytes.NewBufferString(`[{"ownerEmail":"a@example.com","name":"   ","description":"  padded  "}]`))
	assert.Error(t, err)
	assert.Zero(t, n)

	dump, err := dst.Dump(ctx)
	require.NoError(t, err)
	assert.Empty(t, dump)
}

func TestImportTrimsNameAndDescription(t *testing.T) {
	ctx := context.Background()
	dst := newRepo(t)

	n, err := doImport(ctx, dst, bytes.NewBufferString(`[{"ownerEmail":"a@example.com","name":"  Mix ","description":"  padded  "}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := dst.ListCollectionsByOwner(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mix", got[0].Name)
	assert.Equal(t, "padded", got[0].Description)
}

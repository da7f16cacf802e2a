package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedCollection(t *testing.T, repo *SQLiteRepository, owner string, titles ...string) *domain.Collection {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	c := &domain.Collection{OwnerEmail: owner, Name: "Rainy day", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateCollection(ctx, c))
	for _, title := range titles {
		it := &domain.CollectionItem{CollectionID: c.ID, ContentType: domain.ContentMusic, ContentTitle: title, AddedAt: now}
		require.NoError(t, repo.AppendItem(ctx, it))
	}
	return c
}

func itemTitles(items []domain.CollectionItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ContentTitle
	}
	return out
}

func TestCollectionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := seedCollection(t, repo, "alice@example.com")
	assert.NotZero(t, c.ID)

	got, err := repo.GetCollection(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Rainy day", got.Name)
	assert.False(t, got.IsPublic)

	got.Name = "Sunny day"
	got.IsPublic = true
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.UpdateCollection(ctx, got))

	got, err = repo.GetCollection(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunny day", got.Name)
	assert.True(t, got.IsPublic)

	missing, err := repo.GetCollection(ctx, 9999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAppendItemKeepsDenseOrder(t *testing.T) {
	repo := newTestRepo(t)
	c := seedCollection(t, repo, "alice@example.com", "a", "b", "c")

	items, err := repo.GetCollectionItems(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, itemTitles(items))
	assert.NoError(t, domain.CheckDenseOrder(items))
}

func TestRemoveItemCompactsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	c := seedCollection(t, repo, "alice@example.com", "a", "b", "c", "d")

	items, err := repo.GetCollectionItems(ctx, c.ID)
	require.NoError(t, err)

	ok, err := repo.RemoveItem(ctx, c.ID, items[1].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	items, err = repo.GetCollectionItems(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, itemTitles(items))
	assert.NoError(t, domain.CheckDenseOrder(items))

	other := seedCollection(t, repo, "alice@example.com", "x")
	ok, err = repo.RemoveItem(ctx, other.ID, items[0].ID)
	require.NoError(t, err)
	assert.False(t, ok, "item belongs to another collection")
}

func TestReplaceItemOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	c := seedCollection(t, repo, "alice@example.com", "a", "b", "c")

	items, err := repo.GetCollectionItems(ctx, c.ID)
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceItemOrder(ctx, c.ID, []int64{items[2].ID, items[0].ID, items[1].ID}))

	items, err = repo.GetCollectionItems(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, itemTitles(items))
	assert.NoError(t, domain.CheckDenseOrder(items))

	err = repo.ReplaceItemOrder(ctx, c.ID, []int64{items[0].ID, 424242})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err = repo.GetCollectionItems(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, itemTitles(items), "failed replace must roll back")
}

func TestListByOwnerNestsItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	first := seedCollection(t, repo, "alice@example.com", "a", "b")
	second := seedCollection(t, repo, "alice@example.com")
	seedCollection(t, repo, "bob@example.com", "z")

	list, err := repo.ListCollectionsByOwner(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[int64]domain.Collection{}
	for _, c := range list {
		byID[c.ID] = c
	}
	assert.Equal(t, []string{"a", "b"}, itemTitles(byID[first.ID].Items))
	assert.NotNil(t, byID[second.ID].Items)
	assert.Empty(t, byID[second.ID].Items)
}

func TestDeleteCollectionRemovesItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	c := seedCollection(t, repo, "alice@example.com", "a", "b")

	require.NoError(t, repo.DeleteCollection(ctx, c.ID))

	got, err := repo.GetCollection(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	items, err := repo.GetCollectionItems(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDashboardStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	c := seedCollection(t, repo, "alice@example.com", "a", "b")
	c.IsPublic = true
	require.NoError(t, repo.UpdateCollection(ctx, c))
	seedCollection(t, repo, "bob@example.com")

	require.NoError(t, repo.CreateContact(ctx, &domain.Contact{Name: "Kim", Email: "kim@example.com", Message: "hi", CreatedAt: now}))
	require.NoError(t, repo.CreateFeedback(ctx, &domain.Feedback{Rating: 5, CreatedAt: now}))
	require.NoError(t, repo.CreateFeedback(ctx, &domain.Feedback{Rating: 2, CreatedAt: now}))

	stats, err := repo.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Collections)
	assert.EqualValues(t, 1, stats.PublicCollections)
	assert.EqualValues(t, 2, stats.ItemsByType[domain.ContentMusic])
	assert.EqualValues(t, 0, stats.ItemsByType[domain.ContentBook])
	assert.EqualValues(t, 1, stats.Contacts)
	assert.EqualValues(t, 2, stats.Feedback)
	assert.InDelta(t, 3.5, stats.AverageRating, 0.001)

	contacts, err := repo.ListContacts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Kim", contacts[0].Name)
}

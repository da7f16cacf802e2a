package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeItemAPI struct {
	deleteErr error
	saveErr   error
	deleted   []string
	saved     [][]Item
}

func (f *fakeItemAPI) DeleteItem(ctx context.Context, collectionID, itemID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, itemID)
	return nil
}

func (f *fakeItemAPI) UpdateItemOrder(ctx context.Context, collectionID string, items []Item) ([]Item, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, items)
	return items, nil
}

func testCollection() *Collection {
	// deliberately out of order and with gaps
	return &Collection{ID: "7", Items: []Item{
		{ID: "3", ContentTitle: "C", ItemOrder: 5},
		{ID: "1", ContentTitle: "A", ItemOrder: 0},
		{ID: "2", ContentTitle: "B", ItemOrder: 2},
	}}
}

func titles(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ContentTitle
	}
	return out
}

func TestNewEditorSortsByItemOrder(t *testing.T) {
	c := testCollection()
	e := NewEditor(&fakeItemAPI{}, c)
	assert.Equal(t, []string{"A", "B", "C"}, titles(e.Items()))
	assert.Equal(t, "C", c.Items[0].ContentTitle, "input must not be reordered")
	assert.False(t, e.Dirty())
}

func TestEditorMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
		wantErr  bool
		dirty    bool
	}{
		{name: "first to last", from: 0, to: 2, want: []string{"B", "C", "A"}, dirty: true},
		{name: "last to first", from: 2, to: 0, want: []string{"C", "A", "B"}, dirty: true},
		{name: "same index", from: 1, to: 1, want: []string{"A", "B", "C"}},
		{name: "from out of range", from: 3, to: 0, want: []string{"A", "B", "C"}, wantErr: true},
		{name: "negative to", from: 0, to: -1, want: []string{"A", "B", "C"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeItemAPI{}
			e := NewEditor(api, testCollection())
			err := e.Move(tt.from, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutOfRange)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, titles(e.Items()))
			assert.Equal(t, tt.dirty, e.Dirty())
			assert.Empty(t, api.saved, "moves never reach the server")
		})
	}
}

func TestEditorSave(t *testing.T) {
	api := &fakeItemAPI{}
	e := NewEditor(api, testCollection())
	require.NoError(t, e.Move(2, 0))

	require.NoError(t, e.Save(context.Background()))
	require.Len(t, api.saved, 1)
	sent := api.saved[0]
	assert.Equal(t, []string{"C", "A", "B"}, titles(sent))
	for i, it := range sent {
		assert.Equal(t, i, it.ItemOrder)
	}
	assert.Equal(t, sent, e.Items())
	assert.False(t, e.Dirty())
	assert.True(t, e.Closed())
	assert.ErrorIs(t, e.Move(0, 1), ErrEditorClosed)
}

func TestEditorSaveFailureKeepsState(t *testing.T) {
	api := &fakeItemAPI{saveErr: &RequestError{Status: 500, Message: "boom"}}
	e := NewEditor(api, testCollection())
	require.NoError(t, e.Move(0, 2))
	before := e.Items()

	err := e.Save(context.Background())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, before, e.Items())
	assert.True(t, e.Dirty())
	assert.False(t, e.Closed())

	// retry succeeds once the server recovers
	api.saveErr = nil
	require.NoError(t, e.Save(context.Background()))
	assert.Equal(t, []string{"B", "C", "A"}, titles(api.saved[0]))
}

func TestEditorDeleteItem(t *testing.T) {
	api := &fakeItemAPI{}
	e := NewEditor(api, testCollection())

	require.NoError(t, e.DeleteItem(context.Background(), "2"))
	assert.Equal(t, []string{"2"}, api.deleted)
	assert.Equal(t, []string{"A", "C"}, titles(e.Items()))
	assert.True(t, e.ItemsDeleted())
	assert.False(t, e.Dirty())

	assert.ErrorIs(t, e.DeleteItem(context.Background(), "2"), ErrItemNotFound)
}

func TestEditorDeleteFailureLeavesItem(t *testing.T) {
	api := &fakeItemAPI{deleteErr: errors.New("network down")}
	e := NewEditor(api, testCollection())

	assert.Error(t, e.DeleteItem(context.Background(), "1"))
	assert.Equal(t, []string{"A", "B", "C"}, titles(e.Items()))
	assert.False(t, e.ItemsDeleted())
}

func TestEditorClose(t *testing.T) {
	yes := func() bool { return true }
	no := func() bool { return false }

	t.Run("clean closes without asking", func(t *testing.T) {
		e := NewEditor(&fakeItemAPI{}, testCollection())
		asked := false
		assert.True(t, e.Close(func() bool { asked = true; return false }))
		assert.False(t, asked)
	})

	t.Run("dirty and declined stays open", func(t *testing.T) {
		e := NewEditor(&fakeItemAPI{}, testCollection())
		require.NoError(t, e.Move(0, 1))
		assert.False(t, e.Close(no))
		assert.False(t, e.Closed())
		assert.True(t, e.Close(yes))
	})

	t.Run("deleted items also need confirmation", func(t *testing.T) {
		e := NewEditor(&fakeItemAPI{}, testCollection())
		require.NoError(t, e.DeleteItem(context.Background(), "1"))
		assert.False(t, e.Close(nil))
		assert.True(t, e.Close(yes))
	})
}

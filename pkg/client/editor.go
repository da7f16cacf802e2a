package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	ErrEditorClosed = errors.New("editor is closed")
	ErrOutOfRange   = errors.New("index out of range")
	ErrItemNotFound = errors.New("item not in editor")
)

// ItemAPI is the slice of Client the editor talks to.
type ItemAPI interface {
	DeleteItem(ctx context.Context, collectionID, itemID string) error
	UpdateItemOrder(ctx context.Context, collectionID string, items []Item) ([]Item, error)
}

// Editor holds a collection's items while the user reorders and deletes them.
// Reorders stay local until Save. Deletes go to the server right away and
// cannot be undone.
type Editor struct {
	api          ItemAPI
	collectionID string
	items        []Item
	dirty        bool
	itemsDeleted bool
	closed       bool
}

func NewEditor(api ItemAPI, collection *Collection) *Editor {
	items := slices.Clone(collection.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ItemOrder < items[j].ItemOrder })
	return &Editor{api: api, collectionID: collection.ID, items: items}
}

// Items returns a copy of the current local order.
func (e *Editor) Items() []Item { return slices.Clone(e.items) }

func (e *Editor) Dirty() bool { return e.dirty }

func (e *Editor) ItemsDeleted() bool { return e.itemsDeleted }

func (e *Editor) Closed() bool { return e.closed }

// Move takes the item at from out of the list and inserts it at to.
func (e *Editor) Move(from, to int) error {
	if e.closed {
		return ErrEditorClosed
	}
	if from < 0 || from >= len(e.items) || to < 0 || to >= len(e.items) {
		return fmt.Errorf("move %d -> %d with %d items: %w", from, to, len(e.items), ErrOutOfRange)
	}
	if from == to {
		return nil
	}

	item := e.items[from]
	e.items = slices.Delete(e.items, from, from+1)
	e.items = slices.Insert(e.items, to, item)
	e.dirty = true
	return nil
}

// DeleteItem removes the item on the server first and only then locally.
func (e *Editor) DeleteItem(ctx context.Context, itemID string) error {
	if e.closed {
		return ErrEditorClosed
	}
	idx := slices.IndexFunc(e.items, func(it Item) bool { return it.ID == itemID })
	if idx < 0 {
		return ErrItemNotFound
	}

	if err := e.api.DeleteItem(ctx, e.collectionID, itemID); err != nil {
		return err
	}
	e.items = slices.Delete(e.items, idx, idx+1)
	e.itemsDeleted = true
	return nil
}

// Save persists the current order as itemOrder 0..N-1 and closes the editor.
// On failure nothing local changes, so Save can be retried.
func (e *Editor) Save(ctx context.Context) error {
	if e.closed {
		return ErrEditorClosed
	}

	renumbered := slices.Clone(e.items)
	for i := range renumbered {
		renumbered[i].ItemOrder = i
	}

	if _, err := e.api.UpdateItemOrder(ctx, e.collectionID, renumbered); err != nil {
		return err
	}

	e.items = renumbered
	e.dirty = false
	e.itemsDeleted = false
	e.closed = true
	return nil
}

// Close asks confirm before dropping unsaved changes. It reports whether the
// editor ended up closed.
func (e *Editor) Close(confirm func() bool) bool {
	if e.closed {
		return true
	}
	if (e.dirty || e.itemsDeleted) && (confirm == nil || !confirm()) {
		return false
	}
	e.closed = true
	return true
}

package domain

import (
	"fmt"
	"time"
)

// ContentType is the kind of recommendation stored in a collection
type ContentType string

const (
	ContentMusic    ContentType = "music"
	ContentActivity ContentType = "activity"
	ContentBook     ContentType = "book"
)

var ContentTypes = []ContentType{ContentMusic, ContentActivity, ContentBook}

func (c ContentType) Valid() bool {
	switch c {
	case ContentMusic, ContentActivity, ContentBook:
		return true
	}
	return false
}

// Collection is a user-owned, named group of recommendation items
type Collection struct {
	ID          int64            `json:"collectionId"`
	OwnerEmail  string           `json:"ownerEmail"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	IsPublic    bool             `json:"isPublic"`
	Items       []CollectionItem `json:"items"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// CollectionItem is one recommendation placed into a collection.
// ItemOrder defines its display sequence.
type CollectionItem struct {
	ID           int64       `json:"collectionItemId"`
	CollectionID int64       `json:"collectionId"`
	ContentType  ContentType `json:"contentType"`
	ContentTitle string      `json:"contentTitle"`
	AddedAt      time.Time   `json:"addedAt"`
	ItemOrder    int         `json:"itemOrder"`
}

// CollectionInput is what the create form submits
type CollectionInput struct {
	Name        string
	Description string
	IsPublic    bool
}

// CollectionPatch holds the subset of fields an update touches. Nil means unchanged.
type CollectionPatch struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// ItemOrder is one entry of a full-update request
type ItemOrder struct {
	ID        int64 `json:"id"`
	ItemOrder int   `json:"itemOrder"`
}

func (c *Collection) OwnedBy(email string) bool {
	return email != "" && c.OwnerEmail == email
}

// VisibleTo reports whether the viewer may read the collection: owners always, others only when public.
func (c *Collection) VisibleTo(email string) bool {
	return c.IsPublic || c.OwnedBy(email)
}

// CheckDenseOrder verifies the items are ordered 0..N-1 as stored.
func CheckDenseOrder(items []CollectionItem) error {
	for i, it := range items {
		if it.ItemOrder != i {
			return fmt.Errorf("item %d has order %d at position %d", it.ID, it.ItemOrder, i)
		}
	}
	return nil
}

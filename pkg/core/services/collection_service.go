package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/ports"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
	maxTitleLength       = 200
)

type CollectionService struct {
	repo ports.CollectionRepository
}

func NewCollectionService(repo ports.CollectionRepository) *CollectionService {
	return &CollectionService{repo: repo}
}

func (s *CollectionService) CreateCollection(ctx context.Context, owner string, in domain.CollectionInput) (*domain.Collection, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLength {
		return nil, domain.NewValidationError("description", fmt.Sprintf("description must be at most %d characters long", maxDescriptionLength))
	}

	now := time.Now().UTC()
	collection := &domain.Collection{
		OwnerEmail:  owner,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		IsPublic:    in.IsPublic,
		Items:       []domain.CollectionItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return collection, nil
}

// GetCollection returns the collection with its items. Private collections
// look missing to anyone but their owner.
func (s *CollectionService) GetCollection(ctx context.Context, viewer string, id int64) (*domain.Collection, error) {
	collection, err := s.repo.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	if collection == nil || !collection.VisibleTo(viewer) {
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.GetCollectionItems(ctx, id)
	if err != nil {
		return nil, err
	}
	collection.Items = items
	return collection, nil
}

func (s *CollectionService) UpdateCollection(ctx context.Context, owner string, id int64, patch domain.CollectionPatch) (*domain.Collection, error) {
	collection, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := validateName(*patch.Name)
		if err != nil {
			return nil, err
		}
		collection.Name = name
	}
	if patch.Description != nil {
		if utf8.RuneCountInString(*patch.Description) > maxDescriptionLength {
			return nil, domain.NewValidationError("description", fmt.Sprintf("description must be at most %d characters long", maxDescriptionLength))
		}
		collection.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsPublic != nil {
		collection.IsPublic = *patch.IsPublic
	}
	collection.UpdatedAt = time.Now().UTC()

	// No version check: last writer wins.
	if err := s.repo.UpdateCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("update collection %d: %w", id, err)
	}

	items, err := s.repo.GetCollectionItems(ctx, id)
	if err != nil {
		return nil, err
	}
	collection.Items = items
	return collection, nil
}

func (s *CollectionService) DeleteCollection(ctx context.Context, owner string, id int64) error {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return err
	}
	return s.repo.DeleteCollection(ctx, id)
}

func (s *CollectionService) ListUserCollections(ctx context.Context, owner string) ([]domain.Collection, error) {
	return s.repo.ListCollectionsByOwner(ctx, owner)
}

func (s *CollectionService) AddItem(ctx context.Context, owner string, collectionID int64, contentType domain.ContentType, title string) (*domain.CollectionItem, error) {
	if !contentType.Valid() {
		return nil, domain.NewValidationError("contentType", "contentType must be one of the following values: music activity book")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("contentTitle", "contentTitle is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, domain.NewValidationError("contentTitle", fmt.Sprintf("contentTitle must be at most %d characters long", maxTitleLength))
	}
	if _, err := s.owned(ctx, owner, collectionID); err != nil {
		return nil, err
	}

	item := &domain.CollectionItem{
		CollectionID: collectionID,
		ContentType:  contentType,
		ContentTitle: title,
		AddedAt:      time.Now().UTC(),
	}
	if err := s.repo.AppendItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add item to collection %d: %w", collectionID, err)
	}
	return item, nil
}

func (s *CollectionService) RemoveItem(ctx context.Context, owner string, collectionID, itemID int64) error {
	if _, err := s.owned(ctx, owner, collectionID); err != nil {
		return err
	}
	removed, err := s.repo.RemoveItem(ctx, collectionID, itemID)
	if err != nil {
		return fmt.Errorf("remove item %d: %w", itemID, err)
	}
	if !removed {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItemOrder applies a full-update. Every item of the collection must be
// listed exactly once; the given orders only rank the entries and are
// renumbered to 0..N-1 before they are stored.
func (s *CollectionService) ReplaceItemOrder(ctx context.Context, owner string, collectionID int64, entries []domain.ItemOrder) ([]domain.CollectionItem, error) {
	if _, err := s.owned(ctx, owner, collectionID); err != nil {
		return nil, err
	}

	current, err := s.repo.GetCollectionItems(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	orderedIDs, err := rankEntries(current, entries)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceItemOrder(ctx, collectionID, orderedIDs); err != nil {
		return nil, fmt.Errorf("reorder collection %d: %w", collectionID, err)
	}

	items, err := s.repo.GetCollectionItems(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckDenseOrder(items); err != nil {
		return nil, fmt.Errorf("reorder collection %d: %w", collectionID, err)
	}
	return items, nil
}

func rankEntries(current []domain.CollectionItem, entries []domain.ItemOrder) ([]int64, error) {
	if len(entries) != len(current) {
		return nil, fmt.Errorf("%w: got %d entries for %d items", domain.ErrInvalidOrder, len(entries), len(current))
	}

	known := make(map[int64]bool, len(current))
	for _, it := range current {
		known[it.ID] = false
	}
	for _, e := range entries {
		seen, ok := known[e.ID]
		if !ok {
			return nil, fmt.Errorf("%w: item %d is not in this collection", domain.ErrInvalidOrder, e.ID)
		}
		if seen {
			return nil, fmt.Errorf("%w: item %d listed twice", domain.ErrInvalidOrder, e.ID)
		}
		known[e.ID] = true
	}

	ranked := make([]domain.ItemOrder, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].ItemOrder < ranked[j].ItemOrder })

	ids := make([]int64, len(ranked))
	for i, e := range ranked {
		ids[i] = e.ID
	}
	return ids, nil
}

func (s *CollectionService) owned(ctx context.Context, owner string, id int64) (*domain.Collection, error) {
	collection, err := s.repo.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, domain.ErrNotFound
	}
	if !collection.OwnedBy(owner) {
		return nil, domain.ErrForbidden
	}
	return collection, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", domain.NewValidationError("name", fmt.Sprintf("name must be at most %d characters long", maxNameLength))
	}
	return name, nil
}

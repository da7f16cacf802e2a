package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
	"github.com/wadjakorntonsri/moodsync/pkg/ports"
)

type CollectionHandler struct {
	service   ports.CollectionService
	validator *Validator
}

func NewCollectionHandler(service ports.CollectionService, validator *Validator) *CollectionHandler {
	return &CollectionHandler{service: service, validator: validator}
}

type createCollectionRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsPublic    bool   `json:"isPublic"`
}

type updateCollectionRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

type addItemRequest struct {
	ContentType  string `json:"contentType" validate:"required,oneof=music activity book"`
	ContentTitle string `json:"contentTitle" validate:"required,max=200"`
}

func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if !h.validator.decodeAndValidate(w, r, &req) {
		return
	}

	collection, err := h.service.CreateCollection(r.Context(), UserFromContext(r.Context()), domain.CollectionInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("Collection created", "collection_id", collection.ID)
	writeJSON(w, http.StatusCreated, collection)
}

func (h *CollectionHandler) ListUserCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.ListUserCollections(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collections)
}

// GetCollection backs both the owner view and the public share view.
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	collection, err := h.service.GetCollection(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collection)
}

func (h *CollectionHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var req updateCollectionRequest
	if !h.validator.decodeAndValidate(w, r, &req) {
		return
	}

	collection, err := h.service.UpdateCollection(r.Context(), UserFromContext(r.Context()), id, domain.CollectionPatch{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collection)
}

func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	if err := h.service.DeleteCollection(r.Context(), UserFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("Collection deleted", "collection_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := pathID(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid Collection ID")
		return
	}

	var req addItemRequest
	if !h.validator.decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.service.AddItem(r.Context(), UserFromContext(r.Context()), collectionID,
		domain.ContentType(req.ContentType), req.ContentTitle)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *CollectionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := pathID(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid Collection ID")
		return
	}
	itemID, ok := pathID(r, "itemId")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid Item ID")
		return
	}

	if err := h.service.RemoveItem(r.Context(), UserFromContext(r.Context()), collectionID, itemID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FullUpdate replaces the order of every item in the collection.
func (h *CollectionHandler) FullUpdate(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := pathID(r, "id")
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid Collection ID")
		return
	}

	var entries []domain.ItemOrder
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&entries); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items, err := h.service.ReplaceItemOrder(r.Context(), UserFromContext(r.Context()), collectionID, entries)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("Collection reordered", "collection_id", collectionID, "items", len(items))
	writeJSON(w, http.StatusOK, items)
}

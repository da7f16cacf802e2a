package services

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
)

//go:embed catalog.json
var catalogJSON []byte

type catalogFile struct {
	Emotions        []domain.Emotion        `json:"emotions"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// CatalogService serves the static demo catalog of moods and suggestions.
// There is no ranking; entries come back in file order.
type CatalogService struct {
	emotions []domain.Emotion
	byMood   map[string][]domain.Recommendation
}

func NewCatalogService() (*CatalogService, error) {
	var f catalogFile
	if err := json.Unmarshal(catalogJSON, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	s := &CatalogService{
		emotions: f.Emotions,
		byMood:   make(map[string][]domain.Recommendation, len(f.Emotions)),
	}
	for _, e := range f.Emotions {
		s.byMood[e.Key] = []domain.Recommendation{}
	}
	for _, r := range f.Recommendations {
		if _, ok := s.byMood[r.Emotion]; !ok {
			return nil, fmt.Errorf("recommendation %q references unknown emotion %q", r.Title, r.Emotion)
		}
		if !r.ContentType.Valid() {
			return nil, fmt.Errorf("recommendation %q has invalid content type %q", r.Title, r.ContentType)
		}
		s.byMood[r.Emotion] = append(s.byMood[r.Emotion], r)
	}
	return s, nil
}

func (s *CatalogService) Emotions() []domain.Emotion {
	return s.emotions
}

// Recommendations lists suggestions for a mood, optionally narrowed to one content type.
func (s *CatalogService) Recommendations(emotion string, contentType domain.ContentType) ([]domain.Recommendation, error) {
	recs, ok := s.byMood[strings.ToLower(strings.TrimSpace(emotion))]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if contentType == "" {
		return recs, nil
	}
	if !contentType.Valid() {
		return nil, domain.NewValidationError("type", "type must be one of the following values: music activity book")
	}

	out := []domain.Recommendation{}
	for _, r := range recs {
		if r.ContentType == contentType {
			out = append(out, r)
		}
	}
	return out, nil
}

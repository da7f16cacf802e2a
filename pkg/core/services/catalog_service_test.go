package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
)

func TestCatalog(t *testing.T) {
	s, err := NewCatalogService()
	require.NoError(t, err)
	require.NotEmpty(t, s.Emotions())

	all, err := s.Recommendations("Happy", "")
	require.NoError(t, err)
	assert.NotEmpty(t, all)

	music, err := s.Recommendations("happy", domain.ContentMusic)
	require.NoError(t, err)
	require.NotEmpty(t, music)
	for _, r := range music {
		assert.Equal(t, domain.ContentMusic, r.ContentType)
	}
	assert.Less(t, len(music), len(all))

	_, err = s.Recommendations("bored", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Recommendations("happy", "movie")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

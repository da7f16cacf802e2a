package trainingdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"height":170,"weight":85,"label":1},{"height":160,"weight":50,"label":0}]`))
	}))
	defer srv.Close()

	samples, err := NewClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 85.0, samples[0].Weight)
	assert.Equal(t, 1, samples[0].Label)
}

func TestFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background())
	assert.ErrorContains(t, err, "502")

	_, err = NewClient("").Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNoSource)
}

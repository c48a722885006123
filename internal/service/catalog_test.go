package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/concert-reservation/internal/model"
	"github.com/iliyamo/concert-reservation/internal/repository"
)

func TestCreateConcert(t *testing.T) {
	cs := newMemConcerts()
	cat := NewCatalog(cs)

	concert, err := cat.Create(context.Background(), "  Aurora Live  ", "open air", 500)
	require.NoError(t, err)
	assert.Equal(t, "Aurora Live", concert.Name, "name is trimmed")
	assert.Equal(t, uint32(500), concert.Capacity)
	assert.NotZero(t, concert.ID)
}

func TestCreateConcertValidation(t *testing.T) {
	cat := NewCatalog(newMemConcerts())
	ctx := context.Background()

	cases := []struct {
		name     string
		detail   string
		capacity int
		wantMsg  string
	}{
		{"", "detail", 10, "name is required"},
		{"   ", "detail", 10, "name is required"},
		{"show", "", 10, "detail is required"},
		{"show", "detail", 0, "capacity must be at least 1"},
		{"show", "detail", -5, "capacity must be at least 1"},
	}
	for _, tc := range cases {
		_, err := cat.Create(ctx, tc.name, tc.detail, tc.capacity)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, tc.wantMsg, verr.Msg)
	}
}

func TestCreateConcertDuplicateName(t *testing.T) {
	cat := NewCatalog(newMemConcerts())
	ctx := context.Background()

	_, err := cat.Create(ctx, "Aurora Live", "open air", 500)
	require.NoError(t, err)

	_, err = cat.Create(ctx, "Aurora Live", "another detail", 100)
	assert.ErrorIs(t, err, repository.ErrConcertExists)
}

func TestDeleteConcertIdempotent(t *testing.T) {
	cs := newMemConcerts(model.Concert{Name: "Aurora Live", Detail: "open air", Capacity: 100})
	cat := NewCatalog(cs)
	ctx := context.Background()

	affected, err := cat.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = cat.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestCatalogStorageFailure(t *testing.T) {
	cs := newMemConcerts()
	cs.err = errStorage
	cat := NewCatalog(cs)

	_, err := cat.List(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamforms/internal/apperrors"
	"streamforms/internal/models"
)

func TestStreamCreateAndFind(t *testing.T) {
	repo := NewStreamRepository(setupTestDB(t))

	stream := &models.Stream{
		Name:     "Gate Camera 1",
		URL:      "https://cdn.example.com/gate1/index.m3u8",
		IsActive: true,
	}
	require.NoError(t, repo.Create(stream))
	assert.NotZero(t, stream.ID)

	found, err := repo.FindByID(stream.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gate Camera 1", found.Name)
	assert.True(t, found.IsActive)
}

func TestStreamFindAllNewestFirst(t *testing.T) {
	repo := NewStreamRepository(setupTestDB(t))

	older := &models.Stream{Name: "Old", URL: "https://example.com/old.m3u8", IsActive: true, CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Stream{Name: "New", URL: "https://example.com/new.m3u8", IsActive: true, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	streams, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, streams, 2)
	assert.Equal(t, "New", streams[0].Name)
	assert.Equal(t, "Old", streams[1].Name)
}

func TestStreamFindActiveFiltersInactive(t *testing.T) {
	repo := NewStreamRepository(setupTestDB(t))

	require.NoError(t, repo.Create(&models.Stream{Name: "On", URL: "https://example.com/on.m3u8", IsActive: true}))
	require.NoError(t, repo.Create(&models.Stream{Name: "Off", URL: "https://example.com/off.m3u8", IsActive: false}))

	streams, err := repo.FindActive()
	require.NoError(t, err)
	require.Len(t, streams, 1)
	assert.Equal(t, "On", streams[0].Name)
}

func TestStreamUpdateAndDelete(t *testing.T) {
	repo := NewStreamRepository(setupTestDB(t))

	stream := &models.Stream{Name: "Gate", URL: "https://example.com/gate.m3u8", IsActive: true}
	require.NoError(t, repo.Create(stream))

	stream.IsActive = false
	require.NoError(t, repo.Update(stream))

	found, err := repo.FindByID(stream.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	require.NoError(t, repo.Delete(stream.ID))
	_, err = repo.FindByID(stream.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStreamDeleteNotFound(t *testing.T) {
	repo := NewStreamRepository(setupTestDB(t))

	err := repo.Delete(12345)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

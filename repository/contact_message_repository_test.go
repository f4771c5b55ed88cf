package repository

import (
	"context"
	"testing"

	"github.com/raf-advanced/maintenance-api/models"
	apptesting "github.com/raf-advanced/maintenance-api/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactMessageRepository_SaveAndLookup(t *testing.T) {
	tdb := setupRepoTest(t)
	repo := NewContactMessageRepository(tdb.DB)

	row := &models.ContactMessage{
		Name:        "Noura Alharbi",
		PhoneNumber: "+966501112233",
		Email:       "noura@example.com",
		Content:     "When will the new phase open for booking?",
	}
	require.NoError(t, repo.Save(context.Background(), row))
	assert.NotZero(t, row.ID)
	assert.NotEmpty(t, row.UUID)

	t.Run("by uuid", func(t *testing.T) {
		got, err := repo.ByUUID(context.Background(), row.UUID.String())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Noura Alharbi", got.Name)
	})

	t.Run("by filter phone", func(t *testing.T) {
		phone := "+966501112233"
		rows, err := repo.ByFilter(context.Background(), models.ContactMessageFilter{PhoneNumber: &phone}, "", 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})
}

func TestContactMessageRepository_Count(t *testing.T) {
	tdb := setupRepoTest(t)
	repo := NewContactMessageRepository(tdb.DB)
	fixtures := apptesting.NewTestFixtures(tdb)

	for i := 0; i < 2; i++ {
		_, err := fixtures.CreateTestContactMessage()
		require.NoError(t, err)
	}

	n, err := repo.Count(context.Background(), models.ContactMessageFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

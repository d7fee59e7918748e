package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"zip-gate/internal/model"
	"zip-gate/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewCodeRepository(testDB.Pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("Create and retrieve round-trip", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		created, err := repo.Create(ctx, &model.CodeRecord{
			ZipCode:      "90210",
			Availability: model.AvailabilityAvailable,
			Message:      "Free delivery!",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Positive(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.IsZero())

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, created.ZipCode, byID.ZipCode)
		assert.Equal(t, created.Message, byID.Message)

		byCode, err := repo.GetByCode(ctx, "90210")
		require.NoError(t, err)
		require.NotNil(t, byCode)
		assert.Equal(t, created.ID, byCode.ID)
	})

	t.Run("Duplicate zip code is rejected", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		_, err := repo.Create(ctx, &model.CodeRecord{
			ZipCode:      "90210",
			Availability: model.AvailabilityAvailable,
		})
		require.NoError(t, err)

		_, err = repo.Create(ctx, &model.CodeRecord{
			ZipCode:      "90210",
			Availability: model.AvailabilityUnavailable,
		})
		assert.ErrorIs(t, err, repository.ErrDuplicateCode)
	})

	t.Run("GetByID returns nil for missing record", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		rec, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("Update advances updated_at and persists last write", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		created, err := repo.Create(ctx, &model.CodeRecord{
			ZipCode:      "10001",
			Availability: model.AvailabilityAvailable,
		})
		require.NoError(t, err)

		first := *created
		first.Message = "first write"
		updated1, err := repo.Update(ctx, &first)
		require.NoError(t, err)
		require.NotNil(t, updated1)
		assert.True(t, updated1.UpdatedAt.After(created.UpdatedAt))

		second := *created
		second.Availability = model.AvailabilityUnavailable
		second.Message = "second write"
		updated2, err := repo.Update(ctx, &second)
		require.NoError(t, err)
		require.NotNil(t, updated2)
		assert.True(t, updated2.UpdatedAt.After(updated1.UpdatedAt))

		// The stored record is the second writer's whole record.
		stored, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AvailabilityUnavailable, stored.Availability)
		assert.Equal(t, "second write", stored.Message)
	})

	t.Run("Concurrent updates serialize and the last commit wins", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		created, err := repo.Create(ctx, &model.CodeRecord{
			ZipCode:      "30301",
			Availability: model.AvailabilityAvailable,
		})
		require.NoError(t, err)

		writers := []model.CodeRecord{
			{ID: created.ID, ZipCode: created.ZipCode, Availability: model.AvailabilityAvailable, Message: "writer one"},
			{ID: created.ID, ZipCode: created.ZipCode, Availability: model.AvailabilityUnavailable, Message: "writer two"},
		}

		results := make([]*model.CodeRecord, len(writers))
		errs := make([]error, len(writers))

		var wg sync.WaitGroup
		for i := range writers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec := writers[i]
				results[i], errs[i] = repo.Update(ctx, &rec)
			}(i)
		}
		wg.Wait()

		// Both writers succeed; the row lock serializes them.
		for i := range writers {
			require.NoError(t, errs[i])
			require.NotNil(t, results[i])
		}

		last := 0
		if results[1].UpdatedAt.After(results[0].UpdatedAt) {
			last = 1
		}

		// The stored record is wholly the later committer's write.
		stored, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, writers[last].Availability, stored.Availability)
		assert.Equal(t, writers[last].Message, stored.Message)
		assert.True(t, stored.UpdatedAt.Equal(results[last].UpdatedAt))
	})

	t.Run("Update returns nil for missing record", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		rec, err := repo.Update(ctx, &model.CodeRecord{
			ID:           999999,
			ZipCode:      "10001",
			Availability: model.AvailabilityAvailable,
		})
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("Delete removes record and IDs are never reused", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		first, err := repo.Create(ctx, &model.CodeRecord{
			ZipCode:      "60601",
			Availability: model.AvailabilityAvailable,
		})
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		gone, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		// Re-creating the same zip code mints a fresh ID.
		second, err := repo.Create(ctx, &model.CodeRecord{
			ZipCode:      "60601",
			Availability: model.AvailabilityAvailable,
		})
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)

		deleted, err = repo.Delete(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("List filters by search and availability", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCodes(t, testDB.Pool)

		items, total, err := repo.List(ctx, model.ListParams{
			Search:  "90",
			OrderBy: "id",
			Order:   "ASC",
			Page:    1,
			PerPage: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "90210", items[0].ZipCode)

		items, total, err = repo.List(ctx, model.ListParams{
			Availability: model.AvailabilityUnavailable,
			OrderBy:      "zip_code",
			Order:        "ASC",
			Page:         1,
			PerPage:      10,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, items, 2)
		assert.Equal(t, "60601", items[0].ZipCode)
		assert.Equal(t, "SW1A 1AA", items[1].ZipCode)
	})

	t.Run("Search matches LIKE metacharacters literally", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		_, err := repo.Create(ctx, &model.CodeRecord{
			ZipCode:      "10001",
			Availability: model.AvailabilityAvailable,
			Message:      "100% free delivery",
		})
		require.NoError(t, err)
		_, err = repo.Create(ctx, &model.CodeRecord{
			ZipCode:      "10002",
			Availability: model.AvailabilityAvailable,
			Message:      "1000s of happy customers",
		})
		require.NoError(t, err)

		// "100%" is a literal substring of only the first message; without
		// escaping the trailing % would act as a wildcard and match both.
		items, total, err := repo.List(ctx, model.ListParams{
			Search:  "100%",
			OrderBy: "id",
			Order:   "ASC",
			Page:    1,
			PerPage: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "10001", items[0].ZipCode)
	})

	t.Run("Pagination covers every record exactly once", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		const n = 23
		for i := 0; i < n; i++ {
			_, err := repo.Create(ctx, &model.CodeRecord{
				ZipCode:      fmt.Sprintf("10%03d", i),
				Availability: model.AvailabilityAvailable,
			})
			require.NoError(t, err)
		}

		seen := make(map[int64]bool)
		for page := 1; ; page++ {
			items, total, err := repo.List(ctx, model.ListParams{
				OrderBy: "id",
				Order:   "ASC",
				Page:    page,
				PerPage: 5,
			})
			require.NoError(t, err)
			assert.Equal(t, n, total)

			if len(items) == 0 {
				break
			}
			for _, item := range items {
				assert.False(t, seen[item.ID], "record %d returned twice", item.ID)
				seen[item.ID] = true
			}
		}

		assert.Len(t, seen, n)
	})
}

package repository_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"seoul-store-crawler/internal/models"
	"seoul-store-crawler/internal/repository"
	testutil "seoul-store-crawler/internal/testing"
	"seoul-store-crawler/pkg/logging"
)

func buildStore(placeID, name string) models.Store {
	phone := "02-123-4567"
	hoursText := "매일 11:00 - 22:00"
	return models.Store{
		DiningcodePlaceID: placeID,
		Name:              name,
		BasicAddress:      "서울 마포구",
		Address:           "서울특별시 마포구 양화로 12",
		Phone:             &phone,
		HoursText:         &hoursText,
		RawCategories:     []string{"고기", "무한리필"},
		Keyword:           "무한리필",
		Status:            models.StatusPending,
	}
}

func TestStoreRepository_UpsertAndFetch(t *testing.T) {
	t.Parallel()
	dbtest := testutil.NewDBTest(t)
	defer dbtest.Close()

	prefix := fmt.Sprintf("it-%d-", rand.Int63())
	defer dbtest.CleanupStores(prefix)

	repo := repository.NewStoreRepository(dbtest.DB, logging.Discard())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores := []models.Store{
		buildStore(prefix+"a", "가게 A"),
		buildStore(prefix+"b", "가게 B"),
	}
	if err := repo.UpsertStores(ctx, stores); err != nil {
		t.Fatalf("UpsertStores: %v", err)
	}

	// Re-upserting the same place IDs must update, not duplicate.
	stores[0].Name = "가게 A 리뉴얼"
	if err := repo.UpsertStores(ctx, stores[:1]); err != nil {
		t.Fatalf("UpsertStores (again): %v", err)
	}

	pending, err := repo.GetPendingStores(ctx, 1000)
	if err != nil {
		t.Fatalf("GetPendingStores: %v", err)
	}

	var found *models.Store
	count := 0
	for i := range pending {
		if len(pending[i].DiningcodePlaceID) >= len(prefix) && pending[i].DiningcodePlaceID[:len(prefix)] == prefix {
			count++
			if pending[i].DiningcodePlaceID == prefix+"a" {
				found = &pending[i]
			}
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 test stores pending, got %d", count)
	}
	if found == nil || found.Name != "가게 A 리뉴얼" {
		t.Fatalf("upsert did not update name: %+v", found)
	}
	if len(found.RawCategories) != 2 {
		t.Errorf("raw categories not round-tripped: %v", found.RawCategories)
	}
}

func TestStoreRepository_SaveEnhancedAndMarkFailed(t *testing.T) {
	t.Parallel()
	dbtest := testutil.NewDBTest(t)
	defer dbtest.Close()

	prefix := fmt.Sprintf("it-%d-", rand.Int63())
	defer dbtest.CleanupStores(prefix)

	repo := repository.NewStoreRepository(dbtest.DB, logging.Discard())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repo.UpsertStores(ctx, []models.Store{
		buildStore(prefix+"x", "성공 가게"),
		buildStore(prefix+"y", "실패 가게"),
	}); err != nil {
		t.Fatalf("UpsertStores: %v", err)
	}

	pending, err := repo.GetPendingStores(ctx, 1000)
	if err != nil {
		t.Fatalf("GetPendingStores: %v", err)
	}

	var success, failure *models.Store
	for i := range pending {
		switch pending[i].DiningcodePlaceID {
		case prefix + "x":
			success = &pending[i]
		case prefix + "y":
			failure = &pending[i]
		}
	}
	if success == nil || failure == nil {
		t.Fatal("test stores not found among pending")
	}

	open := "월: 11:00-22:00, 화: 11:00-22:00"
	lastOrder := "21:00"
	minPrice := 15000
	success.OpenHours = &open
	success.LastOrder = &lastOrder
	success.MinPrice = &minPrice
	success.Tags = []string{"고기", "무한리필"}
	if err := repo.SaveEnhanced(ctx, success); err != nil {
		t.Fatalf("SaveEnhanced: %v", err)
	}

	if err := repo.MarkFailed(ctx, failure.ID, "geocode: quota exceeded"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	enhanced, err := repo.SearchStores(ctx, "성공 가게", 10)
	if err != nil {
		t.Fatalf("SearchStores: %v", err)
	}
	if len(enhanced) != 1 {
		t.Fatalf("expected 1 enhanced store, got %d", len(enhanced))
	}

	stats, err := repo.GetStoreStats(ctx)
	if err != nil {
		t.Fatalf("GetStoreStats: %v", err)
	}
	if stats.Total == 0 {
		t.Error("expected non-zero store total")
	}
}

func TestStoreRepository_SaveEnhancedMissingStore(t *testing.T) {
	t.Parallel()
	dbtest := testutil.NewDBTest(t)
	defer dbtest.Close()

	repo := repository.NewStoreRepository(dbtest.DB, logging.Discard())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := models.Store{ID: -1}
	if err := repo.SaveEnhanced(ctx, &store); err == nil {
		t.Fatal("expected error for nonexistent store")
	}
}

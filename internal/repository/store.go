// Package repository holds the SQL access layer for crawled stores.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"seoul-store-crawler/internal/models"
	"seoul-store-crawler/internal/validation"
	"seoul-store-crawler/pkg/database"
	errs "seoul-store-crawler/pkg/errors"
	"seoul-store-crawler/pkg/logging"
)

type StoreRepository struct {
	db  *database.DB
	log *logging.ComponentLogger
}

func NewStoreRepository(db *database.DB, log *logging.Logger) *StoreRepository {
	return &StoreRepository{
		db:  db,
		log: log.WithComponent("repository"),
	}
}

// UpsertStores inserts crawled stores, updating crawl-sourced columns on
// conflict. Enhancement columns are left alone so a re-crawl never wipes
// parsed hours or geocoded coordinates.
func (r *StoreRepository) UpsertStores(ctx context.Context, stores []models.Store) error {
	if len(stores) == 0 {
		return nil
	}

	ctx, cancel := r.db.WithWriteTimeout(ctx)
	defer cancel()

	tx, err := r.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDB("repository.UpsertStores", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO stores
		(diningcode_place_id, name, basic_address, address, phone, raw_categories,
		 price_text, description, hours_text, detail_url, keyword, rect_area,
		 rating, status, lat, lng)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		 name = VALUES(name),
		 basic_address = VALUES(basic_address),
		 address = VALUES(address),
		 phone = VALUES(phone),
		 raw_categories = VALUES(raw_categories),
		 price_text = VALUES(price_text),
		 description = VALUES(description),
		 hours_text = VALUES(hours_text),
		 detail_url = VALUES(detail_url),
		 rating = VALUES(rating),
		 updated_at = NOW()`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return errs.NewDB("repository.UpsertStores", "failed to prepare upsert", err)
	}
	defer stmt.Close()

	skipped := 0
	for _, store := range stores {
		if err := validation.ValidateStore(&store); err != nil {
			r.log.Warn("skipping invalid store",
				logging.String("place_id", store.DiningcodePlaceID),
				logging.String("reason", err.Error()))
			skipped++
			continue
		}

		rawCats, err := json.Marshal(store.RawCategories)
		if err != nil {
			return errs.NewDB("repository.UpsertStores", "failed to marshal raw categories", err)
		}

		status := store.Status
		if status == "" {
			status = models.StatusPending
		}

		_, err = stmt.ExecContext(ctx,
			store.DiningcodePlaceID, store.Name, store.BasicAddress, store.Address,
			store.Phone, string(rawCats), store.PriceText, store.Description,
			store.HoursText, store.DetailURL, store.Keyword, store.RectArea,
			store.Rating, status, store.Lat, store.Lng,
		)
		if err != nil {
			return errs.NewDB("repository.UpsertStores",
				fmt.Sprintf("failed to upsert store %s", store.DiningcodePlaceID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errs.NewDB("repository.UpsertStores", "failed to commit", err)
	}

	r.log.Info("stores upserted",
		logging.Int("count", len(stores)-skipped),
		logging.Int("skipped", skipped))
	return nil
}

// GetPendingStores returns stores awaiting enhancement, oldest first.
func (r *StoreRepository) GetPendingStores(ctx context.Context, limit int) ([]models.Store, error) {
	ctx, cancel := r.db.WithReadTimeout(ctx)
	defer cancel()

	query := `SELECT id, diningcode_place_id, name, basic_address, address, phone,
		raw_categories, price_text, description, hours_text, detail_url, keyword,
		rect_area, rating, status, lat, lng
		FROM stores
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT ?`

	rows, err := r.db.Conn().QueryContext(ctx, query, models.StatusPending, limit)
	if err != nil {
		return nil, errs.NewDB("repository.GetPendingStores", "failed to query pending stores", err)
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		store, err := scanStoreRow(rows)
		if err != nil {
			return nil, errs.NewDB("repository.GetPendingStores", "failed to scan store row", err)
		}
		stores = append(stores, *store)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("repository.GetPendingStores", "row iteration error", err)
	}

	return stores, nil
}

func scanStoreRow(rows *sql.Rows) (*models.Store, error) {
	var store models.Store
	var rawCats sql.NullString

	err := rows.Scan(
		&store.ID, &store.DiningcodePlaceID, &store.Name, &store.BasicAddress,
		&store.Address, &store.Phone, &rawCats, &store.PriceText,
		&store.Description, &store.HoursText, &store.DetailURL, &store.Keyword,
		&store.RectArea, &store.Rating, &store.Status, &store.Lat, &store.Lng,
	)
	if err != nil {
		return nil, err
	}

	if rawCats.Valid && rawCats.String != "" {
		if err := json.Unmarshal([]byte(rawCats.String), &store.RawCategories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal raw categories: %w", err)
		}
	}
	return &store, nil
}

// SaveEnhanced persists the enhancement output columns for a store.
func (r *StoreRepository) SaveEnhanced(ctx context.Context, store *models.Store) error {
	ctx, cancel := r.db.WithWriteTimeout(ctx)
	defer cancel()

	tags, err := json.Marshal(store.Tags)
	if err != nil {
		return errs.NewDB("repository.SaveEnhanced", "failed to marshal tags", err)
	}

	query := `UPDATE stores SET
		open_hours = ?,
		holiday = ?,
		break_time = ?,
		last_order = ?,
		min_price = ?,
		max_price = ?,
		tags = ?,
		lat = COALESCE(?, lat),
		lng = COALESCE(?, lng),
		status = ?,
		enhanced_at = NOW(),
		updated_at = NOW()
		WHERE id = ?`

	result, err := r.db.Conn().ExecContext(ctx, query,
		store.OpenHours, store.Holiday, store.BreakTime, store.LastOrder,
		store.MinPrice, store.MaxPrice, string(tags), store.Lat, store.Lng,
		models.StatusEnhanced, store.ID,
	)
	if err != nil {
		return errs.NewDB("repository.SaveEnhanced",
			fmt.Sprintf("failed to update store %d", store.ID), err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NewDB("repository.SaveEnhanced",
			fmt.Sprintf("store %d not found", store.ID), sql.ErrNoRows)
	}
	return nil
}

// MarkFailed flags a store whose enhancement gave up, keeping the reason
// for later inspection.
func (r *StoreRepository) MarkFailed(ctx context.Context, storeID int64, reason string) error {
	ctx, cancel := r.db.WithWriteTimeout(ctx)
	defer cancel()

	// Reasons can carry long wrapped error chains; the column is short.
	if len(reason) > 500 {
		reason = reason[:500]
	}

	query := `UPDATE stores SET status = ?, description = CONCAT(COALESCE(description, ''), ?), updated_at = NOW() WHERE id = ?`
	note := "\n[enhancement failed] " + reason

	if _, err := r.db.Conn().ExecContext(ctx, query, models.StatusFailed, note, storeID); err != nil {
		return errs.NewDB("repository.MarkFailed",
			fmt.Sprintf("failed to mark store %d", storeID), err)
	}
	return nil
}

// StoreStats summarizes pipeline progress across the stores table.
type StoreStats struct {
	Pending  int
	Enhanced int
	Failed   int
	Total    int
}

func (r *StoreRepository) GetStoreStats(ctx context.Context) (*StoreStats, error) {
	ctx, cancel := r.db.WithReadTimeout(ctx)
	defer cancel()

	query := `SELECT
		COUNT(CASE WHEN status = 'pending' THEN 1 END) as pending,
		COUNT(CASE WHEN status = 'enhanced' THEN 1 END) as enhanced,
		COUNT(CASE WHEN status = 'failed' THEN 1 END) as failed,
		COUNT(*) as total
		FROM stores`

	var stats StoreStats
	err := r.db.Conn().QueryRowContext(ctx, query).Scan(
		&stats.Pending, &stats.Enhanced, &stats.Failed, &stats.Total)
	if err != nil {
		return nil, errs.NewDB("repository.GetStoreStats", "failed to get store stats", err)
	}
	return &stats, nil
}

// SearchStores returns enhanced stores whose name or address matches the
// given term, newest first.
func (r *StoreRepository) SearchStores(ctx context.Context, term string, limit int) ([]models.Store, error) {
	ctx, cancel := r.db.WithReadTimeout(ctx)
	defer cancel()

	pattern := "%" + strings.TrimSpace(term) + "%"
	query := `SELECT id, diningcode_place_id, name, basic_address, address, phone,
		raw_categories, price_text, description, hours_text, detail_url, keyword,
		rect_area, rating, status, lat, lng
		FROM stores
		WHERE status = ? AND (name LIKE ? OR address LIKE ?)
		ORDER BY updated_at DESC
		LIMIT ?`

	rows, err := r.db.Conn().QueryContext(ctx, query, models.StatusEnhanced, pattern, pattern, limit)
	if err != nil {
		return nil, errs.NewDB("repository.SearchStores", "failed to search stores", err)
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		store, err := scanStoreRow(rows)
		if err != nil {
			return nil, errs.NewDB("repository.SearchStores", "failed to scan store row", err)
		}
		stores = append(stores, *store)
	}
	return stores, rows.Err()
}

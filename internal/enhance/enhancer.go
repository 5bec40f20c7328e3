// Package enhance runs the per-store enrichment pipeline: hours parsing,
// price normalization, category mapping, geocoding, and AI tag fallback.
// Each stage is independent; a failing stage degrades the record instead of
// failing the store.
package enhance

import (
	"context"
	"time"

	"seoul-store-crawler/internal/category"
	"seoul-store-crawler/internal/geocode"
	"seoul-store-crawler/internal/hours"
	"seoul-store-crawler/internal/models"
	"seoul-store-crawler/internal/price"
	"seoul-store-crawler/pkg/logging"
)

type Enhancer struct {
	hours      *hours.Parser
	price      *price.Normalizer
	categories *category.Mapper
	geocoder   *geocode.Geocoder // nil when no Maps API key is configured
	suggester  *Suggester        // nil when no OpenAI API key is configured
	log        *logging.ComponentLogger
}

func NewEnhancer(h *hours.Parser, p *price.Normalizer, c *category.Mapper, g *geocode.Geocoder, s *Suggester, log *logging.Logger) *Enhancer {
	return &Enhancer{
		hours:      h,
		price:      p,
		categories: c,
		geocoder:   g,
		suggester:  s,
		log:        log.WithComponent("enhancer"),
	}
}

// Enhance enriches a store in place and reports what changed. Stages that
// have nothing to work with (no hours text, no address) are skipped quietly.
func (e *Enhancer) Enhance(ctx context.Context, store *models.Store) *models.EnhancementResult {
	start := time.Now()
	result := &models.EnhancementResult{StoreID: store.ID}

	e.enhanceHours(store, result)
	e.enhancePrice(store, result)
	e.enhanceCategories(ctx, store, result)
	e.enhanceGeo(ctx, store, result)

	now := time.Now()
	store.EnhancedAt = &now
	store.Status = models.StatusEnhanced

	result.Success = true
	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	e.log.Info("store enhanced",
		logging.Int64("store_id", store.ID),
		logging.String("name", store.Name),
		logging.Int64("elapsed_ms", result.ProcessingTimeMs))
	return result
}

func (e *Enhancer) enhanceHours(store *models.Store, result *models.EnhancementResult) {
	if store.HoursText == nil || *store.HoursText == "" {
		return
	}

	info := e.hours.Parse(*store.HoursText)
	if info.OpenHours != "" {
		store.OpenHours = &info.OpenHours
	}
	if info.Holiday != "" {
		store.Holiday = &info.Holiday
	}
	if info.BreakTime != "" {
		store.BreakTime = &info.BreakTime
	}
	if info.LastOrder != "" {
		store.LastOrder = &info.LastOrder
	}
	result.Hours = &info
}

func (e *Enhancer) enhancePrice(store *models.Store, result *models.EnhancementResult) {
	text := ""
	if store.PriceText != nil {
		text = *store.PriceText
	}
	if text == "" && store.Description != nil {
		text = *store.Description
	}
	if text == "" {
		return
	}

	info := e.price.Normalize(text)
	if info.Type == models.PriceUnknown {
		return
	}
	if info.MinPrice > 0 {
		store.MinPrice = &info.MinPrice
	}
	if info.MaxPrice > 0 {
		store.MaxPrice = &info.MaxPrice
	}
	result.Price = &info
}

func (e *Enhancer) enhanceCategories(ctx context.Context, store *models.Store, result *models.EnhancementResult) {
	tags := e.categories.Map(store.RawCategories, store.Name)

	// The rule table covers the common cases; the model only sees stores the
	// rules could not place.
	if len(tags) == 0 && e.suggester != nil {
		suggested, err := e.suggester.SuggestCategories(ctx, store.Name, store.RawCategories)
		if err != nil {
			e.log.Warn("category suggestion failed",
				logging.Int64("store_id", store.ID),
				logging.String("error", err.Error()))
		} else {
			tags = e.categories.Map(suggested, "")
		}
	}

	if len(tags) > 0 {
		store.Tags = tags
		result.Tags = tags
	}
}

func (e *Enhancer) enhanceGeo(ctx context.Context, store *models.Store, result *models.EnhancementResult) {
	if e.geocoder == nil {
		return
	}
	if store.Lat != nil && store.Lng != nil && geocode.ValidCoordinates(*store.Lat, *store.Lng) {
		return
	}

	addr := store.Address
	if addr == "" {
		addr = store.BasicAddress
	}
	if addr == "" {
		return
	}

	geo, err := e.geocoder.Geocode(ctx, geocode.CleanAddress(addr))
	if err != nil {
		e.log.Warn("geocoding failed",
			logging.Int64("store_id", store.ID),
			logging.String("address", addr),
			logging.String("error", err.Error()))
		return
	}

	store.Lat = &geo.Lat
	store.Lng = &geo.Lng
	result.Lat = &geo.Lat
	result.Lng = &geo.Lng
	result.GeocodeConf = geo.Confidence
}

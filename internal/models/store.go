package models

import (
	"time"
)

// StoreStatus tracks where a store record sits in the pipeline.
type StoreStatus string

const (
	StatusPending  StoreStatus = "pending"
	StatusEnhanced StoreStatus = "enhanced"
	StatusFailed   StoreStatus = "failed"
	StatusClosed   StoreStatus = "closed"
)

// Store is a crawled business listing as stored in the stores table.
// Pointer fields are nullable columns.
type Store struct {
	ID                int64       `json:"id" db:"id"`
	DiningcodePlaceID string      `json:"diningcode_place_id" db:"diningcode_place_id"`
	Name              string      `json:"name" db:"name"`
	BasicAddress      string      `json:"basic_address" db:"basic_address"`
	Address           string      `json:"address" db:"address"`
	Phone             *string     `json:"phone" db:"phone"`
	Category          *string     `json:"category" db:"category"`
	RawCategories     []string    `json:"raw_categories" db:"-"`
	PriceText         *string     `json:"price_text" db:"price_text"`
	Description       *string     `json:"description" db:"description"`
	HoursText         *string     `json:"hours_text" db:"hours_text"`
	DetailURL         string      `json:"detail_url" db:"detail_url"`
	Keyword           string      `json:"keyword" db:"keyword"`
	RectArea          string      `json:"rect_area" db:"rect_area"`
	Rating            *float64    `json:"rating" db:"rating"`
	Status            StoreStatus `json:"status" db:"status"`
	Lat               *float64    `json:"lat" db:"lat"`
	Lng               *float64    `json:"lng" db:"lng"`
	OpenHours         *string     `json:"open_hours" db:"open_hours"`
	Holiday           *string     `json:"holiday" db:"holiday"`
	BreakTime         *string     `json:"break_time" db:"break_time"`
	LastOrder         *string     `json:"last_order" db:"last_order"`
	MinPrice          *int        `json:"min_price" db:"min_price"`
	MaxPrice          *int        `json:"max_price" db:"max_price"`
	Tags              []string    `json:"tags" db:"-"`
	EnhancedAt        *time.Time  `json:"enhanced_at" db:"enhanced_at"`
	CreatedAt         *time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         *time.Time  `json:"updated_at" db:"updated_at"`
}

// HoursInfo is the result of interpreting a free-form hours text block.
// All four fields are formatted strings; empty means "unknown", never
// "closed all days".
type HoursInfo struct {
	OpenHours string `json:"open_hours"`
	Holiday   string `json:"holiday"`
	BreakTime string `json:"break_time"`
	LastOrder string `json:"last_order"`
}

// PriceType classifies how a price was expressed in the source text.
type PriceType string

const (
	PriceSingle      PriceType = "single"
	PriceRange       PriceType = "range"
	PriceTimeBased   PriceType = "time_based"
	PriceConditional PriceType = "conditional"
	PriceInquiry     PriceType = "inquiry"
	PriceUnknown     PriceType = "unknown"
)

// PriceInfo is a normalized price extracted from Korean listing text.
type PriceInfo struct {
	Type         PriceType      `json:"price_type"`
	MinPrice     int            `json:"min_price,omitempty"`
	MaxPrice     int            `json:"max_price,omitempty"`
	Currency     string         `json:"currency"`
	TimeBased    map[string]int `json:"time_based,omitempty"`
	Conditions   string         `json:"conditions,omitempty"`
	OriginalText string         `json:"original_text"`
	Confidence   float64        `json:"confidence"`
}

// EnhancementResult records the outcome of one enhancement pass over a store.
type EnhancementResult struct {
	StoreID          int64      `json:"store_id"`
	Success          bool       `json:"success"`
	Hours            *HoursInfo `json:"hours,omitempty"`
	Price            *PriceInfo `json:"price,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	Lat              *float64   `json:"lat,omitempty"`
	Lng              *float64   `json:"lng,omitempty"`
	GeocodeConf      float64    `json:"geocode_confidence,omitempty"`
	Error            error      `json:"-"`
	ProcessingTimeMs int64      `json:"processing_time_ms"`
	Retries          int        `json:"retries"`
}

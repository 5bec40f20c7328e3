// Package events is the append-only audit log of the store pipeline.
// Every crawl and enhancement outcome is recorded per store so the
// history of a record can be replayed without coupling to the stores
// table schema.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event is one pipeline occurrence for a store. Keep payloads small and
// JSON-friendly.
type Event interface {
	Type() string
	StoreID() int64
	Timestamp() time.Time
	MarshalData() ([]byte, error)
}

// Base holds common event metadata.
type Base struct {
	Ts  time.Time `json:"ts"`
	SID int64     `json:"store_id"`
}

func (b Base) Timestamp() time.Time { return b.Ts }
func (b Base) StoreID() int64       { return b.SID }

const (
	TypeCrawled       = "store.crawled"
	TypeEnhanced      = "store.enhanced"
	TypeEnhanceFailed = "store.enhance_failed"
	TypeMarkedClosed  = "store.marked_closed"
)

// StoreCrawled is emitted when a crawl upsert touches a store.
type StoreCrawled struct {
	Base
	PlaceID string `json:"place_id"`
	Keyword string `json:"keyword"`
}

func (e StoreCrawled) Type() string                 { return TypeCrawled }
func (e StoreCrawled) MarshalData() ([]byte, error) { return json.Marshal(e) }

// StoreEnhanced captures what the enhancement run produced.
type StoreEnhanced struct {
	Base
	OpenHours   string  `json:"open_hours,omitempty"`
	MinPrice    int     `json:"min_price,omitempty"`
	MaxPrice    int     `json:"max_price,omitempty"`
	TagCount    int     `json:"tag_count"`
	GeocodeConf float64 `json:"geocode_confidence,omitempty"`
	TimeMs      int64   `json:"processing_time_ms"`
}

func (e StoreEnhanced) Type() string                 { return TypeEnhanced }
func (e StoreEnhanced) MarshalData() ([]byte, error) { return json.Marshal(e) }

// StoreEnhanceFailed records a give-up after retries.
type StoreEnhanceFailed struct {
	Base
	Reason  string `json:"reason"`
	Retries int    `json:"retries"`
}

func (e StoreEnhanceFailed) Type() string                 { return TypeEnhanceFailed }
func (e StoreEnhanceFailed) MarshalData() ([]byte, error) { return json.Marshal(e) }

// StoreMarkedClosed records a store detected as permanently closed.
type StoreMarkedClosed struct {
	Base
	Source string `json:"source"` // crawl|manual
}

func (e StoreMarkedClosed) Type() string                 { return TypeMarkedClosed }
func (e StoreMarkedClosed) MarshalData() ([]byte, error) { return json.Marshal(e) }

// EventStore defines persistence and replay. Implementations must keep
// per-store ordering.
type EventStore interface {
	Append(ctx context.Context, e Event) error
	ListByStore(ctx context.Context, storeID int64) ([]StoredEvent, error)
	ReplayStore(ctx context.Context, storeID int64) (*RebuiltState, error)
}

// StoredEvent is the durable form. Seq is a monotonic order within the
// database.
type StoredEvent struct {
	Seq     int64     `json:"seq"`
	StoreID int64     `json:"store_id"`
	Type    string    `json:"type"`
	Ts      time.Time `json:"ts"`
	Payload []byte    `json:"payload"`
}

// RebuiltState is the replay result for one store: where it currently
// stands in the pipeline.
type RebuiltState struct {
	StoreID      int64      `json:"store_id"`
	Status       string     `json:"status"`
	LastUpdated  time.Time  `json:"last_updated"`
	LastEnhanced *time.Time `json:"last_enhanced,omitempty"`
	LastFailure  string     `json:"last_failure,omitempty"`
	CrawlCount   int        `json:"crawl_count"`
}

// Replay applies events in order and rebuilds the store's state.
func Replay(events []StoredEvent) *RebuiltState {
	st := &RebuiltState{Status: "pending"}
	for _, se := range events {
		st.StoreID = se.StoreID
		st.LastUpdated = se.Ts
		switch se.Type {
		case TypeCrawled:
			st.CrawlCount++
		case TypeEnhanced:
			st.Status = "enhanced"
			ts := se.Ts
			st.LastEnhanced = &ts
			st.LastFailure = ""
		case TypeEnhanceFailed:
			var ev StoreEnhanceFailed
			_ = json.Unmarshal(se.Payload, &ev)
			st.Status = "failed"
			st.LastFailure = ev.Reason
		case TypeMarkedClosed:
			st.Status = "closed"
		}
	}
	return st
}

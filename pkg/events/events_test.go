package events

import (
	"encoding/json"
	"testing"
	"time"
)

func stored(t *testing.T, seq int64, ts time.Time, e Event) StoredEvent {
	t.Helper()
	payload, err := e.MarshalData()
	if err != nil {
		t.Fatal(err)
	}
	return StoredEvent{
		Seq:     seq,
		StoreID: e.StoreID(),
		Type:    e.Type(),
		Ts:      ts,
		Payload: payload,
	}
}

func TestReplay_CrawlThenEnhance(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	evs := []StoredEvent{
		stored(t, 1, t0, StoreCrawled{Base: Base{Ts: t0, SID: 7}, PlaceID: "ABC", Keyword: "강남 무한리필"}),
		stored(t, 2, t0.Add(time.Hour), StoreCrawled{Base: Base{Ts: t0, SID: 7}, PlaceID: "ABC", Keyword: "강남 뷔페"}),
		stored(t, 3, t0.Add(2*time.Hour), StoreEnhanced{Base: Base{Ts: t0, SID: 7}, OpenHours: "월: 11:00-22:00", TagCount: 2}),
	}

	st := Replay(evs)
	if st.StoreID != 7 {
		t.Errorf("StoreID = %d, want 7", st.StoreID)
	}
	if st.Status != "enhanced" {
		t.Errorf("Status = %q, want enhanced", st.Status)
	}
	if st.CrawlCount != 2 {
		t.Errorf("CrawlCount = %d, want 2", st.CrawlCount)
	}
	if st.LastEnhanced == nil {
		t.Fatal("LastEnhanced not set")
	}
	if st.LastFailure != "" {
		t.Errorf("LastFailure = %q, want empty", st.LastFailure)
	}
}

func TestReplay_FailureThenRecovery(t *testing.T) {
	t0 := time.Now()
	evs := []StoredEvent{
		stored(t, 1, t0, StoreEnhanceFailed{Base: Base{Ts: t0, SID: 3}, Reason: "geocode quota exceeded", Retries: 3}),
	}

	st := Replay(evs)
	if st.Status != "failed" {
		t.Errorf("Status = %q, want failed", st.Status)
	}
	if st.LastFailure != "geocode quota exceeded" {
		t.Errorf("LastFailure = %q", st.LastFailure)
	}

	evs = append(evs, stored(t, 2, t0.Add(time.Minute), StoreEnhanced{Base: Base{Ts: t0, SID: 3}}))
	st = Replay(evs)
	if st.Status != "enhanced" {
		t.Errorf("Status after recovery = %q, want enhanced", st.Status)
	}
	if st.LastFailure != "" {
		t.Errorf("LastFailure not cleared: %q", st.LastFailure)
	}
}

func TestReplay_Closed(t *testing.T) {
	t0 := time.Now()
	st := Replay([]StoredEvent{
		stored(t, 1, t0, StoreMarkedClosed{Base: Base{Ts: t0, SID: 9}, Source: "crawl"}),
	})
	if st.Status != "closed" {
		t.Errorf("Status = %q, want closed", st.Status)
	}
}

func TestReplay_Empty(t *testing.T) {
	st := Replay(nil)
	if st.Status != "pending" {
		t.Errorf("Status = %q, want pending", st.Status)
	}
}

func TestEventPayloadsRoundTrip(t *testing.T) {
	e := StoreEnhanced{
		Base:        Base{Ts: time.Now(), SID: 11},
		OpenHours:   "월: 11:00-22:00",
		MinPrice:    15000,
		MaxPrice:    29900,
		TagCount:    3,
		GeocodeConf: 0.9,
	}
	payload, err := e.MarshalData()
	if err != nil {
		t.Fatal(err)
	}
	var decoded StoreEnhanced
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.MinPrice != 15000 || decoded.OpenHours != e.OpenHours {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"videoforge/internal/infra"
	"videoforge/internal/storage"
)

// DefaultLimit caps how many records the history retains; the oldest entry is
// silently evicted on overflow.
const DefaultLimit = 20

// DefaultKey is the storage key the history blob is persisted under.
const DefaultKey = "videoHistory"

const recentActivityCount = 5

// envelope is the persisted shape of the history. Older deployments stored a
// bare record array; decodeState accepts both.
type envelope struct {
	Videos      []Record  `json:"videos"`
	TotalCount  int       `json:"totalCount"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Filter narrows List results. Query matches prompt or style case-insensitively
// as a substring; Style requires an exact metadata match. Both are AND-combined
// when present.
type Filter struct {
	Query string
	Style string
}

// Stats is a fresh derivation over the current history state.
type Stats struct {
	TotalVideos          int            `json:"totalVideos"`
	StyleBreakdown       map[string]int `json:"styleBreakdown"`
	AspectRatioBreakdown map[string]int `json:"aspectRatioBreakdown"`
	RecentActivity       []Record       `json:"recentActivity"`
}

// StoreOptions configures a history Store.
type StoreOptions struct {
	Key    string
	Limit  int
	Logger *infra.Logger
}

// Store keeps a capped, newest-first record of past generations behind an
// injected KV. Every mutation rewrites the single persisted blob; persistence
// failures are logged, never surfaced to callers.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	key    string
	limit  int
	logger *infra.Logger
}

// NewStore builds a Store over the given KV.
func NewStore(kv storage.KV, opts StoreOptions) *Store {
	key := strings.TrimSpace(opts.Key)
	if key == "" {
		key = DefaultKey
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Store{kv: kv, key: key, limit: limit, logger: logger}
}

// Append prepends a record, evicts beyond the cap, and persists.
func (s *Store) Append(ctx context.Context, record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	videos := make([]Record, 0, len(state.Videos)+1)
	videos = append(videos, record)
	videos = append(videos, state.Videos...)
	if len(videos) > s.limit {
		videos = videos[:s.limit]
	}
	s.persist(ctx, videos)
}

// List returns records newest-first, narrowed by the optional filter.
func (s *Store) List(ctx context.Context, filter Filter) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	if filter.Query == "" && filter.Style == "" {
		return state.Videos
	}
	query := strings.ToLower(filter.Query)
	var out []Record
	for _, record := range state.Videos {
		if query != "" &&
			!strings.Contains(strings.ToLower(record.Prompt), query) &&
			!strings.Contains(strings.ToLower(record.Metadata.Style), query) {
			continue
		}
		if filter.Style != "" && record.Metadata.Style != filter.Style {
			continue
		}
		out = append(out, record)
	}
	return out
}

// Get returns the record with the given id, if present.
func (s *Store) Get(ctx context.Context, id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.load(ctx).Videos {
		if record.ID == id {
			return record, true
		}
	}
	return Record{}, false
}

// DeleteByID removes the record with the given id and reports whether anything
// was removed. Deleting an absent id is a no-op.
func (s *Store) DeleteByID(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	videos := make([]Record, 0, len(state.Videos))
	removed := false
	for _, record := range state.Videos {
		if record.ID == id {
			removed = true
			continue
		}
		videos = append(videos, record)
	}
	if removed {
		s.persist(ctx, videos)
	}
	return removed
}

// Clear empties the history and removes the persisted key.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, s.key); err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("history: clear failed")
	}
}

// Stats derives counts and recent activity from the current state.
func (s *Store) Stats(ctx context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	stats := Stats{
		TotalVideos:          len(state.Videos),
		StyleBreakdown:       make(map[string]int),
		AspectRatioBreakdown: make(map[string]int),
	}
	for _, record := range state.Videos {
		stats.StyleBreakdown[record.Metadata.Style]++
		stats.AspectRatioBreakdown[record.Metadata.AspectRatio]++
	}
	recent := state.Videos
	if len(recent) > recentActivityCount {
		recent = recent[:recentActivityCount]
	}
	stats.RecentActivity = recent
	return stats
}

func (s *Store) load(ctx context.Context) envelope {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("history: load failed")
		return envelope{LastUpdated: time.Now().UTC()}
	}
	if len(raw) == 0 {
		return envelope{LastUpdated: time.Now().UTC()}
	}
	state, err := decodeState(raw)
	if err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("history: corrupt state, starting empty")
		return envelope{LastUpdated: time.Now().UTC()}
	}
	return state
}

func (s *Store) persist(ctx context.Context, videos []Record) {
	state := envelope{
		Videos:      videos,
		TotalCount:  len(videos),
		LastUpdated: time.Now().UTC(),
	}
	raw, err := json.Marshal(state)
	if err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("history: encode failed")
		return
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("history: persist failed")
	}
}

// decodeState accepts both the enveloped shape and the legacy bare array.
func decodeState(raw []byte) (envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var videos []Record
		if err := json.Unmarshal(trimmed, &videos); err != nil {
			return envelope{}, fmt.Errorf("history: decode legacy array: %w", err)
		}
		return envelope{
			Videos:      videos,
			TotalCount:  len(videos),
			LastUpdated: time.Now().UTC(),
		}, nil
	}
	var state envelope
	if err := json.Unmarshal(trimmed, &state); err != nil {
		return envelope{}, fmt.Errorf("history: decode envelope: %w", err)
	}
	return state, nil
}

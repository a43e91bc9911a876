package engine

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Store persists the viewer's state (history, watchlist, subscriptions,
// settings) as one JSON snapshot on disk. Every mutation rewrites the
// whole file; the data is small and this keeps recovery trivial.
type Store struct {
	mu   sync.RWMutex
	path string
	log  zerolog.Logger
	data PersistedData
}

func NewStore(path string, log zerolog.Logger) *Store {
	s := &Store{
		path: path,
		log:  log.With().Str("component", "store").Logger(),
		data: PersistedData{History: make(map[string]HistoryEntry)},
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("state file unreadable, starting empty")
		}
		return
	}
	var data PersistedData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("state file corrupt, starting empty")
		return
	}
	if data.History == nil {
		data.History = make(map[string]HistoryEntry)
	}
	s.data = data
}

// save writes the snapshot under the write lock held by the caller.
func (s *Store) save() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.log.Error().Err(err).Msg("state marshal failed")
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		s.log.Error().Err(err).Str("path", tmp).Msg("state write failed")
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("state rename failed")
	}
}

// ── history ──

func (s *Store) History() map[string]HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]HistoryEntry, len(s.data.History))
	for k, v := range s.data.History {
		out[k] = v
	}
	return out
}

// UpsertHistory records playback progress for a VOD. Timecodes are
// clamped to [0, duration] when the duration is known, and to zero
// otherwise, so a seek glitch can never persist garbage.
func (s *Store) UpsertHistory(vodId string, timecode, duration float64) HistoryEntry {
	if timecode < 0 {
		timecode = 0
	}
	if duration < 0 {
		duration = 0
	}
	if duration > 0 && timecode > duration {
		timecode = duration
	}

	entry := HistoryEntry{
		VodID:     vodId,
		Timecode:  timecode,
		Duration:  duration,
		UpdatedAt: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.History[vodId] = entry
	s.save()
	return entry
}

func (s *Store) HistoryFor(vodId string) (HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.data.History[vodId]
	return entry, ok
}

func (s *Store) DeleteHistory(vodId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.History[vodId]; !ok {
		return false
	}
	delete(s.data.History, vodId)
	s.save()
	return true
}

// ── watchlist ──

func (s *Store) Watchlist() []WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]WatchlistEntry(nil), s.data.Watchlist...)
}

// AddToWatchlist inserts the VOD unless already present and returns the
// updated list.
func (s *Store) AddToWatchlist(entry WatchlistEntry) []WatchlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.Watchlist {
		if existing.VodID == entry.VodID {
			return append([]WatchlistEntry(nil), s.data.Watchlist...)
		}
	}
	entry.AddedAt = time.Now().UnixMilli()
	s.data.Watchlist = append(s.data.Watchlist, entry)
	s.save()
	return append([]WatchlistEntry(nil), s.data.Watchlist...)
}

func (s *Store) RemoveFromWatchlist(vodId string) []WatchlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.data.Watchlist[:0]
	changed := false
	for _, entry := range s.data.Watchlist {
		if entry.VodID == vodId {
			changed = true
			continue
		}
		kept = append(kept, entry)
	}
	s.data.Watchlist = kept
	if changed {
		s.save()
	}
	return append([]WatchlistEntry(nil), s.data.Watchlist...)
}

// ── subscriptions ──

func (s *Store) Subs() []SubEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SubEntry(nil), s.data.Subs...)
}

func (s *Store) AddSub(entry SubEntry) []SubEntry {
	entry.Login = strings.ToLower(strings.TrimSpace(entry.Login))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.Subs {
		if strings.EqualFold(existing.Login, entry.Login) {
			return append([]SubEntry(nil), s.data.Subs...)
		}
	}
	s.data.Subs = append(s.data.Subs, entry)
	s.save()
	return append([]SubEntry(nil), s.data.Subs...)
}

func (s *Store) RemoveSub(login string) []SubEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.data.Subs[:0]
	changed := false
	for _, entry := range s.data.Subs {
		if strings.EqualFold(entry.Login, login) {
			changed = true
			continue
		}
		kept = append(kept, entry)
	}
	s.data.Subs = kept
	if changed {
		s.save()
	}
	return append([]SubEntry(nil), s.data.Subs...)
}

// ── settings ──

func (s *Store) Settings() ExperienceSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Settings
}

func (s *Store) UpdateSettings(settings ExperienceSettings) ExperienceSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Settings = settings
	s.save()
	return s.data.Settings
}

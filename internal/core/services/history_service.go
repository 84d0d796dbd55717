package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/infrastructure/logger"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

type historyService struct {
	repo     ports.HistoryRepository
	taskRepo ports.TaskRepository
	logger   *logger.Logger

	mu       sync.Mutex
	fallback map[string][]domain.HistoryEntry // taskID -> entries that failed to persist

	subMu   sync.Mutex
	subs    map[int]chan domain.HistoryEntry
	nextSub int
}

type HistoryServiceConfig struct {
	Repository ports.HistoryRepository
	TaskRepo   ports.TaskRepository
	Logger     *logger.Logger
}

func NewHistoryService(cfg HistoryServiceConfig) ports.HistoryService {
	return &historyService{
		repo:     cfg.Repository,
		taskRepo: cfg.TaskRepo,
		logger:   cfg.Logger,
		fallback: make(map[string][]domain.HistoryEntry),
		subs:     make(map[int]chan domain.HistoryEntry),
	}
}

// Append persists a new ledger entry. A persistence failure never propagates:
// the entry is kept in the in-memory fallback copy, marked Local, so the
// in-session audit trail stays complete even when the durable copy lags.
func (s *historyService) Append(ctx context.Context, taskID, action, description string, actor domain.Actor, additionalData domain.JSONB) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		ID:             uuid.New().String(),
		TaskID:         taskID,
		Action:         action,
		Details:        description,
		Timestamp:      time.Now(),
		UserID:         actor.ID,
		UserName:       actor.Name,
		UserEmail:      actor.Email,
		UserRole:       actor.Role,
		AdditionalData: additionalData,
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		entry.Local = true
		s.mu.Lock()
		s.fallback[taskID] = append(s.fallback[taskID], entry)
		s.mu.Unlock()
		s.logger.Warnw("history_append_fallback", "task_id", taskID, "action", action, "error", err)
	} else {
		s.logger.Infow("history_append_ok", "task_id", taskID, "action", action, "entry_id", entry.ID)
	}

	s.publish(entry)
	return entry
}

// EntriesFor returns the merged ledger for a task, most recent first. Entries
// can surface from three partial views of the same log: the history table,
// the copy embedded on the task record, and the local fallback. They are
// merged by entry id, never by position.
func (s *historyService) EntriesFor(ctx context.Context, taskID string) ([]domain.HistoryEntry, error) {
	stored, err := s.repo.GetByTaskID(ctx, taskID)
	if err != nil {
		s.logger.Warnw("history_fetch_failed", "task_id", taskID, "error", err)
		stored = nil
	}

	var embedded []domain.HistoryEntry
	if task, terr := s.taskRepo.GetByIDWithHistory(ctx, taskID); terr == nil && task != nil {
		embedded = task.History
	}

	s.mu.Lock()
	local := append([]domain.HistoryEntry(nil), s.fallback[taskID]...)
	s.mu.Unlock()

	merged := MergeEntries(stored, embedded, local)
	if len(merged) == 0 && err != nil {
		return nil, err
	}
	return merged, nil
}

// Recent returns the newest entries across all tasks for the activity feed.
// Pending fallback entries are merged in so the feed matches what appends
// reported, even when some entries have not reached the durable store yet.
func (s *historyService) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	stored, err := s.repo.GetRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	var local []domain.HistoryEntry
	for _, entries := range s.fallback {
		local = append(local, entries...)
	}
	s.mu.Unlock()

	merged := MergeEntries(stored, local)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// MergeEntries unions partial views of one append-only log, deduplicating by
// stable entry id and ordering most recent first (ties broken by id so the
// order is deterministic).
func MergeEntries(views ...[]domain.HistoryEntry) []domain.HistoryEntry {
	seen := make(map[string]struct{})
	var merged []domain.HistoryEntry
	for _, view := range views {
		for _, e := range view {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			merged = append(merged, e)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Timestamp.Equal(merged[j].Timestamp) {
			return merged[i].Timestamp.After(merged[j].Timestamp)
		}
		return merged[i].ID > merged[j].ID
	})
	return merged
}

// Subscribe registers a listener for appended entries. The returned cancel
// func must be called to release the channel. Slow listeners drop entries
// rather than blocking appends.
func (s *historyService) Subscribe() (<-chan domain.HistoryEntry, func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.HistoryEntry, 64)
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *historyService) publish(entry domain.HistoryEntry) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- entry:
		default:
		}
	}
}

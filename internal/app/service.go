// Package service owns the widget state and serializes every change to it
// through a single dispatch worker.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/realm/internal/adapters/mq/queue"
	"github.com/okian/realm/internal/adapters/mq/worker"
	"github.com/okian/realm/internal/adapters/storage"
	"github.com/okian/realm/internal/domain/dedupe"
	"github.com/okian/realm/internal/domain/history"
	"github.com/okian/realm/internal/domain/model"
	"github.com/okian/realm/internal/domain/realm"
	"github.com/okian/realm/internal/domain/types"
	"github.com/okian/realm/pkg/logger"
	"github.com/okian/realm/pkg/metrics"
)

// DefaultDateLayout renders dates as month/day/year without padding.
const DefaultDateLayout = "1/2/2006"

// Service implements the dependencies required by the HTTP API and the TUI.
type Service struct {
	mu sync.RWMutex

	// Core components
	state      realm.State
	store      storage.Store
	deduper    dedupe.Deduper
	queue      *queue.InMemoryQueue
	dispatcher *worker.InMemoryWorker

	// Configuration
	queueSize  int
	dedupeSize int
	historyKey string
	dateLayout string
	now        func() time.Time
	newID      func() string

	started bool

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:  1024,
		dedupeSize: 10_000,
		historyKey: history.DefaultKey,
		dateLayout: DefaultDateLayout,
		now:        time.Now,
		newID:      uuid.NewString,
		state:      realm.New(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the history and starts the dispatch worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.store == nil {
		s.store = storage.NewMemoryStore()
		s.logger.Info(ctx, "no store configured; history will not survive restart")
	}

	s.state = realm.New(history.Load(ctx, s.store, s.historyKey, s.logger))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.dispatcher = worker.NewInMemoryWorker(s.queue, s, worker.WithLogger(s.logger))

	// The worker outlives the start request; Stop ends it.
	go s.dispatcher.Run(context.WithoutCancel(ctx))

	s.started = true
	s.publishGauges(s.state)
	s.logger.Info(ctx, "realm service started",
		logger.Int("history", len(s.state.History)),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("historyKey", s.historyKey),
	)
	return nil
}

// Stop drains the worker and closes the queue. The store is left open.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	q, w := s.queue, s.dispatcher
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = q.Close()
	if err := w.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "dispatcher did not stop cleanly", logger.Error(err))
	}
	s.logger.Info(ctx, "realm service stopped")
}

// Apply runs on the dispatch worker. It reduces the current state and, after
// a snapshot, rewrites the stored history.
func (s *Service) Apply(ctx context.Context, a realm.Action) (realm.State, error) {
	s.mu.Lock()
	next, err := realm.Reduce(s.state, a)
	if err != nil {
		s.mu.Unlock()
		return next, err
	}
	s.state = next
	s.mu.Unlock()

	switch a.(type) {
	case realm.SaveSnapshot:
		metrics.RecordSnapshotSaved()
		s.persist(ctx, next.History)
	case realm.AddOpportunity:
		metrics.RecordOpportunityAdded()
	}
	s.publishGauges(next)
	return next, nil
}

// persist failures never undo the in-memory append.
func (s *Service) persist(ctx context.Context, snaps []model.Snapshot) {
	if err := history.Persist(ctx, s.store, s.historyKey, snaps); err != nil {
		metrics.RecordPersistFailure()
		s.logger.Error(ctx, "history persist failed",
			logger.String("key", s.historyKey),
			logger.Int("snapshots", len(snaps)),
			logger.Error(err),
		)
	}
}

func (s *Service) publishGauges(st realm.State) {
	metrics.UpdateStateGauges(len(st.History), len(st.Opportunities), len(st.Recommendations()))
}

// Dispatch submits a and waits for the worker to apply it.
func (s *Service) Dispatch(ctx context.Context, a realm.Action) (realm.State, error) {
	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()
	if !started {
		return realm.State{}, ErrNotStarted
	}

	cmd := queue.NewCommand(a)
	if err := q.Enqueue(ctx, cmd); err != nil {
		switch {
		case errors.Is(err, queue.ErrFull):
			return realm.State{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		case errors.Is(err, queue.ErrClosed):
			return realm.State{}, fmt.Errorf("%w: %w", ErrNotStarted, err)
		}
		return realm.State{}, err
	}
	metrics.UpdateQueueSize(q.Len())

	select {
	case res := <-cmd.Reply:
		if errors.Is(res.Err, worker.ErrStopped) {
			return res.State, fmt.Errorf("%w: %w", ErrNotStarted, res.Err)
		}
		return res.State, res.Err
	case <-ctx.Done():
		return realm.State{}, fmt.Errorf("%w: %w", ErrPending, ctx.Err())
	}
}

// SetScore replaces one dimension's value.
func (s *Service) SetScore(ctx context.Context, d model.Dimension, value int) (realm.State, error) {
	return s.Dispatch(ctx, realm.SetScore{Dimension: d, Value: value})
}

// SetScoreText parses a raw dimension key and slider text before applying it.
func (s *Service) SetScoreText(ctx context.Context, dim, raw string) (realm.State, error) {
	d, err := model.ParseDimension(dim)
	if err != nil {
		return realm.State{}, err
	}
	v, err := model.ParseScore(raw)
	if err != nil {
		return realm.State{}, err
	}
	return s.SetScore(ctx, d, v)
}

// SaveSnapshot appends today's snapshot of the current scores. A non-empty
// requestID that was already applied reports duplicate instead.
func (s *Service) SaveSnapshot(ctx context.Context, requestID string) (model.Snapshot, bool, error) {
	if s.seen(ctx, requestID) {
		return model.Snapshot{}, true, nil
	}
	st, err := s.Dispatch(ctx, realm.SaveSnapshot{Date: s.now().Format(s.dateLayout)})
	if err != nil {
		s.forget(ctx, requestID, err)
		return model.Snapshot{}, false, err
	}
	return st.History[len(st.History)-1], false, nil
}

// AddOpportunity scores d and appends it. A non-empty requestID that was
// already applied reports duplicate instead.
func (s *Service) AddOpportunity(ctx context.Context, requestID string, d model.Draft) (model.Opportunity, bool, error) {
	if s.seen(ctx, requestID) {
		return model.Opportunity{}, true, nil
	}
	st, err := s.Dispatch(ctx, realm.AddOpportunity{ID: s.newID(), Draft: d})
	if err != nil {
		s.forget(ctx, requestID, err)
		return model.Opportunity{}, false, err
	}
	return st.Opportunities[len(st.Opportunities)-1], false, nil
}

// EditDraft replaces the opportunity form contents.
func (s *Service) EditDraft(ctx context.Context, d model.Draft) (realm.State, error) {
	return s.Dispatch(ctx, realm.EditDraft{Draft: d})
}

func (s *Service) seen(ctx context.Context, requestID string) bool {
	if requestID == "" || s.deduper == nil {
		return false
	}
	if s.deduper.SeenAndRecord(ctx, requestID) {
		metrics.RecordDuplicate()
		s.logger.Debug(ctx, "duplicate request skipped", logger.String("requestID", requestID))
		return true
	}
	return false
}

// forget releases requestID so a retry can apply. A pending action keeps its
// id, since the worker may still apply it.
func (s *Service) forget(ctx context.Context, requestID string, cause error) {
	if requestID == "" || s.deduper == nil || errors.Is(cause, ErrPending) {
		return
	}
	s.deduper.Unrecord(ctx, requestID)
}

// State returns the current state. Its slices are never mutated afterwards.
func (s *Service) State() realm.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// View returns the rendered form of the current state.
func (s *Service) View() types.StateView {
	return types.View(s.State())
}

// History returns a copy of the snapshot log.
func (s *Service) History() []model.Snapshot {
	return slices.Clone(s.State().History)
}

// Summary aggregates the snapshot log.
func (s *Service) Summary() history.Summary {
	return history.Summarize(s.State().History)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
		"historyKey": s.historyKey,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len()
		stats["dedupeEntries"] = s.deduper.Size()
		stats["snapshots"] = len(s.state.History)
		stats["opportunities"] = len(s.state.Opportunities)
		stats["recommendations"] = len(s.state.Recommendations())
	}
	return stats
}

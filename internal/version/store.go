// Package version assigns report versions, enforces retention, and diffs
// report snapshots by item fingerprint.
package version

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/store"
)

// ErrNotFound is returned when a requested version id does not exist.
var ErrNotFound = eris.New("version: not found")

// DefaultRetention is the default number of versions kept before eviction.
const DefaultRetention = 30

// Store owns version id assignment, the latest-per-date pointer, and the
// retention policy, on top of an injected persistence backend.
type Store struct {
	persist   store.Store
	retention int

	mu        sync.Mutex
	dateLocks map[string]*sync.Mutex
}

// New creates a version store. A non-positive retention uses the default.
func New(persist store.Store, retention int) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store{
		persist:   persist,
		retention: retention,
		dateLocks: make(map[string]*sync.Mutex),
	}
}

// lockDate serializes saves per report date. Reads never take these locks;
// readers see either the pre- or post-save state.
func (s *Store) lockDate(date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.dateLocks[date]
	if !ok {
		l = &sync.Mutex{}
		s.dateLocks[date] = l
	}
	return l
}

// Save assigns the next version id for the report's date, persists the
// snapshot, and applies retention. Sequence numbers are strictly monotonic
// within a date and never reused, even after eviction.
func (s *Store) Save(ctx context.Context, report model.Report) (*model.Version, error) {
	if report.Date == "" {
		return nil, eris.New("version: report has no date")
	}

	l := s.lockDate(report.Date)
	l.Lock()
	defer l.Unlock()

	seq, err := s.persist.NextSequence(ctx, report.Date)
	if err != nil {
		return nil, eris.Wrap(err, "version: allocate sequence")
	}

	v := model.Version{
		ID:        model.FormatVersionID(report.Date, seq),
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}
	v.Report.VersionID = v.ID

	if err := s.persist.PutVersion(ctx, v); err != nil {
		return nil, eris.Wrapf(err, "version: save %s", v.ID)
	}

	if err := s.evict(ctx, v.ID); err != nil {
		// The version is saved; eviction failure only delays cleanup.
		zap.L().Warn("version eviction failed", zap.Error(err))
	}

	zap.L().Info("version saved",
		zap.String("version", v.ID),
		zap.Int("items", v.Report.Summary.TotalItems),
	)

	return &v, nil
}

// evict removes the oldest versions by creation time once the retention
// cap is exceeded. The version just saved is never evicted.
func (s *Store) evict(ctx context.Context, justSaved string) error {
	refs, err := s.persist.ListAll(ctx)
	if err != nil {
		return err
	}
	excess := len(refs) - s.retention
	for _, ref := range refs {
		if excess <= 0 {
			break
		}
		if ref.ID == justSaved {
			continue
		}
		if err := s.persist.DeleteVersion(ctx, ref.ID); err != nil {
			return err
		}
		zap.L().Debug("version evicted", zap.String("version", ref.ID))
		excess--
	}
	return nil
}

// Get loads a version by id.
func (s *Store) Get(ctx context.Context, id string) (*model.Version, error) {
	v, err := s.persist.GetVersion(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, eris.Wrapf(ErrNotFound, "%s", id)
	}
	return v, nil
}

// Latest returns the highest-sequence version for a date, or ErrNotFound.
func (s *Store) Latest(ctx context.Context, date string) (*model.Version, error) {
	refs, err := s.persist.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "no versions for %s", date)
	}
	return s.Get(ctx, refs[len(refs)-1].ID)
}

// List returns the version refs for a date in ascending sequence order.
func (s *Store) List(ctx context.Context, date string) ([]store.VersionRef, error) {
	return s.persist.ListByDate(ctx, date)
}

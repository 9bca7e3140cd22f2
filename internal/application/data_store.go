package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/hostel-dashboard/internal/persistence"
)

const (
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
	dateLayout      = "2006-01-02"
	unknownStudent  = "Unknown Student"
)

// DataStore owns the hostel collections. Every mutation writes the complete
// updated collection to its storage slot before committing it in memory, so
// a failed write leaves both sides unchanged.
type DataStore struct {
	mu          sync.RWMutex
	storage     persistence.KeyValueStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	observer    Observer
	summaries   *summaryCache

	outpass       []OutpassRequest
	complaints    []Complaint
	menu          []MenuItem
	announcements []Announcement
	attendance    []MealAttendance
	students      []Student
}

// NewDataStore seeds the collections, replaces them with any persisted slots
// and writes every slot back.
func NewDataStore(ctx context.Context, storage persistence.KeyValueStore, idGenerator func() string, now func() time.Time) (*DataStore, error) {
	return NewDataStoreWithLogger(ctx, storage, idGenerator, now, nil)
}

// NewDataStoreWithLogger constructs a DataStore with a specified logger.
func NewDataStoreWithLogger(ctx context.Context, storage persistence.KeyValueStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) (*DataStore, error) {
	if storage == nil {
		return nil, fmt.Errorf("data storage not configured")
	}
	if idGenerator == nil {
		idGenerator = newRecordID
	}
	if now == nil {
		now = time.Now
	}
	s := &DataStore{
		storage:       storage,
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
		observer:      noopObserver{},
		summaries:     newSummaryCache(30*time.Second, 64, now),
		outpass:       seedOutpassRequests(),
		complaints:    seedComplaints(),
		menu:          seedMenuItems(),
		announcements: seedAnnouncements(),
		attendance:    seedMealAttendance(),
		students:      seedStudents(),
	}
	if err := s.hydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// SetObserver installs an instrumentation observer. Call it before the store
// is shared between goroutines.
func (s *DataStore) SetObserver(observer Observer) {
	s.observer = observerOrNoop(observer)
}

func (s *DataStore) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DataStore", operation, attrs...)
}

// finish logs the outcome of a mutation and reports it to the observer.
func (s *DataStore) finish(ctx context.Context, logger *slog.Logger, operation string, err error, message string) {
	s.observer.ObserveMutation(operation, err)
	if err == nil {
		s.summaries.Invalidate()
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to "+message, "error", err, "error_kind", ErrorKind(err))
		return
	}
	logger.InfoContext(ctx, message)
}

func (s *DataStore) hydrate(ctx context.Context) error {
	logger := s.loggerWith(ctx, "Hydrate")

	loaded := 0
	for _, slot := range []struct {
		key  string
		load func([]byte) error
	}{
		{persistence.KeyOutpassRequests, decodeSlot(&s.outpass)},
		{persistence.KeyComplaints, decodeSlot(&s.complaints)},
		{persistence.KeyMenuItems, decodeSlot(&s.menu)},
		{persistence.KeyAnnouncements, decodeSlot(&s.announcements)},
		{persistence.KeyMealAttendance, decodeSlot(&s.attendance)},
		{persistence.KeyStudents, decodeSlot(&s.students)},
	} {
		raw, err := s.storage.Get(ctx, slot.key)
		if errors.Is(err, persistence.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", slot.key, err)
		}
		if err := slot.load(raw); err != nil {
			return fmt.Errorf("decode %s: %w", slot.key, err)
		}
		loaded++
	}

	for key, value := range map[string]any{
		persistence.KeyOutpassRequests: s.outpass,
		persistence.KeyComplaints:      s.complaints,
		persistence.KeyMenuItems:       s.menu,
		persistence.KeyAnnouncements:   s.announcements,
		persistence.KeyMealAttendance:  s.attendance,
		persistence.KeyStudents:        s.students,
	} {
		if err := s.writeSlot(ctx, key, value); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "collections hydrated", "slots_loaded", loaded)
	return nil
}

// decodeSlot returns a loader that replaces *dst with a freshly decoded
// slice; fields absent from the payload stay zero.
func decodeSlot[T any](dst *[]T) func([]byte) error {
	return func(raw []byte) error {
		var decoded []T
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		if decoded == nil {
			decoded = []T{}
		}
		*dst = decoded
		return nil
	}
}

func (s *DataStore) writeSlot(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.storage.Put(ctx, key, payload); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *DataStore) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func (s *DataStore) today() string {
	return s.now().UTC().Format(dateLayout)
}

func (s *DataStore) studentByID(id string) (Student, bool) {
	for _, student := range s.students {
		if student.ID == id {
			return student, true
		}
	}
	return Student{}, false
}

func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// sortNewestFirst orders records by a parsed RFC 3339 timestamp, newest first.
// Unparseable timestamps sort last.
func sortNewestFirst[T any](records []T, stamp func(T) string) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, erri := time.Parse(time.RFC3339, stamp(records[i]))
		tj, errj := time.Parse(time.RFC3339, stamp(records[j]))
		switch {
		case erri != nil:
			return false
		case errj != nil:
			return true
		}
		return ti.After(tj)
	})
}

func validDate(value string) bool {
	_, err := time.Parse(dateLayout, value)
	return err == nil
}

func cloneStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func cloneMenuItem(item MenuItem) MenuItem {
	item.Breakfast = cloneStrings(item.Breakfast)
	item.Lunch = cloneStrings(item.Lunch)
	item.Dinner = cloneStrings(item.Dinner)
	return item
}

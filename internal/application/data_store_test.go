package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/example/hostel-dashboard/internal/persistence"
	"github.com/example/hostel-dashboard/internal/persistence/memory"
)

var testNow = time.Date(2025, time.April, 16, 9, 30, 0, 0, time.UTC)

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestDataStore(t *testing.T, storage persistence.KeyValueStore) *DataStore {
	t.Helper()
	if storage == nil {
		storage = memory.New()
	}
	store, err := NewDataStore(context.Background(), storage, sequentialIDs("id"), func() time.Time { return testNow })
	if err != nil {
		t.Fatalf("NewDataStore returned error: %v", err)
	}
	return store
}

// flakyStorage fails every Put while failPuts is set, and Puts of failKey
// while it is non-empty.
type flakyStorage struct {
	persistence.KeyValueStore
	mu       sync.Mutex
	failPuts bool
	failKey  string
	puts     []string
}

func (f *flakyStorage) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPuts || (f.failKey != "" && key == f.failKey) {
		return errors.New("disk full")
	}
	f.puts = append(f.puts, key)
	return f.KeyValueStore.Put(ctx, key, value)
}

func (f *flakyStorage) setFailing(v bool) {
	f.mu.Lock()
	f.failPuts = v
	f.mu.Unlock()
}

func (f *flakyStorage) failOnly(key string) {
	f.mu.Lock()
	f.failKey = key
	f.mu.Unlock()
}

type recordingObserver struct {
	mu        sync.Mutex
	mutations map[string][]error
	logins    []string
}

func (r *recordingObserver) ObserveMutation(operation string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mutations == nil {
		r.mutations = make(map[string][]error)
	}
	r.mutations[operation] = append(r.mutations[operation], err)
}

func (r *recordingObserver) ObserveLogin(role Role, succeeded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, fmt.Sprintf("%s:%t", role, succeeded))
}

func readSlot[T any](t *testing.T, storage persistence.KeyValueStore, key string) []T {
	t.Helper()
	raw, err := storage.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %s: %v", key, err)
	}
	return out
}

func TestNewDataStore(t *testing.T) {
	t.Parallel()

	t.Run("seeds and mirrors every collection", func(t *testing.T) {
		t.Parallel()

		storage := memory.New()
		store := newTestDataStore(t, storage)

		if got := len(store.ListOutpassRequests(Identity{Role: RoleOffice})); got != 3 {
			t.Fatalf("expected 3 seeded outpass requests, got %d", got)
		}
		if got := len(store.Menu()); got != 7 {
			t.Fatalf("expected 7 menu days, got %d", got)
		}
		for _, key := range []string{
			persistence.KeyOutpassRequests,
			persistence.KeyComplaints,
			persistence.KeyMenuItems,
			persistence.KeyAnnouncements,
			persistence.KeyMealAttendance,
			persistence.KeyStudents,
		} {
			if _, err := storage.Get(context.Background(), key); err != nil {
				t.Fatalf("expected slot %s to be written, got %v", key, err)
			}
		}
	})

	t.Run("hydrates persisted slots over the seed", func(t *testing.T) {
		t.Parallel()

		storage := memory.New()
		only := []Announcement{{ID: "a-1", Title: "Stored", Content: "From storage", Date: "2025-01-01", Category: AnnouncementEvent}}
		payload, _ := json.Marshal(only)
		if err := storage.Put(context.Background(), persistence.KeyAnnouncements, payload); err != nil {
			t.Fatalf("seed storage: %v", err)
		}

		store := newTestDataStore(t, storage)
		if got := store.ListAnnouncements(); !reflect.DeepEqual(got, only) {
			t.Fatalf("expected stored announcements, got %+v", got)
		}
		if got := len(store.ListComplaints(Identity{Role: RoleOffice})); got != 3 {
			t.Fatalf("expected absent slots to keep the seed, got %d complaints", got)
		}
	})

	t.Run("fails on malformed slots", func(t *testing.T) {
		t.Parallel()

		storage := memory.New()
		_ = storage.Put(context.Background(), persistence.KeyMenuItems, []byte("{not json"))

		_, err := NewDataStore(context.Background(), storage, nil, nil)
		if err == nil {
			t.Fatalf("expected decode error")
		}
	})

	t.Run("requires storage", func(t *testing.T) {
		t.Parallel()

		if _, err := NewDataStore(context.Background(), nil, nil, nil); err == nil {
			t.Fatalf("expected error without storage")
		}
	})
}

func TestDataStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := memory.New()
	first := newTestDataStore(t, storage)

	if _, err := first.AddOutpassRequest(ctx, OutpassInput{StudentID: "9", StudentName: "Nina Patel", RoomNumber: "D-401", Reason: "Conference", FromDate: "2025-05-01", ToDate: "2025-05-03"}); err != nil {
		t.Fatalf("AddOutpassRequest: %v", err)
	}
	if _, err := first.UpdateMenuItems(ctx, Friday, Dinner, []string{"Khichdi"}); err != nil {
		t.Fatalf("UpdateMenuItems: %v", err)
	}
	if _, err := first.UpdateMealAttendance(ctx, AttendanceInput{StudentID: "4", Date: "2025-04-16", Meal: Lunch, Attended: true}); err != nil {
		t.Fatalf("UpdateMealAttendance: %v", err)
	}

	second := newTestDataStore(t, storage)
	office := Identity{Role: RoleOffice}
	if !reflect.DeepEqual(first.ListOutpassRequests(office), second.ListOutpassRequests(office)) {
		t.Fatalf("outpass requests differ after reload")
	}
	if !reflect.DeepEqual(first.Menu(), second.Menu()) {
		t.Fatalf("menu differs after reload")
	}
	if !reflect.DeepEqual(first.ListMealAttendance(""), second.ListMealAttendance("")) {
		t.Fatalf("attendance differs after reload")
	}
	if !reflect.DeepEqual(first.ListStudents(""), second.ListStudents("")) {
		t.Fatalf("students differ after reload")
	}
}

func TestDataStore_FailedWriteLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := &flakyStorage{KeyValueStore: memory.New()}
	store := newTestDataStore(t, storage)
	observer := &recordingObserver{}
	store.SetObserver(observer)

	before := store.ListComplaints(Identity{Role: RoleOffice})
	storage.setFailing(true)

	if _, err := store.UpdateComplaint(ctx, "1", ComplaintResolved); err == nil {
		t.Fatalf("expected storage error")
	}
	if _, err := store.AddComplaint(ctx, ComplaintInput{StudentID: "1", StudentName: "John Doe", Category: ComplaintMess, Description: "Cold food"}); err == nil {
		t.Fatalf("expected storage error")
	}

	storage.setFailing(false)
	if after := store.ListComplaints(Identity{Role: RoleOffice}); !reflect.DeepEqual(before, after) {
		t.Fatalf("expected complaints to be unchanged, got %+v", after)
	}
	persisted := readSlot[Complaint](t, storage, persistence.KeyComplaints)
	if len(persisted) != 3 || persisted[0].Status != ComplaintPending {
		t.Fatalf("expected persisted complaints to be unchanged, got %+v", persisted)
	}
	if errs := observer.mutations["UpdateComplaint"]; len(errs) != 1 || errs[0] == nil {
		t.Fatalf("expected failed mutation to be observed, got %v", errs)
	}
}

func TestDataStore_OutpassLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("new requests start pending and are mirrored", func(t *testing.T) {
		t.Parallel()

		ctx, collector := ContextWithNotifications(context.Background())
		storage := memory.New()
		store := newTestDataStore(t, storage)

		request, err := store.AddOutpassRequest(ctx, OutpassInput{
			StudentID: "1", StudentName: "John Doe", RoomNumber: "A-101",
			Reason: " Wedding ", FromDate: "2025-05-10", ToDate: "2025-05-12",
		})
		if err != nil {
			t.Fatalf("AddOutpassRequest: %v", err)
		}
		if request.Status != OutpassPending || request.ID != "id-1" || request.Reason != "Wedding" {
			t.Fatalf("unexpected request %+v", request)
		}
		if request.CreatedAt != "2025-04-16T09:30:00.000Z" {
			t.Fatalf("unexpected createdAt %q", request.CreatedAt)
		}

		persisted := readSlot[OutpassRequest](t, storage, persistence.KeyOutpassRequests)
		if len(persisted) != 4 || persisted[3] != request {
			t.Fatalf("expected the full collection to be mirrored, got %+v", persisted)
		}

		notes := collector.Drain()
		if len(notes) != 1 || notes[0].Title != "Outpass Request Submitted" {
			t.Fatalf("unexpected notifications %+v", notes)
		}
	})

	t.Run("last decision wins", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := newTestDataStore(t, nil)
		request, err := store.AddOutpassRequest(ctx, OutpassInput{StudentID: "1", StudentName: "John Doe", Reason: "Trip", FromDate: "2025-05-01", ToDate: "2025-05-01"})
		if err != nil {
			t.Fatalf("AddOutpassRequest: %v", err)
		}

		if _, err := store.UpdateOutpassRequest(ctx, request.ID, OutpassApproved); err != nil {
			t.Fatalf("approve: %v", err)
		}
		updated, err := store.UpdateOutpassRequest(ctx, request.ID, OutpassRejected)
		if err != nil {
			t.Fatalf("reject: %v", err)
		}
		if updated.Status != OutpassRejected {
			t.Fatalf("expected rejected, got %s", updated.Status)
		}
	})

	t.Run("notifications carry the decision", func(t *testing.T) {
		t.Parallel()

		ctx, collector := ContextWithNotifications(context.Background())
		store := newTestDataStore(t, nil)
		if _, err := store.UpdateOutpassRequest(ctx, "1", OutpassApproved); err != nil {
			t.Fatalf("approve: %v", err)
		}
		notes := collector.Drain()
		want := Notification{Title: "Outpass Request Approved", Description: "The outpass request has been approved.", Variant: VariantDefault}
		if len(notes) != 1 || notes[0] != want {
			t.Fatalf("unexpected notifications %+v", notes)
		}
	})

	t.Run("unknown ids are reported", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		if _, err := store.UpdateOutpassRequest(context.Background(), "missing", OutpassApproved); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		_, err := store.UpdateOutpassRequest(context.Background(), "1", OutpassPending)
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Message("status") == "" {
			t.Fatalf("expected status validation error, got %v", err)
		}
	})

	t.Run("validates input", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		_, err := store.AddOutpassRequest(context.Background(), OutpassInput{StudentID: "1", StudentName: "John Doe", FromDate: "2025-05-03", ToDate: "2025-05-01"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, field := range []string{"reason", "toDate"} {
			if vErr.Message(field) == "" {
				t.Fatalf("expected %s error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("unknown students join the directory", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		if _, err := store.AddOutpassRequest(context.Background(), OutpassInput{StudentID: "42", StudentName: "Ravi Kumar", RoomNumber: "E-12", Reason: "Home", FromDate: "2025-06-01", ToDate: "2025-06-02"}); err != nil {
			t.Fatalf("AddOutpassRequest: %v", err)
		}
		found := store.ListStudents("ravi")
		if len(found) != 1 || found[0].ID != "42" || found[0].RoomNumber != "E-12" {
			t.Fatalf("expected new directory entry, got %+v", found)
		}
	})
}

func TestDataStore_ListFiltersByViewer(t *testing.T) {
	t.Parallel()

	store := newTestDataStore(t, nil)
	student := Identity{ID: "1", Role: RoleStudent}

	own := store.ListOutpassRequests(student)
	if len(own) != 1 || own[0].StudentID != "1" {
		t.Fatalf("expected only the student's request, got %+v", own)
	}
	if got := store.ListComplaints(student); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only the student's complaint, got %+v", got)
	}

	all := store.ListOutpassRequests(Identity{ID: "3", Role: RoleOffice})
	ids := []string{all[0].ID, all[1].ID, all[2].ID}
	if !reflect.DeepEqual(ids, []string{"1", "2", "3"}) {
		t.Fatalf("expected newest first, got %v", ids)
	}
	if got := store.ListComplaints(Identity{Role: RoleMess}); len(got) != 3 {
		t.Fatalf("expected mess to see every complaint, got %d", len(got))
	}
}

func TestDataStore_Complaints(t *testing.T) {
	t.Parallel()

	t.Run("free status transitions", func(t *testing.T) {
		t.Parallel()

		ctx, collector := ContextWithNotifications(context.Background())
		store := newTestDataStore(t, nil)
		for _, status := range []ComplaintStatus{ComplaintResolved, ComplaintPending, ComplaintInProgress} {
			updated, err := store.UpdateComplaint(ctx, "3", status)
			if err != nil {
				t.Fatalf("UpdateComplaint(%s): %v", status, err)
			}
			if updated.Status != status {
				t.Fatalf("expected %s, got %s", status, updated.Status)
			}
		}
		notes := collector.Drain()
		if len(notes) != 3 || notes[2].Description != "The complaint status has been updated to in-progress." {
			t.Fatalf("unexpected notifications %+v", notes)
		}
	})

	t.Run("rejects unknown categories and statuses", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		_, err := store.AddComplaint(context.Background(), ComplaintInput{StudentID: "1", StudentName: "John Doe", Category: "noise", Description: "Loud"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Message("category") == "" {
			t.Fatalf("expected category error, got %v", err)
		}
		if _, err := store.UpdateComplaint(context.Background(), "1", "closed"); !errors.As(err, &vErr) {
			t.Fatalf("expected status error, got %v", err)
		}
		if _, err := store.UpdateComplaint(context.Background(), "nope", ComplaintResolved); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("new complaints start pending", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		complaint, err := store.AddComplaint(context.Background(), ComplaintInput{StudentID: "2", StudentName: "Emma Wilson", RoomNumber: "A-102", Category: ComplaintOther, Description: "Wi-Fi down"})
		if err != nil {
			t.Fatalf("AddComplaint: %v", err)
		}
		if complaint.Status != ComplaintPending || complaint.ID != "id-1" {
			t.Fatalf("unexpected complaint %+v", complaint)
		}
	})
}

func TestDataStore_UpdateMenuItems(t *testing.T) {
	t.Parallel()

	t.Run("changes only the addressed list", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		before, err := json.Marshal(store.Menu())
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		if _, err := store.UpdateMenuItems(context.Background(), Monday, Lunch, []string{"A", " B ", ""}); err != nil {
			t.Fatalf("UpdateMenuItems: %v", err)
		}

		var expected []MenuItem
		if err := json.Unmarshal(before, &expected); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		expected[0].Lunch = []string{"A", "B"}
		if got := store.Menu(); !reflect.DeepEqual(got, expected) {
			t.Fatalf("unexpected menu after update:\n got %+v\nwant %+v", got, expected)
		}
	})

	t.Run("unknown day", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		if _, err := store.UpdateMenuItems(context.Background(), "funday", Lunch, []string{"A"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unknown meal and empty list", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		_, err := store.UpdateMenuItems(context.Background(), Monday, "brunch", []string{" "})
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Message("meal") == "" || vErr.Message("items") == "" {
			t.Fatalf("expected meal and items errors, got %v", err)
		}
	})

	t.Run("returned menus are copies", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		menu := store.Menu()
		menu[0].Breakfast[0] = "mutated"
		if store.Menu()[0].Breakfast[0] != "Bread & Butter" {
			t.Fatalf("expected store menu to be unaffected")
		}
	})
}

func TestDataStore_Announcements(t *testing.T) {
	t.Parallel()

	t.Run("dated today with default category", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		announcement, err := store.AddAnnouncement(context.Background(), AnnouncementInput{Title: "Fire drill", Content: "At noon"})
		if err != nil {
			t.Fatalf("AddAnnouncement: %v", err)
		}
		if announcement.Date != "2025-04-16" || announcement.Category != AnnouncementGeneral {
			t.Fatalf("unexpected announcement %+v", announcement)
		}
		list := store.ListAnnouncements()
		if len(list) != 4 || list[0].Date != "2025-04-16" || list[len(list)-1].Date != "2025-04-14" {
			t.Fatalf("expected newest date first, got %+v", list)
		}
	})

	t.Run("title and content are required", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		_, err := store.AddAnnouncement(context.Background(), AnnouncementInput{Category: "party"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) || len(vErr.FieldErrors) != 3 {
			t.Fatalf("expected three field errors, got %v", err)
		}
	})

	t.Run("delete removes and reports missing ids", func(t *testing.T) {
		t.Parallel()

		storage := memory.New()
		store := newTestDataStore(t, storage)
		if err := store.DeleteAnnouncement(context.Background(), "2"); err != nil {
			t.Fatalf("DeleteAnnouncement: %v", err)
		}
		if got := readSlot[Announcement](t, storage, persistence.KeyAnnouncements); len(got) != 2 {
			t.Fatalf("expected 2 persisted announcements, got %d", len(got))
		}
		if err := store.DeleteAnnouncement(context.Background(), "2"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestDataStore_UpdateMealAttendance(t *testing.T) {
	t.Parallel()

	t.Run("upserts a single record per student and date", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := newTestDataStore(t, nil)
		for _, meal := range []Meal{Lunch, Dinner} {
			if _, err := store.UpdateMealAttendance(ctx, AttendanceInput{StudentID: "5", Date: "2025-04-17", Meal: meal, Attended: true}); err != nil {
				t.Fatalf("UpdateMealAttendance(%s): %v", meal, err)
			}
		}

		records := store.ListMealAttendance("2025-04-17")
		if len(records) != 1 {
			t.Fatalf("expected one record, got %+v", records)
		}
		got := records[0]
		if got.Breakfast || !got.Lunch || !got.Dinner {
			t.Fatalf("unexpected flags %+v", got)
		}
		if got.StudentName != "Mike Smith" {
			t.Fatalf("expected name from directory, got %q", got.StudentName)
		}
	})

	t.Run("flips only the addressed meal of an existing record", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		record, err := store.UpdateMealAttendance(context.Background(), AttendanceInput{StudentID: "1", Date: "2025-04-16", Meal: Breakfast, Attended: false})
		if err != nil {
			t.Fatalf("UpdateMealAttendance: %v", err)
		}
		want := MealAttendance{ID: "1", StudentID: "1", StudentName: "John Doe", Date: "2025-04-16", Breakfast: false, Lunch: true, Dinner: false}
		if record != want {
			t.Fatalf("unexpected record %+v", record)
		}
		if got := len(store.ListMealAttendance("")); got != 3 {
			t.Fatalf("expected no new record, got %d", got)
		}
	})

	t.Run("name resolution order", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := newTestDataStore(t, nil)
		explicit, err := store.UpdateMealAttendance(ctx, AttendanceInput{StudentID: "2", StudentName: "E. Wilson", Date: "2025-04-18", Meal: Lunch, Attended: true})
		if err != nil {
			t.Fatalf("UpdateMealAttendance: %v", err)
		}
		unknown, err := store.UpdateMealAttendance(ctx, AttendanceInput{StudentID: "99", Date: "2025-04-18", Meal: Lunch, Attended: true})
		if err != nil {
			t.Fatalf("UpdateMealAttendance: %v", err)
		}
		if explicit.StudentName != "E. Wilson" || unknown.StudentName != "Unknown Student" {
			t.Fatalf("unexpected names %q, %q", explicit.StudentName, unknown.StudentName)
		}
	})

	t.Run("concurrent creations do not duplicate", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		var wg sync.WaitGroup
		for _, meal := range []Meal{Breakfast, Lunch, Dinner, Breakfast, Lunch, Dinner} {
			wg.Add(1)
			go func(meal Meal) {
				defer wg.Done()
				_, _ = store.UpdateMealAttendance(context.Background(), AttendanceInput{StudentID: "4", Date: "2025-04-19", Meal: meal, Attended: true})
			}(meal)
		}
		wg.Wait()

		records := store.ListMealAttendance("2025-04-19")
		if len(records) != 1 || !records[0].Breakfast || !records[0].Lunch || !records[0].Dinner {
			t.Fatalf("expected one fully attended record, got %+v", records)
		}
	})

	t.Run("validates input", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		_, err := store.UpdateMealAttendance(context.Background(), AttendanceInput{Date: "16/04/2025", Meal: "supper"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) || len(vErr.FieldErrors) != 3 {
			t.Fatalf("expected three field errors, got %v", err)
		}
	})
}

func TestDataStore_NotifyAbsentParents(t *testing.T) {
	t.Parallel()

	t.Run("counts distinct students", func(t *testing.T) {
		t.Parallel()

		ctx, collector := ContextWithNotifications(context.Background())
		store := newTestDataStore(t, nil)
		n, err := store.NotifyAbsentParents(ctx, AbsenceNotice{Date: "2025-04-16", Meal: Dinner, StudentIDs: []string{"1", "4", "1"}})
		if err != nil {
			t.Fatalf("NotifyAbsentParents: %v", err)
		}
		if n != 2 {
			t.Fatalf("expected 2 notifications, got %d", n)
		}
		notes := collector.Drain()
		if len(notes) != 1 || notes[0].Description != "Notifications sent to parents of 2 students" {
			t.Fatalf("unexpected notifications %+v", notes)
		}
	})

	t.Run("empty selection", func(t *testing.T) {
		t.Parallel()

		ctx, collector := ContextWithNotifications(context.Background())
		store := newTestDataStore(t, nil)
		_, err := store.NotifyAbsentParents(ctx, AbsenceNotice{})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		notes := collector.Drain()
		if len(notes) != 1 || notes[0].Variant != VariantDestructive || notes[0].Title != "No students selected" {
			t.Fatalf("unexpected notifications %+v", notes)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		if _, err := store.NotifyAbsentParents(context.Background(), AbsenceNotice{StudentIDs: []string{"1", "404"}}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDataStore_StudentDirectory(t *testing.T) {
	t.Parallel()

	t.Run("import upserts by id and skips incomplete rows", func(t *testing.T) {
		t.Parallel()

		storage := memory.New()
		ctx, collector := ContextWithNotifications(context.Background())
		store := newTestDataStore(t, storage)

		result, err := store.ImportStudents(ctx, []Student{
			{ID: " 2 ", Name: "Emma W. Wilson", RoomNumber: "A-104"},
			{ID: "6", Name: "Priya Nair", RoomNumber: "D-001"},
			{ID: "", Name: "No Id"},
			{ID: "7"},
		})
		if err != nil {
			t.Fatalf("ImportStudents: %v", err)
		}
		if result.Imported != 2 || result.Skipped != 2 {
			t.Fatalf("unexpected result %+v", result)
		}

		students := readSlot[Student](t, storage, persistence.KeyStudents)
		if len(students) != 6 {
			t.Fatalf("expected 6 persisted students, got %d", len(students))
		}
		if students[1].Name != "Emma W. Wilson" || students[1].RoomNumber != "A-104" {
			t.Fatalf("expected id 2 to be replaced in place, got %+v", students[1])
		}
		notes := collector.Drain()
		if len(notes) != 1 || notes[0].Description != "2 students have been imported." {
			t.Fatalf("unexpected notifications %+v", notes)
		}
	})

	t.Run("import without usable rows writes nothing", func(t *testing.T) {
		t.Parallel()

		storage := &flakyStorage{KeyValueStore: memory.New()}
		store := newTestDataStore(t, storage)
		storage.setFailing(true)

		result, err := store.ImportStudents(context.Background(), []Student{{Name: "Nameless id"}})
		if err != nil {
			t.Fatalf("ImportStudents: %v", err)
		}
		if result.Imported != 0 || result.Skipped != 1 {
			t.Fatalf("unexpected result %+v", result)
		}
	})

	t.Run("update replaces the entry", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		updated, err := store.UpdateStudent(context.Background(), Student{ID: "3", Name: "Alice J. Johnson", RoomNumber: "B-206"})
		if err != nil {
			t.Fatalf("UpdateStudent: %v", err)
		}
		if updated.Name != "Alice J. Johnson" {
			t.Fatalf("unexpected student %+v", updated)
		}
		if found := store.ListStudents("b-206"); len(found) != 1 || found[0].ID != "3" {
			t.Fatalf("expected search to find the new room, got %+v", found)
		}
	})

	t.Run("update rejects missing name and unknown id", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		var vErr *ValidationError
		if _, err := store.UpdateStudent(context.Background(), Student{ID: "3"}); !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, err := store.UpdateStudent(context.Background(), Student{ID: "404", Name: "Ghost"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete keeps denormalized names on records", func(t *testing.T) {
		t.Parallel()

		ctx, collector := ContextWithNotifications(context.Background())
		store := newTestDataStore(t, nil)
		if _, err := store.UpdateMealAttendance(context.Background(), AttendanceInput{StudentID: "4", Date: "2025-04-16", Meal: Lunch, Attended: true}); err != nil {
			t.Fatalf("UpdateMealAttendance: %v", err)
		}
		if err := store.DeleteStudent(ctx, "4"); err != nil {
			t.Fatalf("DeleteStudent: %v", err)
		}
		if len(store.ListStudents("")) != 4 {
			t.Fatalf("expected 4 students after delete")
		}
		records := store.ListMealAttendance("2025-04-16")
		found := false
		for _, record := range records {
			if record.StudentID == "4" && record.StudentName == "Bob Brown" {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected attendance to keep the deleted student's name, got %+v", records)
		}
		if notes := collector.Drain(); len(notes) != 1 || notes[0].Title != "Student Removed" {
			t.Fatalf("unexpected notifications %+v", notes)
		}
		if err := store.DeleteStudent(context.Background(), "4"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestDataStore_AddOutpassRequestDirectoryWriteFails(t *testing.T) {
	t.Parallel()

	storage := &flakyStorage{KeyValueStore: memory.New()}
	store := newTestDataStore(t, storage)
	office := Identity{Role: RoleOffice}
	before := store.ListOutpassRequests(office)
	storage.failOnly(persistence.KeyStudents)

	request, err := store.AddOutpassRequest(context.Background(), OutpassInput{
		StudentID:   "9",
		StudentName: "New Arrival",
		RoomNumber:  "D-404",
		Reason:      "Home visit",
		FromDate:    "2025-04-20",
		ToDate:      "2025-04-21",
	})
	if err == nil {
		t.Fatalf("expected directory write to fail")
	}
	if request.ID != "" {
		t.Fatalf("expected no request on failure, got %+v", request)
	}

	storage.failOnly("")
	if after := store.ListOutpassRequests(office); !reflect.DeepEqual(before, after) {
		t.Fatalf("expected in-memory requests to be unchanged, got %+v", after)
	}
	if persisted := readSlot[OutpassRequest](t, storage, persistence.KeyOutpassRequests); len(persisted) != len(before) {
		t.Fatalf("expected persisted requests to be restored, got %d entries", len(persisted))
	}
	if _, known := store.studentByID("9"); known {
		t.Fatalf("expected directory to be unchanged")
	}
}

func TestDataStore_RestartKeepsEmptyOptionalFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := memory.New()
	first := newTestDataStore(t, storage)
	if err := first.DeleteStudent(ctx, "1"); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if _, err := first.UpdateMealAttendance(ctx, AttendanceInput{StudentID: "4", Date: "2025-04-17", Meal: Dinner, Attended: true}); err != nil {
		t.Fatalf("UpdateMealAttendance: %v", err)
	}

	second := newTestDataStore(t, storage)
	if want, got := first.ListStudents(""), second.ListStudents(""); !reflect.DeepEqual(want, got) {
		t.Fatalf("directory changed across restart:\nwant %+v\ngot  %+v", want, got)
	}
	emma := second.ListStudents("")[0]
	if emma.ID != "2" || emma.Email != "" || emma.RollNumber != "" || emma.ParentContact != "" {
		t.Fatalf("expected empty optional fields to stay empty, got %+v", emma)
	}
	if want, got := first.ListMealAttendance(""), second.ListMealAttendance(""); !reflect.DeepEqual(want, got) {
		t.Fatalf("attendance changed across restart:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestDataStore_MealNamesAreNormalized(t *testing.T) {
	t.Parallel()

	t.Run("attendance", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		record, err := store.UpdateMealAttendance(context.Background(), AttendanceInput{StudentID: "4", Date: "2025-04-16", Meal: " Lunch ", Attended: true})
		if err != nil {
			t.Fatalf("UpdateMealAttendance: %v", err)
		}
		if !record.Lunch || record.Breakfast || record.Dinner {
			t.Fatalf("expected only lunch to be marked, got %+v", record)
		}
	})

	t.Run("menu", func(t *testing.T) {
		t.Parallel()

		store := newTestDataStore(t, nil)
		if _, err := store.UpdateMenuItems(context.Background(), Monday, "LUNCH", []string{"Biryani"}); err != nil {
			t.Fatalf("UpdateMenuItems: %v", err)
		}
		monday, ok := store.MenuFor(Monday)
		if !ok {
			t.Fatalf("expected a monday menu")
		}
		if !reflect.DeepEqual(monday.Lunch, []string{"Biryani"}) {
			t.Fatalf("expected lunch to be replaced, got %v", monday.Lunch)
		}
	})
}

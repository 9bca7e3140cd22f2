package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/hostel-dashboard/internal/persistence"
)

// UpdateMealAttendance sets one meal flag of the (student, date) record,
// creating the record with the other meals unset when none exists. There is
// never more than one record per student and date.
func (s *DataStore) UpdateMealAttendance(ctx context.Context, input AttendanceInput) (record MealAttendance, err error) {
	if s == nil {
		err = fmt.Errorf("DataStore is nil")
		return
	}

	input.StudentID = strings.TrimSpace(input.StudentID)
	input.StudentName = strings.TrimSpace(input.StudentName)
	input.Date = strings.TrimSpace(input.Date)
	logger := s.loggerWith(ctx, "UpdateMealAttendance",
		"student_id", input.StudentID,
		"date", input.Date,
		"meal", input.Meal,
		"attended", input.Attended,
	)
	defer func() {
		s.finish(ctx, logger.With("attendance_id", record.ID), "UpdateMealAttendance", err, "meal attendance updated")
	}()

	vErr := &ValidationError{}
	if input.StudentID == "" {
		vErr.add("studentId", "Student is required")
	}
	if !validDate(input.Date) {
		vErr.add("date", "Date must be YYYY-MM-DD")
	}
	if meal, ok := ParseMeal(string(input.Meal)); ok {
		input.Meal = meal
	} else {
		vErr.add("meal", "Meal must be breakfast, lunch or dinner")
	}
	if err = vErr.errOrNil(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]MealAttendance, len(s.attendance), len(s.attendance)+1)
	copy(next, s.attendance)

	index := -1
	for i := range next {
		if next[i].StudentID == input.StudentID && next[i].Date == input.Date {
			index = i
			break
		}
	}
	if index < 0 {
		next = append(next, MealAttendance{
			ID:          s.idGenerator(),
			StudentID:   input.StudentID,
			StudentName: s.resolveStudentName(input),
			Date:        input.Date,
		})
		index = len(next) - 1
	}
	next[index].set(input.Meal, input.Attended)

	if err = s.writeSlot(ctx, persistence.KeyMealAttendance, next); err != nil {
		return
	}
	s.attendance = next
	record = next[index]

	notify(ctx, logger, "Meal Attendance Updated", fmt.Sprintf("%s attendance has been marked.", input.Meal))
	return
}

func (s *DataStore) resolveStudentName(input AttendanceInput) string {
	if input.StudentName != "" {
		return input.StudentName
	}
	if student, ok := s.studentByID(input.StudentID); ok && student.Name != "" {
		return student.Name
	}
	return unknownStudent
}

// ListMealAttendance returns the records of date, or every record when date is
// empty.
func (s *DataStore) ListMealAttendance(date string) []MealAttendance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	date = strings.TrimSpace(date)
	out := make([]MealAttendance, 0, len(s.attendance))
	for _, record := range s.attendance {
		if date == "" || record.Date == date {
			out = append(out, record)
		}
	}
	return out
}

// AbsenceNotice asks for the parents of absent students to be informed.
type AbsenceNotice struct {
	Date       string
	Meal       Meal
	StudentIDs []string
}

// NotifyAbsentParents acknowledges a parent notification for each listed
// student. Delivery is simulated; the students must be in the directory.
func (s *DataStore) NotifyAbsentParents(ctx context.Context, notice AbsenceNotice) (notified int, err error) {
	if s == nil {
		err = fmt.Errorf("DataStore is nil")
		return
	}

	logger := s.loggerWith(ctx, "NotifyAbsentParents", "date", notice.Date, "meal", notice.Meal)
	defer func() {
		s.finish(ctx, logger.With("notified", notified), "NotifyAbsentParents", err, "parents notified")
	}()

	if len(notice.StudentIDs) == 0 {
		vErr := &ValidationError{}
		vErr.add("studentIds", "Please select at least one student to notify")
		err = vErr
		notifyFailure(ctx, logger, "No students selected", "Please select at least one student to notify")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(notice.StudentIDs))
	for _, id := range notice.StudentIDs {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; dup {
			continue
		}
		student, ok := s.studentByID(id)
		if !ok {
			err = fmt.Errorf("student %q: %w", id, ErrNotFound)
			notified = 0
			return
		}
		seen[id] = struct{}{}
		logger.DebugContext(ctx, "parent notification queued", "student_id", student.ID, "parent_contact_set", student.ParentContact != "")
		notified++
	}

	notify(ctx, logger, "Notifications Sent", fmt.Sprintf("Notifications sent to parents of %d students", notified))
	return
}

package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/hostel-dashboard/internal/persistence"
)

// ListStudents returns the directory entries whose name, room, roll number or
// branch contains query, ignoring case. An empty query matches everyone.
func (s *DataStore) ListStudents(query string) []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Student, 0, len(s.students))
	for _, student := range s.students {
		if query == "" || studentMatches(student, query) {
			out = append(out, student)
		}
	}
	return out
}

func studentMatches(student Student, query string) bool {
	for _, field := range []string{student.Name, student.RoomNumber, student.RollNumber, student.Branch} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// ImportResult reports the outcome of a roster import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportStudents upserts roster rows by id. Rows without an id or a name are
// skipped.
func (s *DataStore) ImportStudents(ctx context.Context, rows []Student) (result ImportResult, err error) {
	if s == nil {
		err = fmt.Errorf("DataStore is nil")
		return
	}

	logger := s.loggerWith(ctx, "ImportStudents", "rows", len(rows))
	defer func() {
		s.finish(ctx, logger.With("imported", result.Imported, "skipped", result.Skipped), "ImportStudents", err, "students imported")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Student, len(s.students), len(s.students)+len(rows))
	copy(next, s.students)
	positions := make(map[string]int, len(next))
	for i, student := range next {
		positions[student.ID] = i
	}

	for _, row := range rows {
		row = normalizeStudent(row)
		if row.ID == "" || row.Name == "" {
			result.Skipped++
			continue
		}
		if i, ok := positions[row.ID]; ok {
			next[i] = row
		} else {
			positions[row.ID] = len(next)
			next = append(next, row)
		}
		result.Imported++
	}

	if result.Imported == 0 {
		return
	}
	if err = s.writeSlot(ctx, persistence.KeyStudents, next); err != nil {
		result = ImportResult{}
		return
	}
	s.students = next

	notify(ctx, logger, "Students Imported", fmt.Sprintf("%d students have been imported.", result.Imported))
	return
}

// UpdateStudent replaces the directory entry with the same id.
func (s *DataStore) UpdateStudent(ctx context.Context, student Student) (updated Student, err error) {
	if s == nil {
		err = fmt.Errorf("DataStore is nil")
		return
	}

	student = normalizeStudent(student)
	logger := s.loggerWith(ctx, "UpdateStudent", "student_id", student.ID)
	defer func() {
		s.finish(ctx, logger, "UpdateStudent", err, "student updated")
	}()

	if student.Name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "Name is required")
		err = vErr
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.students {
		if s.students[i].ID == student.ID {
			index = i
			break
		}
	}
	if index < 0 {
		err = ErrNotFound
		return
	}

	next := make([]Student, len(s.students))
	copy(next, s.students)
	next[index] = student
	if err = s.writeSlot(ctx, persistence.KeyStudents, next); err != nil {
		return
	}
	s.students = next
	updated = student

	notify(ctx, logger, "Changes Saved", "Student information has been updated successfully.")
	return
}

// DeleteStudent removes a directory entry. Records referencing the student
// keep their denormalized name.
func (s *DataStore) DeleteStudent(ctx context.Context, id string) (err error) {
	if s == nil {
		return fmt.Errorf("DataStore is nil")
	}

	id = strings.TrimSpace(id)
	logger := s.loggerWith(ctx, "DeleteStudent", "student_id", id)
	defer func() {
		s.finish(ctx, logger, "DeleteStudent", err, "student removed")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Student, 0, len(s.students))
	for _, student := range s.students {
		if student.ID != id {
			next = append(next, student)
		}
	}
	if len(next) == len(s.students) {
		err = ErrNotFound
		return
	}
	if err = s.writeSlot(ctx, persistence.KeyStudents, next); err != nil {
		return
	}
	s.students = next

	notify(ctx, logger, "Student Removed", "The student has been successfully removed from the system.")
	return
}

func normalizeStudent(student Student) Student {
	student.ID = strings.TrimSpace(student.ID)
	student.Name = strings.TrimSpace(student.Name)
	student.RoomNumber = strings.TrimSpace(student.RoomNumber)
	student.RollNumber = strings.TrimSpace(student.RollNumber)
	student.Email = strings.TrimSpace(student.Email)
	student.ParentContact = strings.TrimSpace(student.ParentContact)
	student.Branch = strings.TrimSpace(student.Branch)
	student.Year = strings.TrimSpace(student.Year)
	return student
}

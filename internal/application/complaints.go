package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/hostel-dashboard/internal/persistence"
)

// AddComplaint records a new pending complaint.
func (s *DataStore) AddComplaint(ctx context.Context, input ComplaintInput) (complaint Complaint, err error) {
	if s == nil {
		err = fmt.Errorf("DataStore is nil")
		return
	}

	input.StudentID = strings.TrimSpace(input.StudentID)
	input.StudentName = strings.TrimSpace(input.StudentName)
	input.RoomNumber = strings.TrimSpace(input.RoomNumber)
	input.Description = strings.TrimSpace(input.Description)
	logger := s.loggerWith(ctx, "AddComplaint", "student_id", input.StudentID, "category", input.Category)
	defer func() {
		s.finish(ctx, logger.With("complaint_id", complaint.ID), "AddComplaint", err, "complaint submitted")
	}()

	vErr := &ValidationError{}
	if input.StudentID == "" {
		vErr.add("studentId", "Student is required")
	}
	if input.StudentName == "" {
		vErr.add("studentName", "Student name is required")
	}
	if !validComplaintCategory(input.Category) {
		vErr.add("category", "Category must be maintenance, mess or other")
	}
	if input.Description == "" {
		vErr.add("description", "Description is required")
	}
	if err = vErr.errOrNil(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	complaint = Complaint{
		ID:          s.idGenerator(),
		StudentID:   input.StudentID,
		StudentName: input.StudentName,
		RoomNumber:  input.RoomNumber,
		Category:    input.Category,
		Description: input.Description,
		Status:      ComplaintPending,
		CreatedAt:   s.timestamp(),
	}
	next := append(append(make([]Complaint, 0, len(s.complaints)+1), s.complaints...), complaint)
	if err = s.writeSlot(ctx, persistence.KeyComplaints, next); err != nil {
		complaint = Complaint{}
		return
	}
	s.complaints = next

	notify(ctx, logger, "Complaint Submitted", "Your complaint has been submitted successfully.")
	return
}

// UpdateComplaint moves a complaint to any of its three statuses.
func (s *DataStore) UpdateComplaint(ctx context.Context, id string, status ComplaintStatus) (complaint Complaint, err error) {
	if s == nil {
		err = fmt.Errorf("DataStore is nil")
		return
	}

	id = strings.TrimSpace(id)
	logger := s.loggerWith(ctx, "UpdateComplaint", "complaint_id", id, "status", status)
	defer func() {
		s.finish(ctx, logger, "UpdateComplaint", err, "complaint updated")
	}()

	switch status {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved:
	default:
		vErr := &ValidationError{}
		vErr.add("status", "Status must be pending, in-progress or resolved")
		err = vErr
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.complaints {
		if s.complaints[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		err = ErrNotFound
		return
	}

	next := make([]Complaint, len(s.complaints))
	copy(next, s.complaints)
	next[index].Status = status
	if err = s.writeSlot(ctx, persistence.KeyComplaints, next); err != nil {
		return
	}
	s.complaints = next
	complaint = next[index]

	notify(ctx, logger, "Complaint Updated", fmt.Sprintf("The complaint status has been updated to %s.", status))
	return
}

// ListComplaints returns the complaints visible to viewer, newest first.
func (s *DataStore) ListComplaints(viewer Identity) []Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Complaint, 0, len(s.complaints))
	for _, complaint := range s.complaints {
		if viewer.Role == RoleStudent && complaint.StudentID != viewer.ID {
			continue
		}
		out = append(out, complaint)
	}
	sortNewestFirst(out, func(c Complaint) string { return c.CreatedAt })
	return out
}

func validComplaintCategory(category ComplaintCategory) bool {
	switch category {
	case ComplaintMaintenance, ComplaintMess, ComplaintOther:
		return true
	}
	return false
}

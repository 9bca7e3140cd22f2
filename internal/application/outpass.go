package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/hostel-dashboard/internal/persistence"
)

// AddOutpassRequest records a new pending request. A student the directory
// does not know yet is added to it.
func (s *DataStore) AddOutpassRequest(ctx context.Context, input OutpassInput) (request OutpassRequest, err error) {
	if s == nil {
		err = fmt.Errorf("DataStore is nil")
		return
	}

	input = normalizeOutpassInput(input)
	logger := s.loggerWith(ctx, "AddOutpassRequest", "student_id", input.StudentID)
	defer func() {
		s.finish(ctx, logger.With("outpass_id", request.ID), "AddOutpassRequest", err, "outpass request submitted")
	}()

	if vErr := validateOutpassInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request = OutpassRequest{
		ID:          s.idGenerator(),
		StudentID:   input.StudentID,
		StudentName: input.StudentName,
		RoomNumber:  input.RoomNumber,
		Reason:      input.Reason,
		FromDate:    input.FromDate,
		ToDate:      input.ToDate,
		Status:      OutpassPending,
		CreatedAt:   s.timestamp(),
	}

	next := append(append(make([]OutpassRequest, 0, len(s.outpass)+1), s.outpass...), request)
	if err = s.writeSlot(ctx, persistence.KeyOutpassRequests, next); err != nil {
		request = OutpassRequest{}
		return
	}

	students := s.students
	if _, known := s.studentByID(input.StudentID); !known {
		students = append(append(make([]Student, 0, len(s.students)+1), s.students...), Student{
			ID:         input.StudentID,
			Name:       input.StudentName,
			RoomNumber: input.RoomNumber,
		})
		if err = s.writeSlot(ctx, persistence.KeyStudents, students); err != nil {
			if restoreErr := s.writeSlot(ctx, persistence.KeyOutpassRequests, s.outpass); restoreErr != nil {
				err = errors.Join(err, fmt.Errorf("restore outpass requests: %w", restoreErr))
			}
			request = OutpassRequest{}
			return
		}
	}
	s.outpass = next
	s.students = students

	notify(ctx, logger, "Outpass Request Submitted", "Your outpass request has been submitted successfully.")
	return
}

// UpdateOutpassRequest sets the status of an existing request. The last
// decision wins; an approved request may still be rejected.
func (s *DataStore) UpdateOutpassRequest(ctx context.Context, id string, status OutpassStatus) (request OutpassRequest, err error) {
	if s == nil {
		err = fmt.Errorf("DataStore is nil")
		return
	}

	id = strings.TrimSpace(id)
	logger := s.loggerWith(ctx, "UpdateOutpassRequest", "outpass_id", id, "status", status)
	defer func() {
		s.finish(ctx, logger, "UpdateOutpassRequest", err, "outpass request updated")
	}()

	if status != OutpassApproved && status != OutpassRejected {
		vErr := &ValidationError{}
		vErr.add("status", "Status must be approved or rejected")
		err = vErr
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.outpass {
		if s.outpass[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		err = ErrNotFound
		return
	}

	next := make([]OutpassRequest, len(s.outpass))
	copy(next, s.outpass)
	next[index].Status = status
	if err = s.writeSlot(ctx, persistence.KeyOutpassRequests, next); err != nil {
		return
	}
	s.outpass = next
	request = next[index]

	title := "Outpass Request Rejected"
	if status == OutpassApproved {
		title = "Outpass Request Approved"
	}
	notify(ctx, logger, title, fmt.Sprintf("The outpass request has been %s.", status))
	return
}

// ListOutpassRequests returns the requests visible to viewer, newest first.
// Students only see their own requests.
func (s *DataStore) ListOutpassRequests(viewer Identity) []OutpassRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]OutpassRequest, 0, len(s.outpass))
	for _, request := range s.outpass {
		if viewer.Role == RoleStudent && request.StudentID != viewer.ID {
			continue
		}
		out = append(out, request)
	}
	sortNewestFirst(out, func(r OutpassRequest) string { return r.CreatedAt })
	return out
}

func normalizeOutpassInput(input OutpassInput) OutpassInput {
	input.StudentID = strings.TrimSpace(input.StudentID)
	input.StudentName = strings.TrimSpace(input.StudentName)
	input.RoomNumber = strings.TrimSpace(input.RoomNumber)
	input.Reason = strings.TrimSpace(input.Reason)
	input.FromDate = strings.TrimSpace(input.FromDate)
	input.ToDate = strings.TrimSpace(input.ToDate)
	return input
}

func validateOutpassInput(input OutpassInput) *ValidationError {
	vErr := &ValidationError{}
	if input.StudentID == "" {
		vErr.add("studentId", "Student is required")
	}
	if input.StudentName == "" {
		vErr.add("studentName", "Student name is required")
	}
	if input.Reason == "" {
		vErr.add("reason", "Reason is required")
	}
	fromOK := validDate(input.FromDate)
	if !fromOK {
		vErr.add("fromDate", "From date must be YYYY-MM-DD")
	}
	toOK := validDate(input.ToDate)
	if !toOK {
		vErr.add("toDate", "To date must be YYYY-MM-DD")
	}
	// Dates share a fixed layout, so lexical order is chronological.
	if fromOK && toOK && input.ToDate < input.FromDate {
		vErr.add("toDate", "To date must not be before from date")
	}
	return vErr
}

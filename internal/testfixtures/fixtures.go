package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/hostel-dashboard/internal/application"
)

var (
	outpassCounter      uint64
	complaintCounter    uint64
	announcementCounter uint64
	studentCounter      uint64
)

// referenceTime falls on the day of the seeded attendance records.
var referenceTime = time.Date(2025, time.April, 16, 9, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Identities -----------------------------

// StudentIdentity returns the profile a demo student login produces.
func StudentIdentity() application.Identity {
	return application.Identity{
		ID:            "1",
		Name:          "John Doe",
		Email:         "demo.student@hostel.com",
		Role:          application.RoleStudent,
		RoomNumber:    "A-101",
		RollNumber:    "ST12345",
		ParentContact: "+1234567890",
	}
}

// MessIdentity returns the profile a demo mess login produces.
func MessIdentity() application.Identity {
	return application.Identity{ID: "2", Name: "Mess Manager", Email: "demo.mess@hostel.com", Role: application.RoleMess, Designation: "Head Chef"}
}

// OfficeIdentity returns the profile a demo office login produces.
func OfficeIdentity() application.Identity {
	return application.Identity{ID: "3", Name: "Hostel Warden", Email: "demo.office@hostel.com", Role: application.RoleOffice, Designation: "Chief Warden"}
}

// IdentityFor returns the demo profile of role.
func IdentityFor(role application.Role) application.Identity {
	switch role {
	case application.RoleMess:
		return MessIdentity()
	case application.RoleOffice:
		return OfficeIdentity()
	default:
		return StudentIdentity()
	}
}

// DemoCredentials returns the login triple of role.
func DemoCredentials(role application.Role) application.Credentials {
	switch role {
	case application.RoleMess:
		return application.Credentials{Email: "demo.mess@hostel.com", Password: "mess123", Role: role}
	case application.RoleOffice:
		return application.Credentials{Email: "demo.office@hostel.com", Password: "office123", Role: role}
	default:
		return application.Credentials{Email: "demo.student@hostel.com", Password: "student123", Role: application.RoleStudent}
	}
}

// ----------------------------- Outpass fixtures -----------------------------

// OutpassOption configures a generated outpass input.
type OutpassOption func(*application.OutpassInput)

// NewOutpassInput returns a valid outpass input for the demo student.
func NewOutpassInput(opts ...OutpassOption) application.OutpassInput {
	idx := atomic.AddUint64(&outpassCounter, 1)
	from := referenceTime.AddDate(0, 0, int(idx%20)+1)
	student := StudentIdentity()
	input := application.OutpassInput{
		StudentID:   student.ID,
		StudentName: student.Name,
		RoomNumber:  student.RoomNumber,
		Reason:      fmt.Sprintf("Trip %03d", idx),
		FromDate:    from.Format("2006-01-02"),
		ToDate:      from.AddDate(0, 0, 2).Format("2006-01-02"),
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// WithOutpassStudent sets the requesting student.
func WithOutpassStudent(id, name, room string) OutpassOption {
	return func(in *application.OutpassInput) {
		in.StudentID = id
		in.StudentName = name
		in.RoomNumber = room
	}
}

// WithOutpassDates overrides the date range.
func WithOutpassDates(from, to string) OutpassOption {
	return func(in *application.OutpassInput) {
		in.FromDate = from
		in.ToDate = to
	}
}

// WithOutpassReason overrides the reason.
func WithOutpassReason(reason string) OutpassOption {
	return func(in *application.OutpassInput) {
		in.Reason = reason
	}
}

// ----------------------------- Complaint fixtures -----------------------------

// ComplaintOption configures a generated complaint input.
type ComplaintOption func(*application.ComplaintInput)

// NewComplaintInput returns a valid maintenance complaint from the demo student.
func NewComplaintInput(opts ...ComplaintOption) application.ComplaintInput {
	idx := atomic.AddUint64(&complaintCounter, 1)
	student := StudentIdentity()
	input := application.ComplaintInput{
		StudentID:   student.ID,
		StudentName: student.Name,
		RoomNumber:  student.RoomNumber,
		Category:    application.ComplaintMaintenance,
		Description: fmt.Sprintf("Broken fixture %03d", idx),
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// WithComplaintCategory overrides the category.
func WithComplaintCategory(category application.ComplaintCategory) ComplaintOption {
	return func(in *application.ComplaintInput) {
		in.Category = category
	}
}

// WithComplaintStudent sets the complaining student.
func WithComplaintStudent(id, name, room string) ComplaintOption {
	return func(in *application.ComplaintInput) {
		in.StudentID = id
		in.StudentName = name
		in.RoomNumber = room
	}
}

// ----------------------------- Announcement fixtures -----------------------------

// NewAnnouncementInput returns a valid general announcement.
func NewAnnouncementInput(category application.AnnouncementCategory) application.AnnouncementInput {
	idx := atomic.AddUint64(&announcementCounter, 1)
	return application.AnnouncementInput{
		Title:    fmt.Sprintf("Notice %03d", idx),
		Content:  fmt.Sprintf("Details of notice %03d.", idx),
		Category: category,
	}
}

// ----------------------------- Student fixtures -----------------------------

// StudentOption configures a generated directory entry.
type StudentOption func(*application.Student)

// NewStudent returns a directory entry with a unique id outside the seeded range.
func NewStudent(opts ...StudentOption) application.Student {
	idx := atomic.AddUint64(&studentCounter, 1)
	student := application.Student{
		ID:            fmt.Sprintf("student-%03d", idx),
		Name:          fmt.Sprintf("Student %03d", idx),
		RoomNumber:    fmt.Sprintf("D-%03d", 100+idx),
		RollNumber:    fmt.Sprintf("RN%05d", idx),
		ParentContact: "+10000000000",
		Branch:        "Computer Science",
		Year:          "First Year",
	}
	for _, opt := range opts {
		opt(&student)
	}
	return student
}

// WithStudentID overrides the generated id.
func WithStudentID(id string) StudentOption {
	return func(s *application.Student) {
		s.ID = id
	}
}

// WithStudentName overrides the generated name.
func WithStudentName(name string) StudentOption {
	return func(s *application.Student) {
		s.Name = name
	}
}

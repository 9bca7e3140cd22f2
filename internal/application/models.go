package application

import "strings"

// Role identifies one of the three dashboard audiences.
type Role string

const (
	RoleStudent Role = "student"
	RoleMess    Role = "mess"
	RoleOffice  Role = "office"
)

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleStudent, RoleMess, RoleOffice}
}

// ParseRole converts a raw value into a Role.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleMess:
		return RoleMess, true
	case RoleOffice:
		return RoleOffice, true
	}
	return "", false
}

// Identity is the profile held by a logged in session. Students carry room,
// roll number and parent contact; mess and office staff carry a designation.
type Identity struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	RoomNumber    string `json:"roomNumber,omitempty"`
	RollNumber    string `json:"rollNumber,omitempty"`
	ParentContact string `json:"parentContact,omitempty"`
	Designation   string `json:"designation,omitempty"`
}

type OutpassStatus string

const (
	OutpassPending  OutpassStatus = "pending"
	OutpassApproved OutpassStatus = "approved"
	OutpassRejected OutpassStatus = "rejected"
)

// OutpassRequest is a student's request to leave the premises for a date range.
type OutpassRequest struct {
	ID          string        `json:"id"`
	StudentID   string        `json:"studentId"`
	StudentName string        `json:"studentName"`
	RoomNumber  string        `json:"roomNumber"`
	Reason      string        `json:"reason"`
	FromDate    string        `json:"fromDate"`
	ToDate      string        `json:"toDate"`
	Status      OutpassStatus `json:"status"`
	CreatedAt   string        `json:"createdAt"`
}

// OutpassInput carries the caller supplied fields of a new outpass request.
type OutpassInput struct {
	StudentID   string
	StudentName string
	RoomNumber  string
	Reason      string
	FromDate    string
	ToDate      string
}

type ComplaintCategory string

const (
	ComplaintMaintenance ComplaintCategory = "maintenance"
	ComplaintMess        ComplaintCategory = "mess"
	ComplaintOther       ComplaintCategory = "other"
)

type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "pending"
	ComplaintInProgress ComplaintStatus = "in-progress"
	ComplaintResolved   ComplaintStatus = "resolved"
)

// Complaint is a student grievance tracked by the office and mess.
type Complaint struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"studentId"`
	StudentName string            `json:"studentName"`
	RoomNumber  string            `json:"roomNumber"`
	Category    ComplaintCategory `json:"category"`
	Description string            `json:"description"`
	Status      ComplaintStatus   `json:"status"`
	CreatedAt   string            `json:"createdAt"`
}

// ComplaintInput carries the caller supplied fields of a new complaint.
type ComplaintInput struct {
	StudentID   string
	StudentName string
	RoomNumber  string
	Category    ComplaintCategory
	Description string
}

// Weekday names a menu day in lower case.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the menu days in display order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Meal names one of the three daily meals.
type Meal string

const (
	Breakfast Meal = "breakfast"
	Lunch     Meal = "lunch"
	Dinner    Meal = "dinner"
)

// Meals lists the meals in serving order.
func Meals() []Meal {
	return []Meal{Breakfast, Lunch, Dinner}
}

// MenuItem holds the three item lists of one weekday.
type MenuItem struct {
	Day       Weekday  `json:"day"`
	Breakfast []string `json:"breakfast"`
	Lunch     []string `json:"lunch"`
	Dinner    []string `json:"dinner"`
}

// Items returns the list for meal.
func (m MenuItem) Items(meal Meal) []string {
	switch meal {
	case Breakfast:
		return m.Breakfast
	case Lunch:
		return m.Lunch
	case Dinner:
		return m.Dinner
	}
	return nil
}

type AnnouncementCategory string

const (
	AnnouncementGeneral   AnnouncementCategory = "general"
	AnnouncementImportant AnnouncementCategory = "important"
	AnnouncementEvent     AnnouncementCategory = "event"
)

// Announcement is a notice posted by the mess or the office.
type Announcement struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Content  string               `json:"content"`
	Date     string               `json:"date"`
	Category AnnouncementCategory `json:"category"`
}

// AnnouncementInput carries the caller supplied fields of a new announcement.
type AnnouncementInput struct {
	Title    string
	Content  string
	Category AnnouncementCategory
}

// MealAttendance records which meals a student attended on a date. There is
// at most one record per student and date.
type MealAttendance struct {
	ID          string `json:"id"`
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Date        string `json:"date"`
	Breakfast   bool   `json:"breakfast"`
	Lunch       bool   `json:"lunch"`
	Dinner      bool   `json:"dinner"`
}

// Attended reports the flag for meal.
func (a MealAttendance) Attended(meal Meal) bool {
	switch meal {
	case Breakfast:
		return a.Breakfast
	case Lunch:
		return a.Lunch
	case Dinner:
		return a.Dinner
	}
	return false
}

func (a *MealAttendance) set(meal Meal, attended bool) {
	switch meal {
	case Breakfast:
		a.Breakfast = attended
	case Lunch:
		a.Lunch = attended
	case Dinner:
		a.Dinner = attended
	}
}

// AttendanceInput addresses one meal slot of one student on one date.
// StudentName is optional; the student directory is consulted when empty.
type AttendanceInput struct {
	StudentID   string
	StudentName string
	Date        string
	Meal        Meal
	Attended    bool
}

// Student is an entry of the hostel's student directory.
type Student struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RoomNumber    string `json:"roomNumber"`
	RollNumber    string `json:"rollNumber,omitempty"`
	Email         string `json:"email,omitempty"`
	ParentContact string `json:"parentContact,omitempty"`
	Branch        string `json:"branch,omitempty"`
	Year          string `json:"year,omitempty"`
}

// RegistrationInput is the partial student profile submitted at sign up.
type RegistrationInput struct {
	Name          string
	Email         string
	RoomNumber    string
	RollNumber    string
	ParentContact string
}

// Credentials is a login attempt.
type Credentials struct {
	Email    string
	Password string
	Role     Role
}

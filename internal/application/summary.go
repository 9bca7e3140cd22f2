package application

import "context"

// Summary is the role specific dashboard overview.
type Summary struct {
	Role    Role            `json:"role"`
	Date    string          `json:"date"`
	Student *StudentSummary `json:"student,omitempty"`
	Mess    *MessSummary    `json:"mess,omitempty"`
	Office  *OfficeSummary  `json:"office,omitempty"`
}

type StudentSummary struct {
	Outpasses  map[OutpassStatus]int   `json:"outpasses"`
	Complaints map[ComplaintStatus]int `json:"complaints"`
	TodayMenu  *MenuItem               `json:"todayMenu,omitempty"`
}

type MealCount struct {
	Meal    Meal `json:"meal"`
	Present int  `json:"present"`
	Absent  int  `json:"absent"`
}

type MessSummary struct {
	Attendance []MealCount `json:"attendance"`
	TodayMenu  *MenuItem   `json:"todayMenu,omitempty"`
}

type OfficeSummary struct {
	PendingOutpasses    int            `json:"pendingOutpasses"`
	PendingComplaints   int            `json:"pendingComplaints"`
	Students            int            `json:"students"`
	LatestAnnouncements []Announcement `json:"latestAnnouncements"`
}

const latestAnnouncementCount = 3

// Summary builds the dashboard overview for viewer as of the store's clock.
func (s *DataStore) Summary(ctx context.Context, viewer Identity) Summary {
	now := s.now().UTC()
	summary := Summary{Role: viewer.Role, Date: now.Format(dateLayout)}

	key := summaryCacheKey(viewer, summary.Date)
	if cached, ok := s.summaries.Get(key); ok {
		return cached
	}
	generation := s.summaries.Generation()

	var todayMenu *MenuItem
	if item, ok := s.MenuFor(WeekdayOf(now)); ok {
		todayMenu = &item
	}

	switch viewer.Role {
	case RoleStudent:
		student := &StudentSummary{
			Outpasses:  map[OutpassStatus]int{OutpassPending: 0, OutpassApproved: 0, OutpassRejected: 0},
			Complaints: map[ComplaintStatus]int{ComplaintPending: 0, ComplaintInProgress: 0, ComplaintResolved: 0},
			TodayMenu:  todayMenu,
		}
		for _, request := range s.ListOutpassRequests(viewer) {
			student.Outpasses[request.Status]++
		}
		for _, complaint := range s.ListComplaints(viewer) {
			student.Complaints[complaint.Status]++
		}
		summary.Student = student
	case RoleMess:
		records := s.ListMealAttendance(summary.Date)
		total := len(s.ListStudents(""))
		mess := &MessSummary{TodayMenu: todayMenu}
		for _, meal := range Meals() {
			count := MealCount{Meal: meal}
			for _, record := range records {
				if record.Attended(meal) {
					count.Present++
				}
			}
			count.Absent = max(total-count.Present, 0)
			mess.Attendance = append(mess.Attendance, count)
		}
		summary.Mess = mess
	case RoleOffice:
		office := &OfficeSummary{Students: len(s.ListStudents(""))}
		for _, request := range s.ListOutpassRequests(viewer) {
			if request.Status == OutpassPending {
				office.PendingOutpasses++
			}
		}
		for _, complaint := range s.ListComplaints(viewer) {
			if complaint.Status == ComplaintPending {
				office.PendingComplaints++
			}
		}
		announcements := s.ListAnnouncements()
		if len(announcements) > latestAnnouncementCount {
			announcements = announcements[:latestAnnouncementCount]
		}
		office.LatestAnnouncements = announcements
		summary.Office = office
	}

	s.summaries.Store(key, summary, generation)
	s.loggerWith(ctx, "Summary", "role", viewer.Role).DebugContext(ctx, "summary built")
	return summary
}

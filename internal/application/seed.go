package application

func seedOutpassRequests() []OutpassRequest {
	return []OutpassRequest{
		{ID: "1", StudentID: "1", StudentName: "John Doe", RoomNumber: "A-101", Reason: "Family function", FromDate: "2025-04-20", ToDate: "2025-04-22", Status: OutpassPending, CreatedAt: "2025-04-15T10:30:00Z"},
		{ID: "2", StudentID: "3", StudentName: "Alice Johnson", RoomNumber: "B-205", Reason: "Medical appointment", FromDate: "2025-04-18", ToDate: "2025-04-19", Status: OutpassApproved, CreatedAt: "2025-04-14T08:15:00Z"},
		{ID: "3", StudentID: "5", StudentName: "Mike Smith", RoomNumber: "C-310", Reason: "Interview", FromDate: "2025-04-21", ToDate: "2025-04-21", Status: OutpassRejected, CreatedAt: "2025-04-13T14:45:00Z"},
	}
}

func seedComplaints() []Complaint {
	return []Complaint{
		{ID: "1", StudentID: "1", StudentName: "John Doe", RoomNumber: "A-101", Category: ComplaintMaintenance, Description: "Leaking tap in bathroom", Status: ComplaintPending, CreatedAt: "2025-04-14T09:20:00Z"},
		{ID: "2", StudentID: "2", StudentName: "Emma Wilson", RoomNumber: "A-102", Category: ComplaintMess, Description: "Food quality has degraded in the last week", Status: ComplaintInProgress, CreatedAt: "2025-04-13T11:45:00Z"},
		{ID: "3", StudentID: "4", StudentName: "Bob Brown", RoomNumber: "B-210", Category: ComplaintOther, Description: "Excessive noise from neighboring room", Status: ComplaintResolved, CreatedAt: "2025-04-10T16:30:00Z"},
	}
}

func seedMenuItems() []MenuItem {
	return []MenuItem{
		{Day: Monday,
			Breakfast: []string{"Bread & Butter", "Boiled Eggs", "Tea/Coffee"},
			Lunch:     []string{"Rice", "Dal", "Mixed Vegetables", "Curd"},
			Dinner:    []string{"Chapati", "Paneer Curry", "Salad", "Fruit Custard"}},
		{Day: Tuesday,
			Breakfast: []string{"Idli & Sambar", "Fruit Bowl", "Tea/Coffee"},
			Lunch:     []string{"Jeera Rice", "Rajma", "Aloo Gobi", "Papad"},
			Dinner:    []string{"Paratha", "Chana Masala", "Raita", "Ice Cream"}},
		{Day: Wednesday,
			Breakfast: []string{"Upma", "Boiled Eggs", "Tea/Coffee"},
			Lunch:     []string{"Pulao", "Dal Tadka", "Bhindi Fry", "Curd"},
			Dinner:    []string{"Chapati", "Egg Curry", "Salad", "Kheer"}},
		{Day: Thursday,
			Breakfast: []string{"Poha", "Bananas", "Tea/Coffee"},
			Lunch:     []string{"Rice", "Sambar", "Cabbage Poriyal", "Papad"},
			Dinner:    []string{"Chapati", "Mixed Veg Curry", "Raita", "Fruit"}},
		{Day: Friday,
			Breakfast: []string{"Aloo Paratha", "Curd", "Tea/Coffee"},
			Lunch:     []string{"Veg Biryani", "Soya Curry", "Boondi Raita", "Pickle"},
			Dinner:    []string{"Chapati", "Mutter Paneer", "Salad", "Gulab Jamun"}},
		{Day: Saturday,
			Breakfast: []string{"Chole Bhature", "Fruit Bowl", "Tea/Coffee"},
			Lunch:     []string{"Rice", "Dal Fry", "Aloo Mutter", "Curd"},
			Dinner:    []string{"Poori", "Malai Kofta", "Salad", "Sewai"}},
		{Day: Sunday,
			Breakfast: []string{"Dosa", "Coconut Chutney", "Tea/Coffee"},
			Lunch:     []string{"Veg Pulao", "Kadhai Paneer", "Boondi Raita", "Papad"},
			Dinner:    []string{"Butter Naan", "Butter Chicken/Paneer", "Salad", "Ice Cream"}},
	}
}

func seedAnnouncements() []Announcement {
	return []Announcement{
		{ID: "1", Title: "Water Supply Interruption", Content: "There will be a scheduled water supply interruption on April 20th from 10 AM to 2 PM due to maintenance work.", Date: "2025-04-15", Category: AnnouncementImportant},
		{ID: "2", Title: "Cultural Night Event", Content: "Join us for the annual cultural night event in the hostel courtyard on April 25th at 6 PM. All students are encouraged to participate.", Date: "2025-04-16", Category: AnnouncementEvent},
		{ID: "3", Title: "New Gym Equipment", Content: "We have installed new gym equipment in the hostel gymnasium. The gym will be closed on April 18th for installation.", Date: "2025-04-14", Category: AnnouncementGeneral},
	}
}

func seedMealAttendance() []MealAttendance {
	return []MealAttendance{
		{ID: "1", StudentID: "1", StudentName: "John Doe", Date: "2025-04-16", Breakfast: true, Lunch: true, Dinner: false},
		{ID: "2", StudentID: "2", StudentName: "Emma Wilson", Date: "2025-04-16", Breakfast: true, Lunch: false, Dinner: true},
		{ID: "3", StudentID: "3", StudentName: "Alice Johnson", Date: "2025-04-16", Breakfast: false, Lunch: true, Dinner: true},
	}
}

func seedStudents() []Student {
	return []Student{
		{ID: "1", Name: "John Doe", RoomNumber: "A-101", RollNumber: "ST12345", Email: "demo.student@hostel.com", ParentContact: "+1234567890", Branch: "Computer Science", Year: "Second Year"},
		{ID: "2", Name: "Emma Wilson", RoomNumber: "A-102", Branch: "Electrical", Year: "First Year"},
		{ID: "3", Name: "Alice Johnson", RoomNumber: "B-205", Branch: "Mechanical", Year: "Third Year"},
		{ID: "4", Name: "Bob Brown", RoomNumber: "B-210", Branch: "Civil", Year: "Fourth Year"},
		{ID: "5", Name: "Mike Smith", RoomNumber: "C-310", Branch: "Electronics", Year: "Second Year"},
	}
}

// Package spreadsheet reads student rosters from and writes meal attendance
// to XLSX workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/hostel-dashboard/internal/application"
)

// ErrNoSheets is returned for a workbook without worksheets.
var ErrNoSheets = errors.New("spreadsheet: workbook has no sheets")

// ContentType is the media type of XLSX workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const attendanceSheet = "Attendance"

type column int

const (
	colID column = iota
	colName
	colRoom
	colRoll
	colEmail
	colParent
	colBranch
	colYear
)

var headerAliases = map[string]column{
	"id":             colID,
	"student id":     colID,
	"name":           colName,
	"student name":   colName,
	"room":           colRoom,
	"room number":    colRoom,
	"roll":           colRoll,
	"roll number":    colRoll,
	"email":          colEmail,
	"parent contact": colParent,
	"guardian":       colParent,
	"branch":         colBranch,
	"year":           colYear,
}

// ReadStudents parses the first sheet of an XLSX roster. The first row is a
// header naming the columns; when it names none the first two columns are
// taken as id and name. Rows are returned as read, blank ones dropped.
func ReadStudents(r io.Reader) ([]application.Student, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoSheets
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	layout := headerLayout(rows[0])
	students := make([]application.Student, 0, len(rows)-1)
	for _, row := range rows[1:] {
		student := application.Student{
			ID:            cell(row, layout, colID),
			Name:          cell(row, layout, colName),
			RoomNumber:    cell(row, layout, colRoom),
			RollNumber:    cell(row, layout, colRoll),
			Email:         cell(row, layout, colEmail),
			ParentContact: cell(row, layout, colParent),
			Branch:        cell(row, layout, colBranch),
			Year:          cell(row, layout, colYear),
		}
		if student == (application.Student{}) {
			continue
		}
		students = append(students, student)
	}
	return students, nil
}

func headerLayout(header []string) map[column]int {
	layout := make(map[column]int, len(header))
	for i, title := range header {
		key := strings.ToLower(strings.Join(strings.Fields(title), " "))
		if col, ok := headerAliases[key]; ok {
			if _, seen := layout[col]; !seen {
				layout[col] = i
			}
		}
	}
	if len(layout) == 0 {
		layout[colID] = 0
		layout[colName] = 1
	}
	return layout
}

func cell(row []string, layout map[column]int, col column) string {
	i, ok := layout[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// WriteAttendance writes the records of one date as a single sheet workbook
// with one row per student and Present/Absent per meal.
func WriteAttendance(w io.Writer, date string, records []application.MealAttendance) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), attendanceSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := []any{"Student ID", "Student Name", "Date", "Breakfast", "Lunch", "Dinner"}
	if err := f.SetSheetRow(attendanceSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, record := range records {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		recordDate := record.Date
		if recordDate == "" {
			recordDate = date
		}
		row := []any{
			record.StudentID,
			record.StudentName,
			recordDate,
			presence(record.Breakfast),
			presence(record.Lunch),
			presence(record.Dinner),
		}
		if err := f.SetSheetRow(attendanceSheet, cellName, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(attendanceSheet, "A", "B", 20); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func presence(attended bool) string {
	if attended {
		return "Present"
	}
	return "Absent"
}

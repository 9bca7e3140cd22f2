package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/hostel-dashboard/internal/persistence"
)

// ParseMeal converts a raw meal name.
func ParseMeal(value string) (Meal, bool) {
	meal := Meal(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Meals() {
		if meal == known {
			return meal, true
		}
	}
	return "", false
}

// WeekdayOf returns the menu day of t.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(strings.ToLower(t.Weekday().String()))
}

// UpdateMenuItems replaces one meal list of one day. Other lists and days are
// left untouched. Items are trimmed and blank entries dropped; at least one
// item must remain.
func (s *DataStore) UpdateMenuItems(ctx context.Context, day Weekday, meal Meal, items []string) (item MenuItem, err error) {
	if s == nil {
		err = fmt.Errorf("DataStore is nil")
		return
	}

	day = Weekday(strings.ToLower(strings.TrimSpace(string(day))))
	logger := s.loggerWith(ctx, "UpdateMenuItems", "day", day, "meal", meal)
	defer func() {
		s.finish(ctx, logger, "UpdateMenuItems", err, "menu updated")
	}()

	cleaned := make([]string, 0, len(items))
	for _, entry := range items {
		if entry = strings.TrimSpace(entry); entry != "" {
			cleaned = append(cleaned, entry)
		}
	}

	vErr := &ValidationError{}
	if parsed, ok := ParseMeal(string(meal)); ok {
		meal = parsed
	} else {
		vErr.add("meal", "Meal must be breakfast, lunch or dinner")
	}
	if len(cleaned) == 0 {
		vErr.add("items", "All meals must have at least one item")
	}
	if err = vErr.errOrNil(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.menu {
		if s.menu[i].Day == day {
			index = i
			break
		}
	}
	if index < 0 {
		err = ErrNotFound
		return
	}

	next := make([]MenuItem, len(s.menu))
	copy(next, s.menu)
	updated := cloneMenuItem(next[index])
	switch meal {
	case Breakfast:
		updated.Breakfast = cleaned
	case Lunch:
		updated.Lunch = cleaned
	case Dinner:
		updated.Dinner = cleaned
	}
	next[index] = updated
	if err = s.writeSlot(ctx, persistence.KeyMenuItems, next); err != nil {
		return
	}
	s.menu = next
	item = cloneMenuItem(updated)

	notify(ctx, logger, "Menu Updated", fmt.Sprintf("The %s menu for %s has been updated.", meal, day))
	return
}

// Menu returns the weekly menu in stored order.
func (s *DataStore) Menu() []MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]MenuItem, len(s.menu))
	for i, item := range s.menu {
		out[i] = cloneMenuItem(item)
	}
	return out
}

// MenuFor returns the menu of one day.
func (s *DataStore) MenuFor(day Weekday) (MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.menu {
		if item.Day == day {
			return cloneMenuItem(item), true
		}
	}
	return MenuItem{}, false
}

package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/hostel-dashboard/internal/persistence"
)

// AddAnnouncement publishes a notice dated today (UTC). An empty category
// defaults to general.
func (s *DataStore) AddAnnouncement(ctx context.Context, input AnnouncementInput) (announcement Announcement, err error) {
	if s == nil {
		err = fmt.Errorf("DataStore is nil")
		return
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if input.Category == "" {
		input.Category = AnnouncementGeneral
	}
	logger := s.loggerWith(ctx, "AddAnnouncement", "category", input.Category)
	defer func() {
		s.finish(ctx, logger.With("announcement_id", announcement.ID), "AddAnnouncement", err, "announcement added")
	}()

	vErr := &ValidationError{}
	if input.Title == "" {
		vErr.add("title", "Title is required")
	}
	if input.Content == "" {
		vErr.add("content", "Content is required")
	}
	switch input.Category {
	case AnnouncementGeneral, AnnouncementImportant, AnnouncementEvent:
	default:
		vErr.add("category", "Category must be general, important or event")
	}
	if err = vErr.errOrNil(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	announcement = Announcement{
		ID:       s.idGenerator(),
		Title:    input.Title,
		Content:  input.Content,
		Date:     s.today(),
		Category: input.Category,
	}
	next := append(append(make([]Announcement, 0, len(s.announcements)+1), s.announcements...), announcement)
	if err = s.writeSlot(ctx, persistence.KeyAnnouncements, next); err != nil {
		announcement = Announcement{}
		return
	}
	s.announcements = next

	notify(ctx, logger, "Announcement Added", "Your announcement has been added successfully.")
	return
}

// DeleteAnnouncement removes a notice.
func (s *DataStore) DeleteAnnouncement(ctx context.Context, id string) (err error) {
	if s == nil {
		return fmt.Errorf("DataStore is nil")
	}

	id = strings.TrimSpace(id)
	logger := s.loggerWith(ctx, "DeleteAnnouncement", "announcement_id", id)
	defer func() {
		s.finish(ctx, logger, "DeleteAnnouncement", err, "announcement deleted")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Announcement, 0, len(s.announcements))
	for _, announcement := range s.announcements {
		if announcement.ID != id {
			next = append(next, announcement)
		}
	}
	if len(next) == len(s.announcements) {
		err = ErrNotFound
		return
	}
	if err = s.writeSlot(ctx, persistence.KeyAnnouncements, next); err != nil {
		return
	}
	s.announcements = next

	notify(ctx, logger, "Announcement Deleted", "The announcement has been deleted.")
	return
}

// ListAnnouncements returns every notice, latest date first.
func (s *DataStore) ListAnnouncements() []Announcement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Announcement, len(s.announcements))
	copy(out, s.announcements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	calendardomain "inboxcal-backend/internal/calendar/domain"
	"inboxcal-backend/pkg/apperror"
)

// DefaultListLimit caps an upcoming-events listing.
const DefaultListLimit = 500

// CalendarRepository defines the interface for mirrored events
type CalendarRepository interface {
	// UpsertBatch inserts new events and overwrites existing ones keyed by
	// (user_id, event_id).
	UpsertBatch(ctx context.Context, items []*calendardomain.CalendarItem) error
	// ListUpcoming returns events starting at or after filter.From, soonest first.
	ListUpcoming(ctx context.Context, userID string, filter calendardomain.EventFilter) ([]*calendardomain.CalendarItem, error)
}

type calendarRepository struct {
	db *gorm.DB
}

// NewCalendarRepository creates a new instance of calendarRepository
func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) UpsertBatch(ctx context.Context, items []*calendardomain.CalendarItem) error {
	seen := make(map[string]int, len(items))
	batch := make([]*calendardomain.CalendarItem, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		key := it.UserID + "\x00" + it.EventID
		if i, ok := seen[key]; ok {
			batch[i] = it
			continue
		}
		seen[key] = len(batch)
		batch = append(batch, it)
	}
	if len(batch) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"calendar_id", "summary", "description", "location", "start_time", "end_time",
			"meeting_link", "attendees", "is_all_day", "status", "updated_at",
		}),
	}).CreateInBatches(batch, 100).Error
	return apperror.Wrap(apperror.ErrStore, "calendar.upsert", err)
}

func (r *calendarRepository) ListUpcoming(ctx context.Context, userID string, filter calendardomain.EventFilter) ([]*calendardomain.CalendarItem, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND start_time >= ?", userID, filter.From.UTC())

	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(term)) + "%"
		query = query.Where(
			`(LOWER(summary) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(location, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}

	limit := filter.Limit
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	var items []*calendardomain.CalendarItem
	err := query.Order("start_time ASC").Limit(limit).Find(&items).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrStore, "calendar.list", err)
	}
	return items, nil
}

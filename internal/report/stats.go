package report

import (
	"math"
	"time"

	"maktaba/internal/models"
)

// monthNames holds the Arabic calendar month labels, January first.
var monthNames = [12]string{
	"يناير", "فبراير", "مارس", "إبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// TallyStatuses counts books per workflow status. The partition is
// exhaustive: a status outside the closed enum lands in Other, so every
// input record is counted exactly once and Total equals len(books).
func TallyStatuses(books []models.Book) models.StatusTally {
	t := models.StatusTally{Total: len(books)}
	for _, b := range books {
		switch b.Status {
		case models.StatusOnTrial:
			t.OnTrial++
		case models.StatusUnderReview:
			t.UnderReview++
		case models.StatusSentForApproval:
			t.SentForApproval++
		default:
			t.Other++
		}
	}
	return t
}

// MonthlyBuckets produces exactly twelve per-month tallies for the target
// year, keyed on each book's update timestamp. Books outside the year are
// excluded entirely; every in-year book lands in exactly one bucket.
func MonthlyBuckets(books []models.Book, year int) []models.MonthlyStats {
	buckets := make([]models.MonthlyStats, 12)
	for m := range buckets {
		buckets[m].Month = monthNames[m]
	}
	for _, b := range books {
		if b.UpdatedAt.Year() != year {
			continue
		}
		bucket := &buckets[int(b.UpdatedAt.Month())-1]
		switch b.Status {
		case models.StatusOnTrial:
			bucket.OnTrial++
		case models.StatusUnderReview:
			bucket.UnderReview++
		case models.StatusSentForApproval:
			bucket.SentForApproval++
		default:
			bucket.Other++
		}
		bucket.Total++
	}
	return buckets
}

// LevelDistribution counts participants per level with rounded percentage
// shares. The partition is exhaustive like TallyStatuses: levels outside the
// closed enum land in a trailing "other" share, so every participant is
// counted in exactly one share. All percentages are zero when the input is
// empty.
func LevelDistribution(participants []models.Participant) []models.LevelShare {
	levels := []models.ParticipantLevel{
		models.LevelTrainee, models.LevelAdjudicator, models.LevelReader,
	}
	counts := make(map[models.ParticipantLevel]int, len(levels))
	other := 0
	for _, p := range participants {
		if p.Level.Valid() {
			counts[p.Level]++
		} else {
			other++
		}
	}
	total := len(participants)
	pct := func(count int) int {
		if total == 0 {
			return 0
		}
		return int(math.Round(float64(count) / float64(total) * 100))
	}
	shares := make([]models.LevelShare, 0, len(levels)+1)
	for _, l := range levels {
		shares = append(shares, models.LevelShare{Level: l, Count: counts[l], Percentage: pct(counts[l])})
	}
	if other > 0 {
		shares = append(shares, models.LevelShare{Level: "other", Count: other, Percentage: pct(other)})
	}
	return shares
}

// CountPublished returns how many books have left the unpublished state.
func CountPublished(books []models.Book) int {
	n := 0
	for _, b := range books {
		if b.PublishStatus != models.PublishNone {
			n++
		}
	}
	return n
}

// ProjectCalendar maps books onto calendar events dated by their update
// timestamp.
func ProjectCalendar(books []models.Book) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, len(books))
	for _, b := range books {
		events = append(events, models.CalendarEvent{
			ID:         b.ID,
			Title:      b.Title,
			Date:       b.UpdatedAt,
			Status:     b.Status,
			ReaderName: b.ReaderName,
		})
	}
	return events
}

// monthWindow returns the inclusive bounds of one calendar month. The upper
// bound is one nanosecond short of the next month, so timestamps anywhere in
// the final second still fall inside the window.
func monthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// yearWindow returns the inclusive bounds of one calendar year.
func yearWindow(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	return start, end
}

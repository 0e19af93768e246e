package collection

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/readshelf/readshelf/models"
)

// Stats are the simple per-status counts shown on the dashboard.
type Stats struct {
	Total            int `json:"total"`
	Finished         int `json:"finished"`
	CurrentlyReading int `json:"currentlyReading"`
	Wishlist         int `json:"wishlist"`
}

// ComputeStats counts books by status.
func ComputeStats(books []models.Book) Stats {
	s := Stats{Total: len(books)}
	for i := range books {
		switch books[i].Status {
		case models.StatusFinished:
			s.Finished++
		case models.StatusReading:
			s.CurrentlyReading++
		case models.StatusWishlist:
			s.Wishlist++
		}
	}
	return s
}

// Stats counts the manager's current book set by status.
func (m *Manager) Stats() Stats { return ComputeStats(m.books) }

// GoalProgress reports how a year's goal is going.
type GoalProgress struct {
	Year          int  `json:"year"`
	Current       int  `json:"current"`
	Target        int  `json:"target"`
	Percentage    int  `json:"percentage"`
	Remaining     int  `json:"remaining"`
	IsComplete    bool `json:"isComplete"`
	ExpectedByNow int  `json:"expectedByNow"`
	IsOnTrack     bool `json:"isOnTrack"`
}

// GoalProgress computes progress toward the goal of year. Accessing a
// year lazily creates its default goal; an inactive goal yields nil.
func (m *Manager) GoalProgress(ctx context.Context, year int) *GoalProgress {
	m.EnsureGoalForYear(ctx, year)
	goal := m.goals[year]
	if !goal.IsActive {
		return nil
	}

	current := 0
	for i := range m.books {
		if m.books[i].Status != models.StatusFinished {
			continue
		}
		if y, ok := attributionYear(&m.books[i]); ok && y == year {
			current++
		}
	}

	p := &GoalProgress{Year: year, Current: current, Target: goal.Target}
	if goal.Target > 0 {
		p.Percentage = int(math.Round(float64(current) / float64(goal.Target) * 100))
	}
	p.Remaining = goal.Target - current
	if p.Remaining < 0 {
		p.Remaining = 0
	}
	p.IsComplete = current >= goal.Target

	now := m.now()
	switch {
	case year < now.Year():
		p.ExpectedByNow = goal.Target
	case year > now.Year():
		p.ExpectedByNow = 0
	default:
		p.ExpectedByNow = int(math.Round(float64(goal.Target) / 12 * float64(now.Month())))
	}
	p.IsOnTrack = current >= p.ExpectedByNow
	return p
}

// DetailedStats layers extended analytics over GoalProgress. The streak
// numbers are deliberately approximate: CurrentStreak is a 30-day
// trailing finish count and LongestStreak counts consecutive finishes no
// more than 7 days apart, not true per-day streaks.
type DetailedStats struct {
	Goal            *GoalProgress `json:"goal"`
	MonthlyFinished [12]int       `json:"monthlyFinished"`
	CurrentStreak   int           `json:"currentStreak"`
	LongestStreak   int           `json:"longestStreak"`
	ProjectedTotal  int           `json:"projectedTotal"`
}

// DetailedStats computes the extended analytics for year.
func (m *Manager) DetailedStats(ctx context.Context, year int) DetailedStats {
	ds := DetailedStats{Goal: m.GoalProgress(ctx, year)}
	now := m.now()

	var yearFinishes []time.Time
	current := 0
	for i := range m.books {
		b := &m.books[i]
		if b.Status != models.StatusFinished {
			continue
		}
		y, ok := attributionYear(b)
		if !ok || y != year {
			if t, err := time.Parse(time.RFC3339, b.DateFinished); err == nil &&
				now.Sub(t) >= 0 && now.Sub(t) <= 30*24*time.Hour {
				ds.CurrentStreak++
			}
			continue
		}
		current++
		if month, ok := finishMonth(b); ok {
			ds.MonthlyFinished[month-1]++
		}
		if t, err := time.Parse(time.RFC3339, b.DateFinished); err == nil {
			yearFinishes = append(yearFinishes, t)
			if now.Sub(t) >= 0 && now.Sub(t) <= 30*24*time.Hour {
				ds.CurrentStreak++
			}
		}
	}

	ds.LongestStreak = longestRun(yearFinishes, 7*24*time.Hour)

	monthsElapsed := 0
	switch {
	case year < now.Year():
		monthsElapsed = 12
	case year == now.Year():
		monthsElapsed = int(now.Month())
	}
	if monthsElapsed > 0 {
		ds.ProjectedTotal = int(math.Round(float64(current) / float64(monthsElapsed) * 12))
	}
	return ds
}

// longestRun returns the length of the longest chain of sorted instants
// where each step is at most maxGap apart.
func longestRun(ts []time.Time, maxGap time.Duration) int {
	if len(ts) == 0 {
		return 0
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	longest, run := 1, 1
	for i := 1; i < len(ts); i++ {
		if ts[i].Sub(ts[i-1]) <= maxGap {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// attributionYear is the year a finished book counts toward: the
// user-supplied yearRead when present, else the year of dateFinished.
// Books with neither do not count.
func attributionYear(b *models.Book) (int, bool) {
	if s := strings.TrimSpace(b.YearRead); s != "" {
		if y, err := strconv.Atoi(s); err == nil {
			return y, true
		}
	}
	if t, err := time.Parse(time.RFC3339, b.DateFinished); err == nil {
		return t.Year(), true
	}
	return 0, false
}

// finishMonth buckets a finished book into a calendar month: monthRead
// (a 1-12 number or an English month name) wins over the month of
// dateFinished.
func finishMonth(b *models.Book) (int, bool) {
	if s := strings.TrimSpace(b.MonthRead); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
			return n, true
		}
		for month := time.January; month <= time.December; month++ {
			if strings.EqualFold(s, month.String()) {
				return int(month), true
			}
		}
	}
	if t, err := time.Parse(time.RFC3339, b.DateFinished); err == nil {
		return int(t.Month()), true
	}
	return 0, false
}

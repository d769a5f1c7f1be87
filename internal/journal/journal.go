// Package journal stores goals and their win evidence, daily check-ins,
// the check-in streak and the recent-activity feed.
package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/winterarc/internal/kv"
)

const (
	goalsKey    = "goals"
	checkInsKey = "checkins"
	streakKey   = "streak"
)

// Keys lists every key the journal writes.
var Keys = []string{goalsKey, checkInsKey, streakKey, activitiesKey, winsKey}

type Goal struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Category  string     `json:"category,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	Progress  int        `json:"progress"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
}

type CheckIn struct {
	ID        string    `json:"id"`
	Wins      string    `json:"wins"`
	Struggles string    `json:"struggles"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

type Streak struct {
	Count       int        `json:"count"`
	LastCheckIn *time.Time `json:"lastCheckIn,omitempty"`
}

type Journal struct {
	kv  kv.KV
	Now func() time.Time

	// EvidenceDir receives copies of win evidence. Empty keeps the
	// original paths.
	EvidenceDir string
}

func New(store kv.KV) *Journal {
	return &Journal{kv: store, Now: time.Now}
}

// ============================================================
// Goals
// ============================================================

func (j *Journal) Goals() ([]Goal, error) {
	var goals []Goal
	if _, err := kv.GetJSON(j.kv, goalsKey, &goals); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

func (j *Journal) Goal(id string) (*Goal, error) {
	goals, err := j.Goals()
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].ID == id {
			return &goals[i], nil
		}
	}
	return nil, fmt.Errorf("goal %s not found", id)
}

func (j *Journal) AddGoal(title, category string, deadline *time.Time) (*Goal, error) {
	goals, err := j.Goals()
	if err != nil {
		return nil, err
	}
	g := Goal{
		ID:        uuid.NewString(),
		Title:     title,
		Category:  category,
		Deadline:  deadline,
		CreatedAt: j.Now(),
	}
	goals = append(goals, g)
	if err := kv.SetJSON(j.kv, goalsKey, goals); err != nil {
		return nil, fmt.Errorf("add goal: %w", err)
	}
	if _, err := j.LogActivity("New goal: "+title, ActivityGoalAdded); err != nil {
		return &g, err
	}
	return &g, nil
}

// SetProgress clamps progress to 0..100; reaching 100 completes the goal.
func (j *Journal) SetProgress(id string, progress int) (*Goal, error) {
	progress = max(0, min(100, progress))
	return j.update(id, func(g *Goal) {
		g.Progress = progress
		g.Completed = progress == 100
	})
}

func (j *Journal) ToggleCompleted(id string) (*Goal, error) {
	return j.update(id, func(g *Goal) {
		g.Completed = !g.Completed
		if g.Completed {
			g.Progress = 100
		}
	})
}

func (j *Journal) update(id string, fn func(*Goal)) (*Goal, error) {
	goals, err := j.Goals()
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].ID != id {
			continue
		}
		wasDone := goals[i].Completed
		fn(&goals[i])
		if err := kv.SetJSON(j.kv, goalsKey, goals); err != nil {
			return nil, fmt.Errorf("update goal: %w", err)
		}
		if goals[i].Completed && !wasDone {
			if _, err := j.LogActivity("Goal completed: "+goals[i].Title, ActivityGoalCompleted); err != nil {
				return &goals[i], err
			}
		}
		return &goals[i], nil
	}
	return nil, fmt.Errorf("goal %s not found", id)
}

func (j *Journal) DeleteGoal(id string) error {
	goals, err := j.Goals()
	if err != nil {
		return err
	}
	kept := goals[:0]
	for _, g := range goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if err := kv.SetJSON(j.kv, goalsKey, kept); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return j.deleteGoalWins(id)
}

// ============================================================
// Check-ins
// ============================================================

// CheckIns returns every check-in, newest first.
func (j *Journal) CheckIns() ([]CheckIn, error) {
	var checkIns []CheckIn
	if _, err := kv.GetJSON(j.kv, checkInsKey, &checkIns); err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	return checkIns, nil
}

// SaveCheckIn records a check-in and advances the streak. Rating is
// clamped to 1..5.
func (j *Journal) SaveCheckIn(wins, struggles string, rating int) (*CheckIn, *Streak, error) {
	checkIns, err := j.CheckIns()
	if err != nil {
		return nil, nil, err
	}
	c := CheckIn{
		ID:        uuid.NewString(),
		Wins:      wins,
		Struggles: struggles,
		Rating:    max(1, min(5, rating)),
		Timestamp: j.Now(),
	}
	checkIns = append([]CheckIn{c}, checkIns...)
	if err := kv.SetJSON(j.kv, checkInsKey, checkIns); err != nil {
		return nil, nil, fmt.Errorf("save check-in: %w", err)
	}

	streak, err := j.advanceStreak(c.Timestamp)
	if err != nil {
		return &c, nil, err
	}
	if _, err := j.LogActivity("Daily check-in completed", ActivityCheckIn); err != nil {
		return &c, streak, err
	}
	return &c, streak, nil
}

// TodayCheckIn returns today's check-in, or nil.
func (j *Journal) TodayCheckIn() (*CheckIn, error) {
	checkIns, err := j.CheckIns()
	if err != nil {
		return nil, err
	}
	today := dayOf(j.Now())
	for i := range checkIns {
		if dayOf(checkIns[i].Timestamp).Equal(today) {
			return &checkIns[i], nil
		}
	}
	return nil, nil
}

// ============================================================
// Streak
// ============================================================

func (j *Journal) Streak() (Streak, error) {
	var s Streak
	if _, err := kv.GetJSON(j.kv, streakKey, &s); err != nil {
		return Streak{}, fmt.Errorf("get streak: %w", err)
	}
	return s, nil
}

// advanceStreak counts calendar days: the day after the last check-in
// extends the streak, the same day keeps it, anything later restarts at 1.
func (j *Journal) advanceStreak(at time.Time) (*Streak, error) {
	s, err := j.Streak()
	if err != nil {
		return nil, err
	}
	s.Count = NextStreakCount(s, at)
	s.LastCheckIn = &at
	if err := kv.SetJSON(j.kv, streakKey, s); err != nil {
		return nil, fmt.Errorf("update streak: %w", err)
	}
	return &s, nil
}

func NextStreakCount(s Streak, at time.Time) int {
	if s.LastCheckIn == nil || s.Count == 0 {
		return 1
	}
	switch daysBetween(*s.LastCheckIn, at) {
	case 0:
		return s.Count
	case 1:
		return s.Count + 1
	default:
		return 1
	}
}

func dayOf(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func daysBetween(a, b time.Time) int {
	// Round absorbs 23h and 25h days around DST changes.
	return int(dayOf(b).Sub(dayOf(a)).Round(24*time.Hour) / (24 * time.Hour))
}

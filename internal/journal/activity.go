package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/winterarc/internal/kv"
)

const activitiesKey = "activities"

// MaxActivities is how many entries the activity log keeps.
const MaxActivities = 50

type ActivityType string

const (
	ActivityCheckIn       ActivityType = "checkin"
	ActivityGoalAdded     ActivityType = "goal_added"
	ActivityGoalCompleted ActivityType = "goal_completed"
	ActivityWin           ActivityType = "win"
	ActivityFocus         ActivityType = "focus"
)

// Activity is one line of the recent-activity feed.
type Activity struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Type      ActivityType `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
}

// LogActivity prepends an entry and drops everything past MaxActivities.
func (j *Journal) LogActivity(title string, typ ActivityType) (*Activity, error) {
	list, err := j.Activities()
	if err != nil {
		return nil, err
	}
	a := Activity{ID: uuid.NewString(), Title: title, Type: typ, CreatedAt: j.Now()}
	list = append([]Activity{a}, list...)
	if len(list) > MaxActivities {
		list = list[:MaxActivities]
	}
	if err := kv.SetJSON(j.kv, activitiesKey, list); err != nil {
		return nil, fmt.Errorf("log activity: %w", err)
	}
	return &a, nil
}

// Activities returns the feed newest first.
func (j *Journal) Activities() ([]Activity, error) {
	var list []Activity
	if _, err := kv.GetJSON(j.kv, activitiesKey, &list); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return list, nil
}

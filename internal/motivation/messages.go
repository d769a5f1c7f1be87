// Package motivation produces the text carried by nudges: templated
// messages per motivation style plus an optional remote generator.
package motivation

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sadopc/winterarc/internal/patterns"
)

type Style string

const (
	Harsh      Style = "harsh"
	Balanced   Style = "balanced"
	Supportive Style = "supportive"
)

// ParseStyle maps user-facing names onto a Style. Unknown values are Balanced.
func ParseStyle(s string) Style {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "harsh", "tough-love", "tough love":
		return Harsh
	case "supportive", "encouraging":
		return Supportive
	default:
		return Balanced
	}
}

// Picker chooses among templates. A nil Picker uses the global source.
type Picker struct {
	rng *rand.Rand
}

func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{rng: rng}
}

func (p *Picker) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	if p == nil || p.rng == nil {
		return options[rand.IntN(len(options))]
	}
	return options[p.rng.IntN(len(options))]
}

// PatternNudge is the recurring reminder sent shortly before the peak hour.
func (p *Picker) PatternNudge(peakHour int, app string) string {
	at := patterns.HourLabel(peakHour)
	return p.pick([]string{
		fmt.Sprintf("Heads up: %s is when %s usually pulls you in. Stay focused.", at, app),
		fmt.Sprintf("Peak distraction time at %s. %s can wait.", at, app),
		fmt.Sprintf("%s is coming up. That's when %s usually wins. Not today.", at, app),
		fmt.Sprintf("Your pattern says %s around %s. Get ahead of it.", app, at),
	})
}

// DistractionWarning is the immediate nudge sent inside the high-risk window.
func (p *Picker) DistractionWarning(style Style, peakHour int, app string) string {
	at := patterns.HourLabel(peakHour)
	switch style {
	case Harsh:
		return p.pick([]string{
			fmt.Sprintf("High risk time (%s). Your weakness: %s. Don't slip.", at, app),
			fmt.Sprintf("%s, your usual fail time. %s is waiting. Be stronger.", at, app),
		})
	case Supportive:
		return p.pick([]string{
			fmt.Sprintf("%s is usually tough for you, and %s knows it. You know it now too.", at, app),
			fmt.Sprintf("Focus gets hard around %s. %s can wait, you're ready for it.", at, app),
		})
	default:
		return p.pick([]string{
			fmt.Sprintf("You usually drift to %s around %s. Stay focused.", app, at),
			fmt.Sprintf("Peak distraction time: %s. %s can wait.", at, app),
		})
	}
}

// LimitExceeded is the body of a screen-time warning.
func (p *Picker) LimitExceeded(style Style, app string, used, limit int) string {
	switch style {
	case Harsh:
		return p.pick([]string{
			fmt.Sprintf("%s: %d/%d min. Limit blown. Delete it if you can't control it.", app, used, limit),
			fmt.Sprintf("%d minutes on %s. Past your limit. Lock in.", used, app),
		})
	case Supportive:
		return p.pick([]string{
			fmt.Sprintf("%s: you've reached your %d minute goal. Nice awareness, time to refocus.", app, limit),
			fmt.Sprintf("%s limit reached (%d min). Noticing is progress.", app, used),
		})
	default:
		return p.pick([]string{
			fmt.Sprintf("%s: %d/%d minutes. You've hit your limit. Time to focus elsewhere.", app, used, limit),
			fmt.Sprintf("Limit reached for %s. %d minutes used. Back on track.", app, used),
		})
	}
}

// MissedCheckIn is the evening alert sent when no check-in exists for today.
func (p *Picker) MissedCheckIn(style Style) string {
	switch style {
	case Harsh:
		return p.pick([]string{
			"No check-in today. Skipping the reflection is how the slide starts.",
			"You skipped your check-in. Winners keep score. Do it now.",
		})
	case Supportive:
		return p.pick([]string{
			"You haven't checked in yet today. Two minutes to reflect is enough.",
			"Still time to check in. However today went, it counts.",
		})
	default:
		return p.pick([]string{
			"You missed your daily check-in. Consistency is everything.",
			"No check-in yet today. Take a minute to look back on the day.",
		})
	}
}

// Fallback is a short generic nudge used when nothing better is available.
func (p *Picker) Fallback(style Style) string {
	switch style {
	case Harsh:
		return p.pick([]string{
			"Stop scrolling. Your future self is watching.",
			"Every minute wasted is a step backward.",
			"Your goals won't achieve themselves.",
		})
	case Supportive:
		return p.pick([]string{
			"Hey, let's get back to your goals.",
			"Small redirect, big impact.",
			"Your dreams are worth the effort.",
		})
	default:
		return p.pick([]string{
			"Time to refocus. Your goals are waiting.",
			"Quick break's over. Back to work.",
			"Remember why you started.",
		})
	}
}

var quotes = []string{
	"It ain't about how hard you hit. It's about how hard you can get hit and keep moving forward. - Rocky Balboa",
	"Success is not final, failure is not fatal: it is the courage to continue that counts. - Winston Churchill",
	"You miss 100% of the shots you don't take. - Wayne Gretzky",
	"The best time to plant a tree was 20 years ago. The second best time is now. - Chinese Proverb",
	"Don't watch the clock; do what it does. Keep going. - Sam Levenson",
	"It does not matter how slowly you go as long as you do not stop. - Confucius",
}

// DailyQuote rotates through a fixed list by day of year, so every call on
// the same calendar day returns the same quote.
func DailyQuote(now time.Time) string {
	return quotes[now.YearDay()%len(quotes)]
}

// ReminderFallback is used when the remote generator is unreachable.
func ReminderFallback(dream, setback string) string {
	if dream == "" {
		dream = "your goals"
	}
	if setback == "" {
		setback = "Your past"
	}
	return fmt.Sprintf("Remember %s? %s doesn't define you. Get up and do the work.", dream, setback)
}

const CheckInPromptFallback = "Did you do everything you could today to get closer to your dream?"

// UsageLevel buckets a day's total screen time.
type UsageLevel string

const (
	UsageLow    UsageLevel = "low"
	UsageMedium UsageLevel = "medium"
	UsageHigh   UsageLevel = "high"
)

func LevelFor(totalMinutes int) UsageLevel {
	switch {
	case totalMinutes < 60:
		return UsageLow
	case totalMinutes < 180:
		return UsageMedium
	default:
		return UsageHigh
	}
}

// ScreenTime comments on a day's usage. Empty name and dream are filled
// with neutral words.
func (p *Picker) ScreenTime(style Style, totalMinutes int, name, dream string) string {
	if name == "" {
		name = "Champion"
	}
	if dream == "" {
		dream = "your dreams"
	}
	hours := fmt.Sprintf("%.1f", float64(totalMinutes)/60)

	switch style {
	case Harsh:
		switch LevelFor(totalMinutes) {
		case UsageLow:
			return p.pick([]string{
				fmt.Sprintf("Not bad, %s. But \"not bad\" won't get you to %s.", name, dream),
				fmt.Sprintf("Under an hour. Good. Now spend the rest of today on %s.", dream),
			})
		case UsageMedium:
			return p.pick([]string{
				fmt.Sprintf("%s hours gone, %s. That's time %s never gets back.", hours, name, dream),
				fmt.Sprintf("%s hours scrolling. Is that what a winner does?", hours),
			})
		default:
			return p.pick([]string{
				fmt.Sprintf("%s hours, %s. You're choosing your phone over %s.", hours, name, dream),
				fmt.Sprintf("%s hours wasted. Put it down and get to work.", hours),
			})
		}
	case Supportive:
		switch LevelFor(totalMinutes) {
		case UsageLow:
			return p.pick([]string{
				fmt.Sprintf("Great balance today, %s. Keep protecting your focus.", name),
				fmt.Sprintf("Low screen time. You're giving %s the attention it deserves.", dream),
			})
		case UsageMedium:
			return p.pick([]string{
				fmt.Sprintf("%s hours so far. Maybe a short break from the screen, %s?", hours, name),
				fmt.Sprintf("You're doing okay. A little less screen time means a little more %s.", dream),
			})
		default:
			return p.pick([]string{
				fmt.Sprintf("%s hours today. Tomorrow is a fresh start, %s.", hours, name),
				"Heavy screen day. Be kind to yourself and try one small change tomorrow.",
			})
		}
	default:
		switch LevelFor(totalMinutes) {
		case UsageLow:
			return p.pick([]string{
				fmt.Sprintf("Nice work, %s. Your screen time is under control.", name),
				"Low usage today. Keep it up.",
			})
		case UsageMedium:
			return p.pick([]string{
				fmt.Sprintf("%s hours of screen time. Room to improve, %s.", hours, name),
				fmt.Sprintf("Moderate usage today. Every hour back is an hour for %s.", dream),
			})
		default:
			return p.pick([]string{
				fmt.Sprintf("%s hours today, %s. Time to cut back.", hours, name),
				fmt.Sprintf("High screen time. %s needs that time more than your feed does.", dream),
			})
		}
	}
}

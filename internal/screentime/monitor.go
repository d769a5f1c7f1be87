// Package screentime aggregates per-app daily usage, enforces limits and
// reports weekly statistics.
package screentime

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/winterarc/internal/kv"
	"github.com/sadopc/winterarc/internal/logger"
	"github.com/sadopc/winterarc/internal/profile"
)

const (
	// HostApp is the name time spent in Winter Arc itself is logged under.
	HostApp = "Winter Arc"

	// KeyPrefix starts every daily usage key.
	KeyPrefix       = "app_usage:"
	DefaultInterval = 5 * time.Minute
)

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

var errNoPermission = errors.New("usage stats permission not granted")

// LimitWarner sends the notification for an exceeded limit.
type LimitWarner interface {
	SendScreenTimeWarning(app string, used, limit int) string
}

type DayUsage struct {
	Date         string             `json:"date"`
	Day          string             `json:"day"`
	TotalMinutes float64            `json:"totalMinutes"`
	Apps         map[string]float64 `json:"apps"`
}

type Stats struct {
	Today       int        `json:"today"`
	WeekTotal   int        `json:"weekTotal"`
	WeekAverage int        `json:"weekAverage"`
	Trend       string     `json:"trend"`
	Daily       []DayUsage `json:"dailyData"`
}

type AppUsage struct {
	Name       string  `json:"name"`
	Minutes    int     `json:"minutes"`
	Limit      int     `json:"limit"`
	Percentage float64 `json:"percentage"`
	Exceeded   bool    `json:"exceeded"`
}

type Monitor struct {
	kv       kv.KV
	profiles *profile.Source
	warner   LimitWarner
	source   UsageSource
	log      *logger.Logger

	Interval time.Duration
	Now      func() time.Time

	sessionStart time.Time
}

func NewMonitor(store kv.KV, profiles *profile.Source, warner LimitWarner, source UsageSource, log *logger.Logger) *Monitor {
	if source == nil {
		source = NoUsageStats{}
	}
	return &Monitor{
		kv:       store,
		profiles: profiles,
		warner:   warner,
		source:   source,
		log:      log.With("service", "screentime"),
		Interval: DefaultInterval,
		Now:      time.Now,
	}
}

// DateKey returns the storage key for the local calendar day of t.
func DateKey(t time.Time) string {
	return KeyPrefix + t.In(time.Local).Format("2006-01-02")
}

// ============================================================
// Sessions
// ============================================================

func (m *Monitor) StartSession() {
	m.sessionStart = m.Now()
}

// EndSession logs the time since StartSession under HostApp. It is a
// no-op without an open session.
func (m *Monitor) EndSession() {
	if m.sessionStart.IsZero() {
		return
	}
	minutes := m.Now().Sub(m.sessionStart).Minutes()
	m.sessionStart = time.Time{}
	m.LogUsage(HostApp, minutes)
}

func (m *Monitor) InSession() bool {
	return !m.sessionStart.IsZero()
}

func (m *Monitor) Initialize() {
	m.StartSession()
	if m.source.HasPermission() {
		m.SyncDevice()
	}
	m.log.Info("screen time monitor initialized", "interval", m.Interval)
}

func (m *Monitor) Cleanup() {
	m.EndSession()
}

// Run checks limits every Interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.CheckLimits()
		}
	}
}

// ============================================================
// Usage log
// ============================================================

// LogUsage adds minutes to today's total for app.
func (m *Monitor) LogUsage(app string, minutes float64) {
	key := DateKey(m.Now())
	usage := m.dayUsage(key)
	usage[app] += minutes
	if err := kv.SetJSON(m.kv, key, usage); err != nil {
		m.log.Error("log usage", "app", app, "error", err)
		return
	}
	m.log.Debug("usage logged", "app", app, "minutes", minutes)
}

// LogManualUsage records time spent outside the app and re-checks limits.
func (m *Monitor) LogManualUsage(app string, minutes float64) int {
	m.LogUsage(app, minutes)
	return m.CheckLimits()
}

func (m *Monitor) TodayUsage() map[string]float64 {
	return m.dayUsage(DateKey(m.Now()))
}

func (m *Monitor) dayUsage(key string) map[string]float64 {
	usage := map[string]float64{}
	if _, err := kv.GetJSON(m.kv, key, &usage); err != nil {
		m.log.Error("read usage", "key", key, "error", err)
		return map[string]float64{}
	}
	return usage
}

// RequestPermission asks the device for usage-stats access.
func (m *Monitor) RequestPermission() error {
	if m.source.HasPermission() {
		return nil
	}
	if err := m.source.RequestPermission(); err != nil {
		return fmt.Errorf("request usage stats permission: %w", err)
	}
	return nil
}

// DeviceScreenTime reports today's total foreground time as the device
// measures it, independent of what has been logged here.
func (m *Monitor) DeviceScreenTime() (time.Duration, error) {
	if !m.source.HasPermission() {
		return 0, errNoPermission
	}
	now := m.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	d, err := m.source.ScreenTime(start, now)
	if err != nil {
		return 0, fmt.Errorf("read device screen time: %w", err)
	}
	return d, nil
}

// SyncDevice replaces today's per-app totals with what the device reports.
// It reports how many apps were updated.
func (m *Monitor) SyncDevice() int {
	if !m.source.HasPermission() {
		m.log.Info("usage stats permission missing, skipping device sync")
		return 0
	}
	now := m.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	apps, err := m.source.AllAppsUsage(start, now)
	if err != nil {
		m.log.Error("read device usage", "error", err)
		return 0
	}
	if len(apps) == 0 {
		return 0
	}

	key := DateKey(now)
	usage := m.dayUsage(key)
	for pkg, minutes := range apps {
		usage[DisplayName(pkg)] = minutes
	}
	if err := kv.SetJSON(m.kv, key, usage); err != nil {
		m.log.Error("save device usage", "error", err)
		return 0
	}
	return len(apps)
}

// ============================================================
// Limits and reports
// ============================================================

// CheckLimits warns once per tracked app at or over its limit and returns
// how many were over. Every call warns again.
func (m *Monitor) CheckLimits() int {
	p := m.profiles.Current()
	if len(p.DistractionApps) == 0 {
		return 0
	}
	today := m.TodayUsage()
	exceeded := 0
	for _, app := range p.DistractionApps {
		used := minutesFor(today, app.Name)
		limit := p.LimitFor(app.Name)
		if used < float64(limit) {
			continue
		}
		exceeded++
		m.log.Warn("screen time limit exceeded", "app", app.Name, "used", math.Round(used), "limit", limit)
		if m.warner != nil {
			m.warner.SendScreenTimeWarning(app.Name, int(math.Round(used)), limit)
		}
	}
	return exceeded
}

// minutesFor sums usage logged under any casing of app, the same way
// Profile.LimitFor matches names.
func minutesFor(usage map[string]float64, app string) float64 {
	var total float64
	for name, minutes := range usage {
		if strings.EqualFold(name, app) {
			total += minutes
		}
	}
	return total
}

// WeekUsage returns the last seven days, oldest first, ending today.
func (m *Monitor) WeekUsage() []DayUsage {
	now := m.Now()
	week := make([]DayUsage, 0, 7)
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		apps := m.dayUsage(DateKey(d))
		var total float64
		for _, v := range apps {
			total += v
		}
		week = append(week, DayUsage{
			Date:         d.Format("2006-01-02"),
			Day:          d.Format("Mon"),
			TotalMinutes: total,
			Apps:         apps,
		})
	}
	return week
}

func (m *Monitor) TotalScreenTime() float64 {
	var total float64
	for _, v := range m.TodayUsage() {
		total += v
	}
	return total
}

func (m *Monitor) Stats() Stats {
	week := m.WeekUsage()
	var weekTotal float64
	for _, d := range week {
		weekTotal += d.TotalMinutes
	}
	return Stats{
		Today:       int(math.Round(m.TotalScreenTime())),
		WeekTotal:   int(math.Round(weekTotal)),
		WeekAverage: int(math.Round(weekTotal / 7)),
		Trend:       Trend(week),
		Daily:       week,
	}
}

// Trend compares the mean of the last three days with the mean of the
// first four.
func Trend(week []DayUsage) string {
	if len(week) < 7 {
		return TrendStable
	}
	var recent, previous float64
	for _, d := range week[len(week)-3:] {
		recent += d.TotalMinutes
	}
	for _, d := range week[:4] {
		previous += d.TotalMinutes
	}
	recent /= 3
	previous /= 4
	switch {
	case recent > previous:
		return TrendIncreasing
	case recent < previous:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// AppBreakdown lists today's apps by minutes, most used first.
func (m *Monitor) AppBreakdown() []AppUsage {
	p := m.profiles.Current()
	today := m.TodayUsage()
	out := make([]AppUsage, 0, len(today))
	for name, minutes := range today {
		limit := p.LimitFor(name)
		out = append(out, AppUsage{
			Name:       name,
			Minutes:    int(math.Round(minutes)),
			Limit:      limit,
			Percentage: math.Min(minutes/float64(limit)*100, 100),
			Exceeded:   minutes >= float64(limit),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Name < out[j].Name
	})
	return out
}

package screentime

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/winterarc/internal/kv"
	"github.com/sadopc/winterarc/internal/logger"
	"github.com/sadopc/winterarc/internal/profile"
)

var now = time.Date(2026, 10, 15, 18, 0, 0, 0, time.Local)

type warning struct {
	app         string
	used, limit int
}

type recordingWarner struct{ sent []warning }

func (r *recordingWarner) SendScreenTimeWarning(app string, used, limit int) string {
	r.sent = append(r.sent, warning{app, used, limit})
	return "id"
}

func newTestMonitor(t *testing.T, apps ...profile.AppLimit) (*Monitor, *recordingWarner, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	if len(apps) > 0 {
		if err := profile.Save(mem, &profile.Profile{DistractionApps: apps, Onboarded: true}); err != nil {
			t.Fatal(err)
		}
	}
	w := &recordingWarner{}
	m := NewMonitor(mem, profile.NewSource(mem, profile.Defaults{}), w, nil, logger.Nop())
	m.Now = func() time.Time { return now }
	return m, w, mem
}

func seedDay(t *testing.T, mem *kv.Memory, day time.Time, apps map[string]float64) {
	t.Helper()
	if err := kv.SetJSON(mem, DateKey(day), apps); err != nil {
		t.Fatal(err)
	}
}

// ============================================================
// Usage log
// ============================================================

func TestLogUsageAccumulates(t *testing.T) {
	m, _, _ := newTestMonitor(t)
	m.LogUsage("Instagram", 10)
	m.LogUsage("Instagram", 5.5)
	m.LogUsage("Reddit", 3)

	today := m.TodayUsage()
	if today["Instagram"] != 15.5 || today["Reddit"] != 3 {
		t.Fatalf("unexpected usage: %v", today)
	}
	if m.TotalScreenTime() != 18.5 {
		t.Fatalf("total = %v", m.TotalScreenTime())
	}
}

func TestLogUsageSeparatesDays(t *testing.T) {
	m, _, _ := newTestMonitor(t)
	m.LogUsage("YouTube", 30)
	m.Now = func() time.Time { return now.AddDate(0, 0, 1) }
	if got := m.TodayUsage()["YouTube"]; got != 0 {
		t.Fatalf("new day should start empty, got %v", got)
	}
}

func TestSessionLogsHostApp(t *testing.T) {
	m, _, _ := newTestMonitor(t)
	m.EndSession() // no open session
	if len(m.TodayUsage()) != 0 {
		t.Fatal("EndSession without StartSession should not log")
	}

	m.StartSession()
	m.Now = func() time.Time { return now.Add(12 * time.Minute) }
	m.EndSession()
	if got := m.TodayUsage()[HostApp]; got != 12 {
		t.Fatalf("host app minutes = %v, want 12", got)
	}
	if m.InSession() {
		t.Fatal("session should be closed")
	}
}

// ============================================================
// Limits
// ============================================================

func TestCheckLimitsRepeatsEveryCall(t *testing.T) {
	m, w, _ := newTestMonitor(t,
		profile.AppLimit{Name: "TikTok", LimitMinutes: 30},
		profile.AppLimit{Name: "Reddit", LimitMinutes: 60},
	)
	m.LogUsage("TikTok", 30)
	m.LogUsage("Reddit", 59)

	if n := m.CheckLimits(); n != 1 {
		t.Fatalf("exceeded = %d, want 1", n)
	}
	if n := m.CheckLimits(); n != 1 {
		t.Fatalf("second call exceeded = %d, want 1", n)
	}
	if len(w.sent) != 2 {
		t.Fatalf("expected 2 warnings across 2 calls, got %d", len(w.sent))
	}
	if w.sent[0] != (warning{"TikTok", 30, 30}) {
		t.Fatalf("unexpected warning: %+v", w.sent[0])
	}
}

func TestCheckLimitsDefaultLimit(t *testing.T) {
	m, w, _ := newTestMonitor(t, profile.AppLimit{Name: "YouTube"})
	m.LogUsage("YouTube", 61)
	m.CheckLimits()
	if len(w.sent) != 1 || w.sent[0].limit != profile.DefaultLimit {
		t.Fatalf("expected warning at default limit, got %+v", w.sent)
	}
}

func TestCheckLimitsMatchesAppNameCaseInsensitively(t *testing.T) {
	m, w, _ := newTestMonitor(t, profile.AppLimit{Name: "Instagram", LimitMinutes: 30})
	m.LogUsage("instagram", 45)

	breakdown := m.AppBreakdown()
	if len(breakdown) != 1 || !breakdown[0].Exceeded {
		t.Fatalf("breakdown should show the app over its limit: %+v", breakdown)
	}
	if n := m.CheckLimits(); n != 1 {
		t.Fatalf("exceeded = %d, want 1", n)
	}
	if len(w.sent) != 1 || w.sent[0] != (warning{"Instagram", 45, 30}) {
		t.Fatalf("unexpected warnings: %+v", w.sent)
	}
}

func TestCheckLimitsSumsMixedCaseEntries(t *testing.T) {
	m, w, _ := newTestMonitor(t, profile.AppLimit{Name: "Reddit", LimitMinutes: 30})
	m.LogUsage("reddit", 20)
	m.LogUsage("REDDIT", 15)
	if n := m.CheckLimits(); n != 1 || len(w.sent) != 1 || w.sent[0].used != 35 {
		t.Fatalf("expected one warning at 35m, got %d / %+v", n, w.sent)
	}
}

func TestCheckLimitsNoProfile(t *testing.T) {
	m, w, _ := newTestMonitor(t)
	m.LogUsage("YouTube", 500)
	if n := m.CheckLimits(); n != 0 || len(w.sent) != 0 {
		t.Fatal("no tracked apps means no warnings")
	}
}

func TestLogManualUsageChecks(t *testing.T) {
	m, w, _ := newTestMonitor(t, profile.AppLimit{Name: "Netflix", LimitMinutes: 20})
	if n := m.LogManualUsage("Netflix", 25); n != 1 || len(w.sent) != 1 {
		t.Fatalf("manual log should trigger a check, got %d / %d", n, len(w.sent))
	}
}

// ============================================================
// Reports
// ============================================================

func TestAppBreakdown(t *testing.T) {
	m, _, mem := newTestMonitor(t, profile.AppLimit{Name: "appX", LimitMinutes: 60})
	seedDay(t, mem, now, map[string]float64{"appX": 90, "appY": 30, "appZ": 30})

	got := m.AppBreakdown()
	if len(got) != 3 {
		t.Fatalf("expected 3 apps, got %d", len(got))
	}
	if got[0].Name != "appX" || got[0].Percentage != 100 || !got[0].Exceeded || got[0].Minutes != 90 {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if got[1].Name != "appY" || got[1].Percentage != 50 || got[1].Exceeded {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
	if got[2].Name != "appZ" {
		t.Fatalf("ties should sort by name, got %+v", got[2])
	}
}

func TestWeekUsageOrder(t *testing.T) {
	m, _, mem := newTestMonitor(t)
	seedDay(t, mem, now.AddDate(0, 0, -6), map[string]float64{"a": 5})
	seedDay(t, mem, now, map[string]float64{"a": 7, "b": 3})

	week := m.WeekUsage()
	if len(week) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week))
	}
	if week[0].TotalMinutes != 5 || week[6].TotalMinutes != 10 {
		t.Fatalf("unexpected totals: first %v last %v", week[0].TotalMinutes, week[6].TotalMinutes)
	}
	if week[6].Date != "2026-10-15" || week[6].Day != "Thu" {
		t.Fatalf("unexpected last day: %+v", week[6])
	}
}

func TestStatsTrend(t *testing.T) {
	m, _, mem := newTestMonitor(t)
	series := []float64{10, 10, 10, 10, 100, 100, 100}
	for i, v := range series {
		seedDay(t, mem, now.AddDate(0, 0, i-6), map[string]float64{"a": v})
	}

	s := m.Stats()
	if s.Trend != TrendIncreasing {
		t.Fatalf("trend = %q, want increasing", s.Trend)
	}
	if s.Today != 100 || s.WeekTotal != 340 || s.WeekAverage != 49 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestTrend(t *testing.T) {
	mk := func(vals ...float64) []DayUsage {
		out := make([]DayUsage, len(vals))
		for i, v := range vals {
			out[i].TotalMinutes = v
		}
		return out
	}
	tests := []struct {
		name string
		week []DayUsage
		want string
	}{
		{"flat", mk(5, 5, 5, 5, 5, 5, 5), TrendStable},
		{"falling", mk(100, 100, 100, 100, 10, 10, 10), TrendDecreasing},
		{"rising", mk(10, 10, 10, 10, 100, 100, 100), TrendIncreasing},
		{"short", mk(1, 2), TrendStable},
	}
	for _, tt := range tests {
		if got := Trend(tt.week); got != tt.want {
			t.Errorf("%s: Trend = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// ============================================================
// Device sync
// ============================================================

func TestSyncDeviceWithoutPermission(t *testing.T) {
	m, _, _ := newTestMonitor(t)
	if n := m.SyncDevice(); n != 0 {
		t.Fatalf("expected no sync, got %d", n)
	}
}

func TestSyncDeviceFromReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.yaml")
	report := "apps:\n  com.instagram.android: 42\n  org.example.game: 7\n"
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := LoadStaticUsage(path)
	if err != nil {
		t.Fatal(err)
	}

	m, _, _ := newTestMonitor(t)
	m.source = src
	m.LogUsage("Instagram", 10)
	m.LogUsage(HostApp, 4)

	if n := m.SyncDevice(); n != 2 {
		t.Fatalf("synced %d apps, want 2", n)
	}
	today := m.TodayUsage()
	if today["Instagram"] != 42 || today["org.example.game"] != 7 || today[HostApp] != 4 {
		t.Fatalf("unexpected usage after sync: %v", today)
	}
}

func TestPermissionAndDeviceScreenTime(t *testing.T) {
	m, _, _ := newTestMonitor(t)
	if err := m.RequestPermission(); err == nil {
		t.Fatal("NoUsageStats should refuse the permission request")
	}
	if _, err := m.DeviceScreenTime(); err == nil {
		t.Fatal("device screen time needs permission")
	}

	m.source = &StaticUsage{Apps: map[string]float64{"com.whatsapp": 30, "com.discord": 15}}
	if err := m.RequestPermission(); err != nil {
		t.Fatal(err)
	}
	d, err := m.DeviceScreenTime()
	if err != nil {
		t.Fatal(err)
	}
	if d != 45*time.Minute {
		t.Fatalf("device screen time = %v, want 45m", d)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	m, _, _ := newTestMonitor(t)
	m.Interval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

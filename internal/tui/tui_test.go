package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/winterarc/internal/journal"
	"github.com/sadopc/winterarc/internal/logger"
	"github.com/sadopc/winterarc/internal/motivation"
	"github.com/sadopc/winterarc/internal/nudge"
	"github.com/sadopc/winterarc/internal/patterns"
	"github.com/sadopc/winterarc/internal/profile"
	"github.com/sadopc/winterarc/internal/screentime"
	"github.com/sadopc/winterarc/internal/store"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	log := logger.Nop()
	profiles := profile.NewSource(s, profile.Defaults{CheckInHour: 20, LimitMinutes: 60})
	tracker := patterns.NewTracker(s, log)
	local := nudge.NewLocal(s)
	picker := motivation.NewPicker(nil)
	sched := nudge.NewScheduler(local, s, tracker, profiles, picker, nil, log)

	return &Services{
		KV:        s,
		Settings:  s,
		Tracker:   tracker,
		Scheduler: sched,
		Local:     local,
		Monitor:   screentime.NewMonitor(s, profiles, sched, screentime.NoUsageStats{}, log),
		Journal:   journal.New(s),
		Profiles:  profiles,
		Picker:    picker,
		Log:       log,
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var enterKey = tea.KeyMsg{Type: tea.KeyEnter}

// ============================================================
// Focus model
// ============================================================

func TestFocusDefaultsFromSettings(t *testing.T) {
	svc := newTestServices(t)
	f := newFocusModel(svc)
	if f.duration != 25*time.Minute {
		t.Fatalf("default duration = %v, want 25m", f.duration)
	}

	svc.Settings.SetSetting("focus_minutes", "50")
	f = newFocusModel(svc)
	if f.duration != 50*time.Minute || f.remaining != 50*time.Minute {
		t.Fatalf("duration = %v remaining = %v, want 50m", f.duration, f.remaining)
	}

	svc.Settings.SetSetting("focus_minutes", "0")
	f = newFocusModel(svc)
	if f.duration != 25*time.Minute {
		t.Fatalf("non-positive setting should fall back, got %v", f.duration)
	}
}

func TestFocusRunsToCompletion(t *testing.T) {
	svc := newTestServices(t)
	clock := time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)
	f := newFocusModel(svc)
	f.now = func() time.Time { return clock }

	f, _ = f.update(runeKey('s'))
	if f.phase != focusRunning {
		t.Fatalf("phase = %v, want running", f.phase)
	}

	clock = clock.Add(10 * time.Minute)
	f, _ = f.update(tickMsg(clock))
	if f.remaining != 15*time.Minute {
		t.Fatalf("remaining = %v, want 15m", f.remaining)
	}

	clock = clock.Add(16 * time.Minute)
	f, cmd := f.update(tickMsg(clock))
	if f.phase != focusDone || f.completed != 1 {
		t.Fatalf("phase = %v completed = %d, want done/1", f.phase, f.completed)
	}
	if cmd == nil {
		t.Fatal("completion should report status")
	}
	if msg, ok := cmd().(statusMsg); !ok || msg.isError {
		t.Fatalf("unexpected completion message: %#v", msg)
	}

	sessions := svc.Tracker.FocusSessions()
	if len(sessions) != 1 || sessions[0].DurationMinutes != 25 {
		t.Fatalf("focus sessions = %+v", sessions)
	}
	acts, _ := svc.Journal.Activities()
	if len(acts) != 1 || acts[0].Type != journal.ActivityFocus || acts[0].Title != "Focused for 25 min" {
		t.Fatalf("activities = %+v", acts)
	}
}

func TestFocusPauseFreezesCountdown(t *testing.T) {
	svc := newTestServices(t)
	clock := time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)
	f := newFocusModel(svc)
	f.now = func() time.Time { return clock }
	f = f.start()

	clock = clock.Add(5 * time.Minute)
	f, _ = f.update(runeKey(' '))
	if f.phase != focusPaused || f.remaining != 20*time.Minute {
		t.Fatalf("phase = %v remaining = %v", f.phase, f.remaining)
	}

	clock = clock.Add(time.Hour)
	f, _ = f.update(tickMsg(clock))
	if f.phase != focusPaused || f.remaining != 20*time.Minute {
		t.Fatal("paused block should not count down")
	}

	f, _ = f.update(runeKey(' '))
	if f.phase != focusRunning || !f.phaseEnd.Equal(clock.Add(20*time.Minute)) {
		t.Fatalf("resume should push the end out, got %v", f.phaseEnd)
	}
}

func TestFocusCancelIsNotRecorded(t *testing.T) {
	svc := newTestServices(t)
	f := newFocusModel(svc).start()

	f, cmd := f.update(runeKey('x'))
	if f.phase != focusIdle || f.remaining != f.duration {
		t.Fatal("cancel should reset to idle")
	}
	if cmd == nil {
		t.Fatal("cancel should report status")
	}
	if n := len(svc.Tracker.FocusSessions()); n != 0 {
		t.Fatalf("cancelled block recorded %d sessions", n)
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardRecordDistraction(t *testing.T) {
	svc := newTestServices(t)
	d := newDashboardModel(svc)

	msg := d.recordDistraction("TikTok", 12)()
	rec, ok := msg.(distractionRecordedMsg)
	if !ok || rec.app != "TikTok" {
		t.Fatalf("unexpected message %#v", msg)
	}
	events := svc.Tracker.Events()
	if len(events) != 1 || events[0].AppName != "TikTok" {
		t.Fatalf("events = %+v", events)
	}
}

func TestDashboardLogUsageOverLimit(t *testing.T) {
	svc := newTestServices(t)
	p := svc.Profiles.Current()
	p.DistractionApps = []profile.AppLimit{{Name: "Instagram", LimitMinutes: 30}}
	if err := svc.Profiles.Save(p); err != nil {
		t.Fatal(err)
	}

	d := newDashboardModel(svc)
	msg, ok := d.logUsage("Instagram", 45)().(statusMsg)
	if !ok {
		t.Fatal("expected status message")
	}
	if msg.text != "Logged 45m on Instagram (1 over limit)" {
		t.Fatalf("status = %q", msg.text)
	}

	pending, err := svc.Local.Scheduled()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Content.Payload.Type != nudge.KindScreenTimeWarning {
		t.Fatalf("expected one limit warning, got %+v", pending)
	}
}

func TestDashboardLoadData(t *testing.T) {
	svc := newTestServices(t)
	d := newDashboardModel(svc)

	msg, ok := d.loadData()().(dashboardDataMsg)
	if !ok {
		t.Fatal("expected dashboardDataMsg")
	}
	if msg.insight != patterns.LearningMessage {
		t.Fatalf("insight = %q, want learning message", msg.insight)
	}
	if msg.message == "" {
		t.Fatal("screen time message should not be empty")
	}

	d, _ = d.update(msg)
	d.setSize(100, 40)
	if !strings.Contains(d.view(), "No usage logged today") {
		t.Fatal("empty breakdown should show hint")
	}
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"15", 15, false},
		{" 2.5 ", 2.5, false},
		{"1440", 1440, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"1441", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := parseMinutes(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseMinutes(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parseMinutes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// ============================================================
// Goals
// ============================================================

func TestGoalsCreateAndProgress(t *testing.T) {
	svc := newTestServices(t)
	g := newGoalsModel(svc)
	*g.formTitle = "  Run a 10k "
	*g.formDeadline = ""

	if cmd := g.createGoal(); cmd == nil {
		t.Fatal("createGoal should return a command")
	}
	goals, _ := svc.Journal.Goals()
	if len(goals) != 1 || goals[0].Title != "Run a 10k" {
		t.Fatalf("goals = %+v", goals)
	}

	g, _ = g.update(goalsDataMsg{goals: goals})
	g, _ = g.update(runeKey('+'))
	got, _ := svc.Journal.Goal(goals[0].ID)
	if got.Progress != 10 {
		t.Fatalf("progress = %d, want 10", got.Progress)
	}

	g.update(runeKey('c'))
	got, _ = svc.Journal.Goal(goals[0].ID)
	if !got.Completed {
		t.Fatal("c should toggle completion")
	}
}

func TestGoalsLogWinAndShowActivity(t *testing.T) {
	svc := newTestServices(t)
	goal, _ := svc.Journal.AddGoal("Run a 10k", "fitness", nil)

	g := newGoalsModel(svc)
	msg := g.refresh()().(goalsDataMsg)
	g, _ = g.update(msg)

	g, _ = g.showWinForm()
	if !g.formActive || !g.winForm {
		t.Fatal("w should open the win form")
	}
	*g.formNote = "ran 5k without stopping"
	if cmd := g.logWin(); cmd == nil {
		t.Fatal("logWin should return a command")
	}
	wins, _ := svc.Journal.Wins(goal.ID)
	if len(wins) != 1 || wins[0].Note != "ran 5k without stopping" {
		t.Fatalf("wins = %+v", wins)
	}

	msg = g.refresh()().(goalsDataMsg)
	if msg.winCounts[goal.ID] != 1 || msg.winStats.Total != 1 {
		t.Fatalf("unexpected win data: %+v %+v", msg.winCounts, msg.winStats)
	}
	if len(msg.recent) != 2 || msg.recent[0].Type != journal.ActivityWin {
		t.Fatalf("unexpected recent activity: %+v", msg.recent)
	}
	g.width, g.height = 120, 40
	g, _ = g.update(msg)
	view := g.view()
	for _, want := range []string{"1 win(s)", "Recent activity", "Logged a win"} {
		if !strings.Contains(view, want) {
			t.Fatalf("goals view missing %q", want)
		}
	}
}

func TestGoalsFocusSelectsRoutedGoal(t *testing.T) {
	svc := newTestServices(t)
	a, _ := svc.Journal.AddGoal("a", "other", nil)
	b, _ := svc.Journal.AddGoal("b", "other", nil)
	goals, _ := svc.Journal.Goals()

	g := newGoalsModel(svc)
	g.focusID = b.ID
	g, _ = g.update(goalsDataMsg{goals: goals})
	if g.goals[g.cursor].ID != b.ID {
		t.Fatalf("cursor on %q, want %q (other %q)", g.goals[g.cursor].ID, b.ID, a.ID)
	}
	if g.focusID != "" {
		t.Fatal("focusID should be consumed")
	}
}

func TestGoalsKeysWithoutGoals(t *testing.T) {
	svc := newTestServices(t)
	g := newGoalsModel(svc)
	g, cmd := g.update(runeKey('d'))
	if cmd != nil || len(g.goals) != 0 {
		t.Fatal("delete on empty list should be a no-op")
	}
}

func TestParseDeadline(t *testing.T) {
	d, err := parseDeadline("")
	if err != nil || d != nil {
		t.Fatal("empty deadline should mean none")
	}
	d, err = parseDeadline("2026-12-31")
	if err != nil || d == nil || d.Month() != time.December || d.Day() != 31 {
		t.Fatalf("parseDeadline = %v, %v", d, err)
	}
	if _, err := parseDeadline("31/12/2026"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(50, 10); strings.Count(got, "█") != 5 {
		t.Fatalf("progressBar(50, 10) = %q", got)
	}
}

// ============================================================
// Check-in
// ============================================================

func TestCheckInSave(t *testing.T) {
	svc := newTestServices(t)
	c := newCheckInModel(svc)
	*c.formWins = "shipped the parser"
	*c.formStruggles = "phone"
	*c.formRating = "4"

	if cmd := c.save(); cmd == nil {
		t.Fatal("save should return a command")
	}
	today, err := svc.Journal.TodayCheckIn()
	if err != nil || today == nil {
		t.Fatalf("today check-in = %v, %v", today, err)
	}
	if today.Rating != 4 || today.Wins != "shipped the parser" {
		t.Fatalf("check-in = %+v", today)
	}
	streak, _ := svc.Journal.Streak()
	if streak.Count != 1 {
		t.Fatalf("streak = %d, want 1", streak.Count)
	}
}

func TestCheckInPromptWithoutGenerator(t *testing.T) {
	svc := newTestServices(t)
	c := newCheckInModel(svc)
	if c.fetchPrompt() != nil {
		t.Fatal("no generator means no fetch")
	}
	if c.prompt != motivation.CheckInPromptFallback {
		t.Fatalf("prompt = %q", c.prompt)
	}
	c, _ = c.update(checkInPromptMsg{prompt: "What mattered today?"})
	if c.prompt != "What mattered today?" {
		t.Fatal("prompt message should replace the prompt")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("hello world", 6); got != "hello…" {
		t.Fatalf("truncate long = %q", got)
	}
}

// ============================================================
// Settings
// ============================================================

func TestParseApps(t *testing.T) {
	apps, err := parseApps("Instagram=30, TikTok ,, YouTube = 45")
	if err != nil {
		t.Fatal(err)
	}
	want := []profile.AppLimit{
		{Name: "Instagram", LimitMinutes: 30},
		{Name: "TikTok"},
		{Name: "YouTube", LimitMinutes: 45},
	}
	if len(apps) != len(want) {
		t.Fatalf("apps = %+v", apps)
	}
	for i := range want {
		if apps[i] != want[i] {
			t.Fatalf("apps[%d] = %+v, want %+v", i, apps[i], want[i])
		}
	}

	for _, bad := range []string{"=30", "TikTok=soon", "TikTok=0"} {
		if _, err := parseApps(bad); err == nil {
			t.Fatalf("parseApps(%q) should fail", bad)
		}
	}
}

func TestFormatApps(t *testing.T) {
	got := formatApps([]profile.AppLimit{{Name: "Instagram", LimitMinutes: 30}, {Name: "TikTok"}})
	if got != "Instagram=30, TikTok" {
		t.Fatalf("formatApps = %q", got)
	}
	apps, _ := parseApps(got)
	if len(apps) != 2 || apps[0].LimitMinutes != 30 {
		t.Fatal("formatted apps should parse back")
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := parseClock("07:15")
	if err != nil || h != 7 || m != 15 {
		t.Fatalf("parseClock = %d, %d, %v", h, m, err)
	}
	for _, bad := range []string{"24:00", "12:60", "noon", "7"} {
		if _, _, err := parseClock(bad); err == nil {
			t.Fatalf("parseClock(%q) should fail", bad)
		}
	}
}

func TestSettingsSave(t *testing.T) {
	svc := newTestServices(t)
	s := newSettingsModel(svc)
	*s.name = "Ana"
	*s.style = string(motivation.Harsh)
	*s.dream = "ship it"
	*s.checkInAt = "07:15"
	*s.apps = "TikTok=20, YouTube"
	*s.defaultLimit = "45"
	*s.focusMinutes = "30"

	if err := s.saveSettings(); err != nil {
		t.Fatal(err)
	}

	p := svc.Profiles.Current()
	if p.Name != "Ana" || !p.Onboarded || p.Style() != motivation.Harsh {
		t.Fatalf("profile = %+v", p)
	}
	if p.CheckInHour != 7 || p.CheckInMinute != 15 {
		t.Fatalf("check-in = %02d:%02d", p.CheckInHour, p.CheckInMinute)
	}
	if p.LimitFor("tiktok") != 20 || p.LimitFor("YouTube") != 45 {
		t.Fatalf("limits = %d, %d", p.LimitFor("tiktok"), p.LimitFor("YouTube"))
	}
	if got := svc.Settings.SettingInt("focus_minutes", 0); got != 30 {
		t.Fatalf("focus_minutes = %d", got)
	}
	if got := svc.Settings.SettingInt("checkin_hour", 0); got != 7 {
		t.Fatalf("checkin_hour = %d", got)
	}

	pending, _ := svc.Local.Scheduled()
	found := false
	for _, n := range pending {
		if n.Content.Payload.Type == nudge.KindDailyCheckIn {
			found = n.Trigger.Hour == 7 && n.Trigger.Minute == 15
		}
	}
	if !found {
		t.Fatalf("daily check-in not rescheduled: %+v", pending)
	}
}

type failingSettings struct{ SettingsStore }

func (failingSettings) SetSetting(string, string) error { return errors.New("disk full") }

func TestSettingsSaveReportsWriteError(t *testing.T) {
	svc := newTestServices(t)
	svc.Settings = failingSettings{svc.Settings}
	s := newSettingsModel(svc)
	*s.checkInAt = "08:00"
	*s.defaultLimit = "60"
	*s.focusMinutes = "25"

	if err := s.saveSettings(); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestApplySettingUpdatesOnboardedProfile(t *testing.T) {
	svc := newTestServices(t)
	p := svc.Profiles.Current()
	p.Name = "Ana"
	p.Onboarded = true
	if err := svc.Profiles.Save(p); err != nil {
		t.Fatal(err)
	}

	if err := svc.ApplySetting(store.SettingCheckInHour, "7"); err != nil {
		t.Fatal(err)
	}
	if err := svc.ApplySetting(store.SettingMotivationStyle, "harsh"); err != nil {
		t.Fatal(err)
	}

	// A fresh source seeded the way startup seeds it sees the change.
	reopened := profile.NewSource(svc.KV, DefaultsFrom(svc.Settings)).Current()
	if reopened.CheckInHour != 7 || reopened.Style() != motivation.Harsh || reopened.Name != "Ana" {
		t.Fatalf("profile after settings change = %+v", reopened)
	}

	pending, _ := svc.Local.Scheduled()
	found := false
	for _, n := range pending {
		if n.Content.Payload.Type == nudge.KindDailyCheckIn {
			found = n.Trigger.Hour == 7 && n.Trigger.Minute == 0
		}
	}
	if !found {
		t.Fatalf("daily check-in not moved to 07:00: %+v", pending)
	}
}

func TestApplySettingRejectsBadValues(t *testing.T) {
	svc := newTestServices(t)
	cases := [][2]string{
		{store.SettingCheckInHour, "25"},
		{store.SettingMotivationStyle, "gentle"},
		{"theme", "dark"},
	}
	for _, c := range cases {
		if err := svc.ApplySetting(c[0], c[1]); err == nil {
			t.Fatalf("ApplySetting(%q, %q) should fail", c[0], c[1])
		}
	}
	if got := svc.Settings.SettingInt(store.SettingCheckInHour, 0); got != 20 {
		t.Fatalf("checkin_hour changed to %d", got)
	}
}

func TestApplySettingDefaultLimit(t *testing.T) {
	svc := newTestServices(t)
	if err := svc.ApplySetting(store.SettingDefaultLimit, "90"); err != nil {
		t.Fatal(err)
	}
	if got := svc.Profiles.Current().LimitFor("Anything"); got != 90 {
		t.Fatalf("default limit = %d, want 90", got)
	}
}

func TestCheckMissedCheckIn(t *testing.T) {
	svc := newTestServices(t)
	evening := time.Date(2026, 10, 15, 21, 0, 0, 0, time.Local)
	svc.Scheduler.Now = func() time.Time { return evening }
	svc.Journal.Now = func() time.Time { return evening }

	id := svc.CheckMissedCheckIn()
	if id == "" {
		t.Fatal("expected an alert for an evening without a check-in")
	}
	n, err := svc.Local.Lookup(id)
	if err != nil {
		t.Fatal(err)
	}
	if n.Content.Payload.Type != nudge.KindMissedCheckIn || nudge.Route(n.Content.Payload).Screen != nudge.ScreenCheckIn {
		t.Fatalf("unexpected alert: %+v", n.Content)
	}
	if again := svc.CheckMissedCheckIn(); again != "" {
		t.Fatalf("alert should fire once per day, got %q", again)
	}

	next := evening.AddDate(0, 0, 1)
	svc.Scheduler.Now = func() time.Time { return next }
	svc.Journal.Now = func() time.Time { return next }
	if _, _, err := svc.Journal.SaveCheckIn("shipped", "", 4); err != nil {
		t.Fatal(err)
	}
	if id := svc.CheckMissedCheckIn(); id != "" {
		t.Fatalf("no alert expected after checking in, got %q", id)
	}
}

func TestAppLimitEdits(t *testing.T) {
	svc := newTestServices(t)
	if err := svc.SetAppLimit("TikTok", 0); err == nil {
		t.Fatal("expected a non-positive limit to be rejected")
	}
	if err := svc.SetAppLimit(" TikTok ", 15); err != nil {
		t.Fatal(err)
	}
	if got := svc.Profiles.Current().LimitFor("tiktok"); got != 15 {
		t.Fatalf("limit = %d, want 15", got)
	}
	if err := svc.RemoveAppLimit("tiktok"); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.Profiles.Current().Limits()["TikTok"]; ok {
		t.Fatal("TikTok should no longer be tracked")
	}
	if err := svc.RemoveAppLimit("TikTok"); err == nil {
		t.Fatal("expected removing an untracked app to fail")
	}
}

func TestFindGoal(t *testing.T) {
	svc := newTestServices(t)
	g, _ := svc.Journal.AddGoal("Run a 10k", "fitness", nil)
	svc.Journal.AddGoal("Read 12 books", "learning", nil)

	if got, err := svc.FindGoal("run a 10K"); err != nil || got.ID != g.ID {
		t.Fatalf("by title: %+v %v", got, err)
	}
	if got, err := svc.FindGoal(g.ID[:8]); err != nil || got.ID != g.ID {
		t.Fatalf("by id prefix: %+v %v", got, err)
	}
	if _, err := svc.FindGoal("swim"); err == nil {
		t.Fatal("expected no match")
	}
	if _, err := svc.FindGoal(""); err == nil {
		t.Fatal("expected an empty ref to fail")
	}
}

// ============================================================
// Inbox
// ============================================================

func TestInboxOpenRoutes(t *testing.T) {
	var m inboxModel
	m.add([]nudge.Delivered{{
		ID:      "n1",
		Content: nudge.Content{Title: "Deadline", Payload: nudge.Payload{Type: nudge.KindGoalDeadline, GoalID: "g1"}},
	}})

	m, cmd := m.update(enterKey)
	if cmd == nil {
		t.Fatal("enter should route")
	}
	msg, ok := cmd().(routeMsg)
	if !ok || msg.dest.Screen != nudge.ScreenGoals || msg.dest.GoalID != "g1" {
		t.Fatalf("route = %#v", msg)
	}
	if len(m.items) != 0 {
		t.Fatal("opened notification should leave the inbox")
	}
}

func TestInboxNewestFirstAndCapped(t *testing.T) {
	var m inboxModel
	for i := 0; i < inboxCapacity+5; i++ {
		m.add([]nudge.Delivered{{ID: string(rune('a' + i%26)), Content: nudge.Content{Title: "t"}}})
	}
	if len(m.items) != inboxCapacity {
		t.Fatalf("inbox holds %d, want %d", len(m.items), inboxCapacity)
	}

	m = inboxModel{}
	m.add([]nudge.Delivered{{ID: "old"}})
	m.add([]nudge.Delivered{{ID: "new"}})
	if m.items[0].ID != "new" {
		t.Fatal("newest should be first")
	}

	m, _ = m.update(runeKey('d'))
	if len(m.items) != 1 || m.items[0].ID != "old" {
		t.Fatalf("dismiss removed the wrong item: %+v", m.items)
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := NewApp(newTestServices(t))

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp || app.showInbox || app.exportPicking {
		t.Fatal("overlays should be hidden by default")
	}
	if app.svc.CheckInterval != screentime.DefaultInterval {
		t.Fatalf("check interval = %v", app.svc.CheckInterval)
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app := NewApp(newTestServices(t))
	app.width = 120
	app.height = 40

	for i := range viewNames {
		app.activeView = viewState(i)
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", i)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := NewApp(newTestServices(t))
	app.width = 160
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(newTestServices(t))
	if got := app.View(); got != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", got)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := NewApp(newTestServices(t))
	app.width = 120
	app.height = 40

	model, _ := app.Update(statusMsg{text: "test status"})
	footer := model.(App).renderFooter()
	if !strings.Contains(footer, "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppRouteMsg(t *testing.T) {
	tests := []struct {
		dest nudge.Destination
		want viewState
	}{
		{nudge.Destination{Screen: nudge.ScreenCheckIn}, viewCheckIn},
		{nudge.Destination{Screen: nudge.ScreenSettings}, viewSettings},
		{nudge.Destination{Screen: nudge.ScreenAnalytics}, viewPatterns},
		{nudge.Destination{Screen: nudge.ScreenHome}, viewDashboard},
		{nudge.Destination{Screen: nudge.ScreenGoals, GoalID: "g1"}, viewGoals},
	}
	for _, tt := range tests {
		app := NewApp(newTestServices(t))
		app.activeView = viewFocus
		model, _ := app.Update(routeMsg{dest: tt.dest})
		got := model.(App)
		if got.activeView != tt.want {
			t.Fatalf("route %q opened view %d, want %d", tt.dest.Screen, got.activeView, tt.want)
		}
		if got.goals.focusID != tt.dest.GoalID {
			t.Fatalf("focusID = %q, want %q", got.goals.focusID, tt.dest.GoalID)
		}
	}
}

func TestAppTickDeliversNotifications(t *testing.T) {
	svc := newTestServices(t)
	fixed := time.Date(2026, 10, 15, 14, 0, 0, 0, time.Local)
	svc.Local.Now = func() time.Time { return fixed }
	if id := svc.Scheduler.SendScreenTimeWarning("TikTok", 90, 60); id == "" {
		t.Fatal("warning not scheduled")
	}

	app := NewApp(svc)
	model, cmd := app.Update(tickMsg(fixed))
	got := model.(App)
	if len(got.inbox.items) != 1 {
		t.Fatalf("inbox holds %d, want 1", len(got.inbox.items))
	}
	if cmd == nil {
		t.Fatal("tick should reschedule itself")
	}

	// Delivered one-shots are gone from the schedule.
	pending, _ := svc.Local.Scheduled()
	if len(pending) != 0 {
		t.Fatalf("pending = %+v", pending)
	}
}

func TestAppFocusBlurSessions(t *testing.T) {
	svc := newTestServices(t)
	app := NewApp(svc)

	model, _ := app.Update(tea.FocusMsg{})
	if !svc.Monitor.InSession() {
		t.Fatal("focus should open a session")
	}
	model.Update(tea.BlurMsg{})
	if svc.Monitor.InSession() {
		t.Fatal("blur should close the session")
	}
	if _, ok := svc.Monitor.TodayUsage()[screentime.HostApp]; !ok {
		t.Fatal("closed session should log usage for the host app")
	}
}

func TestAppInboxOverlay(t *testing.T) {
	app := NewApp(newTestServices(t))
	app.width = 120
	app.height = 40

	model, _ := app.Update(runeKey('i'))
	got := model.(App)
	if !got.showInbox {
		t.Fatal("i should open the inbox")
	}
	if !strings.Contains(got.View(), "Inbox (0)") {
		t.Fatal("inbox overlay should render")
	}
	model, _ = got.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.(App).showInbox {
		t.Fatal("esc should close the inbox")
	}
}

func TestAppTabCycles(t *testing.T) {
	app := NewApp(newTestServices(t))
	app.activeView = viewSettings
	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.(App).activeView != viewDashboard {
		t.Fatal("tab should wrap to the first view")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0m"},
		{42, "42m"},
		{59.6, "1h 00m"},
		{125, "2h 05m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.in); got != tt.want {
			t.Fatalf("formatMinutes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	if got := formatCountdown(25 * time.Minute); got != "25:00" {
		t.Fatalf("formatCountdown = %q", got)
	}
	if got := formatCountdown(-time.Second); got != "00:00" {
		t.Fatalf("negative countdown = %q", got)
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != int(viewSettings)+1 {
		t.Fatalf("expected %d view names, got %d", int(viewSettings)+1, len(viewNames))
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

func TestKeyMapViewFor(t *testing.T) {
	if len(keys.Views) != len(viewNames) {
		t.Fatalf("expected %d view bindings, got %d", len(viewNames), len(keys.Views))
	}
	v, ok := keys.viewFor(runeKey('3'))
	if !ok || v != viewGoals {
		t.Fatalf("viewFor('3') = %v, %v; want goals", v, ok)
	}
	if _, ok := keys.viewFor(runeKey('9')); ok {
		t.Fatal("'9' should not map to a view")
	}
	if _, ok := keys.viewFor(runeKey('r')); ok {
		t.Fatal("'r' should not map to a view")
	}
}

// ============================================================
// Styles (smoke test)
// ============================================================

func TestUsageStyle(t *testing.T) {
	cases := []struct {
		pct      float64
		exceeded bool
		want     lipgloss.TerminalColor
	}{
		{10, false, colorSuccess},
		{80, false, colorWarning},
		{100, true, colorError},
	}
	for _, tc := range cases {
		if got := usageStyle(tc.pct, tc.exceeded).GetForeground(); got != tc.want {
			t.Fatalf("usageStyle(%v, %v) = %v, want %v", tc.pct, tc.exceeded, got, tc.want)
		}
	}
}

func TestStylesRender(t *testing.T) {
	styles := map[string]func() string{
		"activeTab":    func() string { return activeTabStyle.Render("test") },
		"inactiveTab":  func() string { return inactiveTabStyle.Render("test") },
		"panel":        func() string { return panelStyle.Render("test") },
		"activePanel":  func() string { return activePanelStyle.Render("test") },
		"riskPanel":    func() string { return riskPanelStyle.Render("test") },
		"countdown":    func() string { return countdownStyle.Render("test") },
		"title":        func() string { return titleStyle.Render("test") },
		"accent":       func() string { return accentStyle.Render("test") },
		"success":      func() string { return successStyle.Render("test") },
		"warning":      func() string { return warningStyle.Render("test") },
		"error":        func() string { return errorStyle.Render("test") },
		"muted":        func() string { return mutedStyle.Render("test") },
		"highlight":    func() string { return highlightStyle.Render("test") },
		"header":       func() string { return headerStyle.Render("test") },
		"footer":       func() string { return footerStyle.Render("test") },
		"selectedItem": func() string { return selectedItemStyle.Render("test") },
		"normalItem":   func() string { return normalItemStyle.Render("test") },
	}
	for name, fn := range styles {
		if fn() == "" {
			t.Fatalf("style %s rendered empty", name)
		}
	}
}

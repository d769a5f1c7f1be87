package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/winterarc/internal/config"
	"github.com/sadopc/winterarc/internal/export"
	"github.com/sadopc/winterarc/internal/journal"
	"github.com/sadopc/winterarc/internal/nudge"
	"github.com/sadopc/winterarc/internal/patterns"
	"github.com/sadopc/winterarc/internal/profile"
	"github.com/sadopc/winterarc/internal/screentime"
	"github.com/sadopc/winterarc/internal/tui"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DCFFF"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// deliverEvery is how often watch polls for due notifications.
const deliverEvery = 30 * time.Second

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "winterarc",
		Short: "Winter Arc - distraction analytics and nudges",
		Long:  `Winter Arc learns when you get distracted, tracks screen time against your limits and nudges you before the usual slump.`,
		RunE:  runTUI,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/winterarc/config.yaml)")

	recordCmd := &cobra.Command{
		Use:   "record <app> <minutes>",
		Short: "Record a distraction",
		Args:  cobra.ExactArgs(2),
		RunE:  recordDistraction,
	}

	usageCmd := &cobra.Command{
		Use:   "usage <app> <minutes>",
		Short: "Log screen time for an app",
		Args:  cobra.ExactArgs(2),
		RunE:  logUsage,
	}

	insightCmd := &cobra.Command{
		Use:   "insight",
		Short: "Show what your distraction pattern looks like",
		RunE:  showInsight,
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show screen time for the last seven days",
		RunE:  showStats,
	}

	breakdownCmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show today's usage against your limits",
		RunE:  showBreakdown,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check limits and send warnings",
		RunE:  checkLimits,
	}

	nudgesCmd := &cobra.Command{
		Use:   "nudges",
		Short: "List scheduled nudges",
		RunE:  listNudges,
	}
	nudgesCmd.AddCommand(&cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a scheduled nudge",
		Args:  cobra.ExactArgs(1),
		RunE:  cancelNudge,
	})

	limitsCmd := &cobra.Command{
		Use:   "limits",
		Short: "List tracked apps and their daily limits",
		RunE:  listLimits,
	}
	limitsCmd.AddCommand(
		&cobra.Command{
			Use:   "set <app> <minutes>",
			Short: "Track an app with a daily limit",
			Args:  cobra.ExactArgs(2),
			RunE:  setLimit,
		},
		&cobra.Command{
			Use:   "remove <app>",
			Short: "Stop tracking an app",
			Args:  cobra.ExactArgs(1),
			RunE:  removeLimit,
		},
	)

	var permissionFile string
	permissionCmd := &cobra.Command{
		Use:   "permission",
		Short: "Request usage access and show device screen time for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkPermission(permissionFile)
		},
	}
	permissionCmd.Flags().StringVarP(&permissionFile, "file", "f", "", "usage report to read instead of the device")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Check limits and deliver nudges until interrupted",
		RunE:  watch,
	}

	var syncFile string
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Import today's per-app usage from a YAML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return syncUsage(syncFile)
		},
	}
	syncCmd.Flags().StringVarP(&syncFile, "file", "f", "", "usage report (apps: {name: minutes})")
	_ = syncCmd.MarkFlagRequired("file")

	var remindIn time.Duration
	remindCmd := &cobra.Command{
		Use:   "remind",
		Short: "Schedule a reality check",
		RunE: func(cmd *cobra.Command, args []string) error {
			return remind(cmd.Context(), remindIn)
		},
	}
	remindCmd.Flags().DurationVar(&remindIn, "in", 30*time.Minute, "delay before the reminder fires")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Print today's quote",
		RunE:  showQuote,
	}

	goalsCmd := &cobra.Command{
		Use:   "goals",
		Short: "List goals",
		RunE:  listGoals,
	}

	var goalCategory, goalDeadline string
	goalAddCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addGoal(strings.Join(args, " "), goalCategory, goalDeadline)
		},
	}
	goalAddCmd.Flags().StringVarP(&goalCategory, "category", "c", "other", "goal category")
	goalAddCmd.Flags().StringVarP(&goalDeadline, "deadline", "d", "", "deadline (YYYY-MM-DD)")
	goalsCmd.AddCommand(goalAddCmd)

	activityCmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent activity",
		RunE:  listActivity,
	}

	winsCmd := &cobra.Command{
		Use:   "wins [goal]",
		Short: "List logged wins, optionally for one goal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listWins,
	}
	var winFile string
	winAddCmd := &cobra.Command{
		Use:   "add <goal> [note...]",
		Short: "Log a win for a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addWin(args[0], strings.Join(args[1:], " "), winFile)
		},
	}
	winAddCmd.Flags().StringVarP(&winFile, "file", "f", "", "evidence file (photo or document)")
	winsCmd.AddCommand(
		winAddCmd,
		&cobra.Command{
			Use:   "note <id> <note...>",
			Short: "Replace a win's note",
			Args:  cobra.MinimumNArgs(2),
			RunE:  editWinNote,
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a win",
			Args:  cobra.ExactArgs(1),
			RunE:  removeWin,
		},
		&cobra.Command{
			Use:   "timeline [goal]",
			Short: "Show wins grouped by day",
			Args:  cobra.MaximumNArgs(1),
			RunE:  showTimeline,
		},
	)

	var exportFormat, exportOut string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export distraction events and usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportData(exportFormat, exportOut)
		},
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (csv, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default ~/winterarc-export-DATE.<format>)")

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "List runtime settings",
		RunE:  listSettings,
	}
	settingsSetCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a runtime setting",
		Args:  cobra.ExactArgs(2),
		RunE:  setSetting,
	}
	settingsCmd.AddCommand(settingsSetCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	var configForce bool
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Init(configPath, configForce)
			if err != nil {
				return err
			}
			fmt.Println(successStyle.Render("✓ Wrote " + path))
			return nil
		},
	}
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	var resetYes bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all tracked data and cancel every nudge",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reset(resetYes)
		},
	}
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip confirmation")

	root.AddCommand(
		recordCmd,
		usageCmd,
		insightCmd,
		statsCmd,
		breakdownCmd,
		checkCmd,
		nudgesCmd,
		limitsCmd,
		permissionCmd,
		watchCmd,
		syncCmd,
		remindCmd,
		quoteCmd,
		goalsCmd,
		activityCmd,
		winsCmd,
		exportCmd,
		settingsCmd,
		configCmd,
		resetCmd,
	)
	return root
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer e.Close()

	e.svc.Monitor.Initialize()
	e.svc.Scheduler.Initialize()

	p := tea.NewProgram(tui.NewApp(e.svc), tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	e.svc.Monitor.Cleanup()
	return nil
}

func parseMinutesArg(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || v > 24*60 {
		return 0, fmt.Errorf("invalid minutes %q", s)
	}
	return v, nil
}

func recordDistraction(cmd *cobra.Command, args []string) error {
	minutes, err := parseMinutesArg(args[1])
	if err != nil {
		return err
	}
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	event := e.svc.Tracker.Record(args[0], minutes)
	if event == nil {
		return errors.New("could not save distraction")
	}
	e.svc.Scheduler.UpdatePatternNudges()
	e.svc.Scheduler.SendImmediateRiskNudge(event.Timestamp)

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Recorded %.0f min on %s", minutes, event.AppName)))
	fmt.Println(subtitleStyle.Render("  " + e.svc.Tracker.Insight()))
	return nil
}

func logUsage(cmd *cobra.Command, args []string) error {
	minutes, err := parseMinutesArg(args[1])
	if err != nil {
		return err
	}
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	exceeded := e.svc.Monitor.LogManualUsage(args[0], minutes)
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Logged %.0f min on %s", minutes, args[0])))
	if exceeded > 0 {
		fmt.Println(warningStyle.Render(fmt.Sprintf("  %d app(s) over their daily limit", exceeded)))
	}
	return nil
}

func showInsight(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	snap := e.svc.Tracker.Snapshot()
	fmt.Println(titleStyle.Render("Insight"))
	fmt.Println("  " + patterns.FormatInsight(snap))

	if snap == nil || snap.TotalEvents < patterns.MinEvents {
		return nil
	}
	fmt.Println()
	fmt.Printf("  %s %s (%d events)\n", subtitleStyle.Render("Peak hour:"), patterns.HourLabel(snap.PeakDistractionHour), snap.PeakDistractionHourCount)
	fmt.Printf("  %s %s\n", subtitleStyle.Render("Peak day: "), time.Weekday(snap.PeakDistractionDay))
	fmt.Printf("  %s %s (%d events)\n", subtitleStyle.Render("Top app:  "), snap.MostDistractingApp, snap.MostDistractingAppCount)

	if e.svc.Tracker.IsHighRiskTime(time.Now()) {
		p := e.svc.Profiles.Current()
		fmt.Println()
		fmt.Println(errorStyle.Render("  HIGH RISK TIME"))
		fmt.Println("  " + e.svc.Picker.DistractionWarning(p.Style(), snap.PeakDistractionHour, snap.MostDistractingApp))
	}
	return nil
}

func showStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	stats := e.svc.Monitor.Stats()
	p := e.svc.Profiles.Current()

	fmt.Println(titleStyle.Render("Screen Time"))
	fmt.Printf("  %s %s\n", subtitleStyle.Render("Today:  "), formatMinutes(stats.Today))
	fmt.Printf("  %s %s\n", subtitleStyle.Render("Week:   "), formatMinutes(stats.WeekTotal))
	fmt.Printf("  %s %s\n", subtitleStyle.Render("Average:"), formatMinutes(stats.WeekAverage))
	fmt.Printf("  %s %s\n", subtitleStyle.Render("Trend:  "), stats.Trend)
	fmt.Println()
	for _, d := range stats.Daily {
		fmt.Printf("  %s %s  %s\n", d.Day, subtitleStyle.Render(d.Date), formatMinutes(int(math.Round(d.TotalMinutes))))
	}
	fmt.Println()
	fmt.Println("  " + e.svc.Picker.ScreenTime(p.Style(), stats.Today, p.Name, p.BiggestDream))
	return nil
}

func showBreakdown(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	apps := e.svc.Monitor.AppBreakdown()
	fmt.Println(titleStyle.Render("Today"))
	if len(apps) == 0 {
		fmt.Println(subtitleStyle.Render("  No usage logged today"))
		return nil
	}
	for _, a := range apps {
		line := fmt.Sprintf("  %-16s %6s / %-6s %5.0f%%", a.Name, formatMinutes(a.Minutes), formatMinutes(a.Limit), a.Percentage)
		switch {
		case a.Exceeded:
			fmt.Println(errorStyle.Render(line + "  over limit"))
		case a.Percentage >= 75:
			fmt.Println(warningStyle.Render(line))
		default:
			fmt.Println(line)
		}
	}
	return nil
}

func checkLimits(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	if n := e.svc.Monitor.CheckLimits(); n > 0 {
		fmt.Println(warningStyle.Render(fmt.Sprintf("⚠ %d app(s) over their daily limit", n)))
		return nil
	}
	fmt.Println(successStyle.Render("✓ All apps within limits"))
	return nil
}

func listNudges(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	n := e.svc.Scheduler.Notifier()
	if !n.Available() {
		fmt.Println(subtitleStyle.Render("Notifications are disabled"))
		return nil
	}
	pending, err := n.Scheduled()
	if err != nil {
		return fmt.Errorf("list nudges: %w", err)
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("Scheduled nudges (%d)", len(pending))))
	for _, s := range pending {
		fmt.Printf("  %s  %s  %-20s %-8s %s\n",
			subtitleStyle.Render(shortID(s.ID)),
			s.FireAt.Local().Format("Mon Jan 02 15:04"),
			s.Content.Payload.Type, s.Trigger.Kind, subtitleStyle.Render(s.Content.Title))
	}
	return nil
}

func cancelNudge(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	if e.svc.Local == nil {
		return errors.New("notifications are disabled")
	}
	pending, err := e.svc.Local.Scheduled()
	if err != nil {
		return fmt.Errorf("list nudges: %w", err)
	}
	id := args[0]
	for _, p := range pending {
		if strings.HasPrefix(p.ID, id) {
			id = p.ID
			break
		}
	}
	n, err := e.svc.Local.Lookup(id)
	if err != nil {
		return err
	}
	if err := e.svc.Local.Cancel(n.ID); err != nil {
		return fmt.Errorf("cancel nudge: %w", err)
	}
	fmt.Println(successStyle.Render("✓ Cancelled " + n.Content.Title))
	return nil
}

func listLimits(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	limits := e.svc.Profiles.Current().Limits()
	fmt.Println(titleStyle.Render("Daily limits"))
	if len(limits) == 0 {
		fmt.Println(subtitleStyle.Render("  No tracked apps. Add one with: winterarc limits set <app> <minutes>"))
		return nil
	}
	names := make([]string, 0, len(limits))
	for name := range limits {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %s\n", name, formatMinutes(limits[name]))
	}
	return nil
}

func setLimit(cmd *cobra.Command, args []string) error {
	minutes, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid minutes %q", args[1])
	}
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.svc.SetAppLimit(args[0], minutes); err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s limited to %s a day", args[0], formatMinutes(minutes))))
	return nil
}

func removeLimit(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.svc.RemoveAppLimit(args[0]); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Stopped tracking " + args[0]))
	return nil
}

func checkPermission(path string) error {
	opts := envOptions{}
	if path != "" {
		report, err := screentime.LoadStaticUsage(path)
		if err != nil {
			return err
		}
		opts.usage = report
	}
	e, err := openEnv(configPath, opts)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.svc.Monitor.RequestPermission(); err != nil {
		fmt.Println(warningStyle.Render("Usage access not granted: " + err.Error()))
		return nil
	}
	total, err := e.svc.Monitor.DeviceScreenTime()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Usage access granted"))
	fmt.Printf("  Device screen time today: %s\n", formatMinutes(int(total.Minutes())))
	return nil
}

// watch runs the limit checker and the notification poller side by side
// until interrupted.
func watch(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e.svc.Monitor.Initialize()
	e.svc.Scheduler.Initialize()
	defer e.svc.Monitor.Cleanup()

	fmt.Println(titleStyle.Render("Watching"), subtitleStyle.Render(fmt.Sprintf("limits every %s, ctrl+c to stop", e.svc.Monitor.Interval)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.svc.Monitor.Run(gctx)
	})
	if e.svc.Local != nil {
		g.Go(func() error {
			return deliverLoop(gctx, e.svc)
		})
	}
	return g.Wait()
}

// deliverLoop prints due notifications. Each pass also raises the
// evening alert when the day has no check-in.
func deliverLoop(ctx context.Context, svc *tui.Services) error {
	ticker := time.NewTicker(deliverEvery)
	defer ticker.Stop()
	for {
		svc.CheckMissedCheckIn()
		due, err := svc.Local.Due()
		if err != nil {
			return fmt.Errorf("deliver nudges: %w", err)
		}
		for _, d := range due {
			fmt.Printf("\a%s %s\n  %s\n", subtitleStyle.Render(d.FiredAt.Format("15:04")), titleStyle.Render(d.Content.Title), d.Content.Body)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func syncUsage(path string) error {
	report, err := screentime.LoadStaticUsage(path)
	if err != nil {
		return err
	}
	e, err := openEnv(configPath, envOptions{usage: report})
	if err != nil {
		return err
	}
	defer e.Close()

	n := e.svc.Monitor.SyncDevice()
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Synced %d app(s)", n)))
	if exceeded := e.svc.Monitor.CheckLimits(); exceeded > 0 {
		fmt.Println(warningStyle.Render(fmt.Sprintf("  %d app(s) over their daily limit", exceeded)))
	}
	return nil
}

func remind(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return errors.New("delay must be positive")
	}
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	if id := e.svc.Scheduler.ScheduleHarshReminder(ctx, delay); id == "" {
		return errors.New("could not schedule reminder")
	}
	fmt.Println(successStyle.Render("✓ Reminder set for " + time.Now().Add(delay).Format("15:04")))
	return nil
}

func showQuote(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	mc := e.svc.Profiles.Current().MotivationContext()
	fmt.Println(titleStyle.Render(e.svc.AI.DailyQuote(cmd.Context(), mc)))
	return nil
}

func listGoals(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	goals, err := e.svc.Journal.Goals()
	if err != nil {
		return err
	}
	streak, err := e.svc.Journal.Streak()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Goals"), subtitleStyle.Render(fmt.Sprintf("streak: %d day(s)", streak.Count)))
	if len(goals) == 0 {
		fmt.Println(subtitleStyle.Render("  No goals yet. Add one with: winterarc goals add <title>"))
		return nil
	}
	for _, g := range goals {
		mark := "○"
		if g.Completed {
			mark = successStyle.Render("●")
		}
		deadline := ""
		if g.Deadline != nil {
			deadline = subtitleStyle.Render(" due " + g.Deadline.Local().Format("Jan 02"))
		}
		fmt.Printf("  %s %s %-30s %3d%% %s%s\n", mark, subtitleStyle.Render(shortID(g.ID)), g.Title, g.Progress, subtitleStyle.Render(g.Category), deadline)
	}
	return nil
}

func addGoal(title, category, deadline string) error {
	var due *time.Time
	if deadline != "" {
		t, err := time.ParseInLocation("2006-01-02", deadline, time.Local)
		if err != nil {
			return fmt.Errorf("invalid deadline %q: use YYYY-MM-DD", deadline)
		}
		due = &t
	}
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	g, err := e.svc.Journal.AddGoal(title, category, due)
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Added goal: " + g.Title))
	if e.svc.Scheduler.ScheduleGoalDeadline(*g) != "" {
		fmt.Println(subtitleStyle.Render("  Reminder set for the evening before the deadline"))
	}
	return nil
}

func listActivity(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	list, err := e.svc.Journal.Activities()
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render("Recent activity"))
	if len(list) == 0 {
		fmt.Println(subtitleStyle.Render("  Nothing yet"))
		return nil
	}
	for _, a := range list {
		fmt.Printf("  %s  %-14s %s\n", subtitleStyle.Render(a.CreatedAt.Local().Format("Jan 02 15:04")), a.Type, a.Title)
	}
	return nil
}

// goalFilter resolves an optional goal argument to an ID, "" meaning all.
func goalFilter(svc *tui.Services, args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	g, err := svc.FindGoal(args[0])
	if err != nil {
		return "", err
	}
	return g.ID, nil
}

func listWins(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	goalID, err := goalFilter(e.svc, args)
	if err != nil {
		return err
	}
	wins, err := e.svc.Journal.Wins(goalID)
	if err != nil {
		return err
	}
	stats, err := e.svc.Journal.WinStats()
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render("Wins"), subtitleStyle.Render(fmt.Sprintf("%d total, %d this week, %d this month",
		stats.Total, stats.ThisWeek, stats.ThisMonth)))
	if len(wins) == 0 {
		fmt.Println(subtitleStyle.Render("  No wins yet. Log one with: winterarc wins add <goal> <note>"))
		return nil
	}
	for _, w := range wins {
		printWin(w)
	}
	return nil
}

func printWin(w journal.Win) {
	detail := w.Note
	if w.EvidencePath != "" {
		detail = strings.TrimSpace(detail + " " + subtitleStyle.Render("["+w.EvidencePath+"]"))
	}
	fmt.Printf("  %s %s  %-8s %s\n", subtitleStyle.Render(shortID(w.ID)),
		w.Timestamp.Local().Format("Jan 02 15:04"), w.Kind, detail)
}

func addWin(goalRef, note, file string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	g, err := e.svc.FindGoal(goalRef)
	if err != nil {
		return err
	}
	if _, err := e.svc.Journal.AddWin(g.ID, file, note); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Win logged for " + g.Title))
	return nil
}

// findWin resolves an ID prefix to a single win.
func findWin(j *journal.Journal, ref string) (*journal.Win, error) {
	wins, err := j.Wins("")
	if err != nil {
		return nil, err
	}
	var found []journal.Win
	for _, w := range wins {
		if strings.HasPrefix(w.ID, ref) {
			found = append(found, w)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("no win matches %q", ref)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d wins", ref, len(found))
	}
}

func editWinNote(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	w, err := findWin(e.svc.Journal, args[0])
	if err != nil {
		return err
	}
	if err := e.svc.Journal.UpdateWinNote(w.ID, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Note updated"))
	return nil
}

func removeWin(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	w, err := findWin(e.svc.Journal, args[0])
	if err != nil {
		return err
	}
	if err := e.svc.Journal.DeleteWin(w.ID); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Win deleted"))
	return nil
}

func showTimeline(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	goalID, err := goalFilter(e.svc, args)
	if err != nil {
		return err
	}
	days, err := e.svc.Journal.Timeline(goalID)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Println(subtitleStyle.Render("No wins yet"))
		return nil
	}
	for _, d := range days {
		fmt.Println(titleStyle.Render(d.Date), subtitleStyle.Render(fmt.Sprintf("%d win(s)", d.Count)))
		for _, w := range d.Wins {
			printWin(w)
		}
	}
	return nil
}

func exportData(format, out string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	if out == "" {
		if out, err = export.DefaultPath(f, time.Now()); err != nil {
			return err
		}
	}

	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	bundle := export.Bundle{
		Events:   e.svc.Tracker.Events(),
		Snapshot: e.svc.Tracker.Snapshot(),
		Week:     e.svc.Monitor.WeekUsage(),
	}
	written, err := export.Write(f, out, bundle)
	if err != nil {
		return fmt.Errorf("export %s: %w", f, err)
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Exported %d events", len(bundle.Events))))
	for _, path := range written {
		fmt.Println(subtitleStyle.Render("  " + path))
	}
	return nil
}

func listSettings(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	settings, err := e.store.GetAllSettings()
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render("Settings"))
	for _, st := range settings {
		fmt.Printf("  %-18s %s\n", subtitleStyle.Render(st.Key), st.Value)
	}
	return nil
}

// setSetting updates a settings row and the stored profile it seeds.
func setSetting(cmd *cobra.Command, args []string) error {
	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	key, value := args[0], strings.TrimSpace(args[1])
	if err := e.svc.ApplySetting(key, value); err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s = %s", key, value)))
	return nil
}

func reset(yes bool) error {
	if !yes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Delete all Winter Arc data?").
			Description("Distractions, usage, goals, wins, check-ins and the profile will be removed.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println(subtitleStyle.Render("Cancelled"))
			return nil
		}
	}

	e, err := openEnv(configPath, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	usageKeys, err := e.store.Keys(screentime.KeyPrefix)
	if err != nil {
		return fmt.Errorf("list usage keys: %w", err)
	}
	var keys []string
	keys = append(keys, patterns.Keys...)
	keys = append(keys, nudge.Keys...)
	keys = append(keys, journal.Keys...)
	keys = append(keys, profile.Key)
	keys = append(keys, usageKeys...)
	if err := e.store.MultiRemove(keys...); err != nil {
		return fmt.Errorf("remove data: %w", err)
	}
	e.svc.Scheduler.CancelAll()
	if dir := e.svc.Journal.EvidenceDir; dir != "" {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove evidence: %w", err)
		}
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Removed %d keys and cancelled all nudges", len(keys))))
	return nil
}

// shortID is enough of a UUID to pick it out on the command line.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatMinutes(total int) string {
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}

package screentime

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// UsageSource is the device usage-stats capability.
type UsageSource interface {
	HasPermission() bool
	RequestPermission() error
	ScreenTime(start, end time.Time) (time.Duration, error)
	// AllAppsUsage returns foreground minutes keyed by package name.
	AllAppsUsage(start, end time.Time) (map[string]float64, error)
}

// NoUsageStats stands in on platforms without a usage-stats service.
type NoUsageStats struct{}

func (NoUsageStats) HasPermission() bool { return false }
func (NoUsageStats) RequestPermission() error {
	return fmt.Errorf("usage stats are not available on this platform")
}
func (NoUsageStats) ScreenTime(time.Time, time.Time) (time.Duration, error) { return 0, nil }
func (NoUsageStats) AllAppsUsage(time.Time, time.Time) (map[string]float64, error) {
	return map[string]float64{}, nil
}

// StaticUsage serves fixed per-package totals, typically read from an
// exported usage report.
type StaticUsage struct {
	Apps map[string]float64 `yaml:"apps"`
}

// LoadStaticUsage reads a YAML report of the form
//
//	apps:
//	  com.instagram.android: 42
func LoadStaticUsage(path string) (*StaticUsage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read usage report: %w", err)
	}
	var s StaticUsage
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse usage report: %w", err)
	}
	if s.Apps == nil {
		s.Apps = map[string]float64{}
	}
	return &s, nil
}

func (s *StaticUsage) HasPermission() bool      { return true }
func (s *StaticUsage) RequestPermission() error { return nil }

func (s *StaticUsage) ScreenTime(time.Time, time.Time) (time.Duration, error) {
	var total float64
	for _, m := range s.Apps {
		total += m
	}
	return time.Duration(total * float64(time.Minute)), nil
}

func (s *StaticUsage) AllAppsUsage(time.Time, time.Time) (map[string]float64, error) {
	out := make(map[string]float64, len(s.Apps))
	for k, v := range s.Apps {
		out[k] = v
	}
	return out, nil
}

// CommonApps maps display names to Android package names.
var CommonApps = map[string]string{
	"Instagram": "com.instagram.android",
	"Facebook":  "com.facebook.katana",
	"Twitter":   "com.twitter.android",
	"TikTok":    "com.zhiliaoapp.musically",
	"YouTube":   "com.google.android.youtube",
	"Reddit":    "com.reddit.frontpage",
	"Snapchat":  "com.snapchat.android",
	"WhatsApp":  "com.whatsapp",
	"Telegram":  "org.telegram.messenger",
	"Netflix":   "com.netflix.mediaclient",
	"Spotify":   "com.spotify.music",
	"Discord":   "com.discord",
}

// DisplayName turns a package name into the app name used for limits.
// Unknown packages are returned unchanged.
func DisplayName(pkg string) string {
	for name, p := range CommonApps {
		if strings.EqualFold(p, pkg) {
			return name
		}
	}
	return pkg
}

// Package profile holds the user's onboarding answers and per-app limits.
package profile

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sadopc/winterarc/internal/kv"
	"github.com/sadopc/winterarc/internal/motivation"
)

const (
	Key          = "profile"
	DefaultLimit = 60
)

type AppLimit struct {
	Name         string `json:"name"`
	LimitMinutes int    `json:"limitMinutes"`
}

type Profile struct {
	Name            string     `json:"name"`
	MotivationStyle string     `json:"motivationStyle"`
	BiggestDream    string     `json:"biggestDream"`
	BiggestSetback  string     `json:"biggestSetback"`
	DistractionApps []AppLimit `json:"distractionApps"`
	CheckInHour     int        `json:"checkInHour"`
	CheckInMinute   int        `json:"checkInMinute"`
	Onboarded       bool       `json:"onboarded"`

	// defaultLimit applies to apps stored without a positive limit.
	defaultLimit int
}

// Defaults seed a profile that has not been through onboarding yet.
type Defaults struct {
	CheckInHour     int
	CheckInMinute   int
	MotivationStyle string
	LimitMinutes    int
}

func (d Defaults) profile() *Profile {
	if d.LimitMinutes <= 0 {
		d.LimitMinutes = DefaultLimit
	}
	if d.MotivationStyle == "" {
		d.MotivationStyle = string(motivation.Balanced)
	}
	return &Profile{
		MotivationStyle: d.MotivationStyle,
		CheckInHour:     d.CheckInHour,
		CheckInMinute:   d.CheckInMinute,
		defaultLimit:    d.LimitMinutes,
	}
}

// Load returns the stored profile, or one built from d when none exists.
func Load(store kv.KV, d Defaults) (*Profile, error) {
	p := d.profile()
	if _, err := kv.GetJSON(store, Key, p); err != nil {
		return d.profile(), fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func Save(store kv.KV, p *Profile) error {
	if err := kv.SetJSON(store, Key, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (p *Profile) Style() motivation.Style {
	return motivation.ParseStyle(p.MotivationStyle)
}

// LimitFor returns the configured daily limit for app, matched case-insensitively.
func (p *Profile) LimitFor(app string) int {
	for _, a := range p.DistractionApps {
		if strings.EqualFold(a.Name, app) {
			if a.LimitMinutes > 0 {
				return a.LimitMinutes
			}
			break
		}
	}
	if p.defaultLimit > 0 {
		return p.defaultLimit
	}
	return DefaultLimit
}

// Limits returns app name to limit for every tracked app.
func (p *Profile) Limits() map[string]int {
	out := make(map[string]int, len(p.DistractionApps))
	for _, a := range p.DistractionApps {
		out[a.Name] = p.LimitFor(a.Name)
	}
	return out
}

// SetLimit adds app or updates its limit.
func (p *Profile) SetLimit(app string, minutes int) {
	for i, a := range p.DistractionApps {
		if strings.EqualFold(a.Name, app) {
			p.DistractionApps[i].LimitMinutes = minutes
			return
		}
	}
	p.DistractionApps = append(p.DistractionApps, AppLimit{Name: app, LimitMinutes: minutes})
}

func (p *Profile) RemoveApp(app string) {
	kept := p.DistractionApps[:0]
	for _, a := range p.DistractionApps {
		if !strings.EqualFold(a.Name, app) {
			kept = append(kept, a)
		}
	}
	p.DistractionApps = kept
}

// MotivationContext is what the text generator sees of the profile.
func (p *Profile) MotivationContext() motivation.Context {
	return motivation.Context{
		Name:            p.Name,
		BiggestDream:    p.BiggestDream,
		BiggestSetback:  p.BiggestSetback,
		MotivationStyle: string(p.Style()),
	}
}

// Source reloads the profile on each call so edits made elsewhere are seen.
type Source struct {
	kv kv.KV

	mu       sync.RWMutex
	defaults Defaults
}

func NewSource(store kv.KV, d Defaults) *Source {
	return &Source{kv: store, defaults: d}
}

// Current returns the stored profile, or the defaults when it cannot be read.
func (s *Source) Current() *Profile {
	s.mu.RLock()
	d := s.defaults
	s.mu.RUnlock()

	p, err := Load(s.kv, d)
	if err != nil {
		return d.profile()
	}
	return p
}

func (s *Source) Save(p *Profile) error {
	return Save(s.kv, p)
}

func (s *Source) SetDefaults(d Defaults) {
	s.mu.Lock()
	s.defaults = d
	s.mu.Unlock()
}

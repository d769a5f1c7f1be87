package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/winterarc/internal/kv"
)

const winsKey = "wins"

type EvidenceKind string

const (
	EvidencePhoto    EvidenceKind = "photo"
	EvidenceDocument EvidenceKind = "document"
	EvidenceNote     EvidenceKind = "note"
)

// Win is proof of progress on a goal: a file, a note, or both.
type Win struct {
	ID           string       `json:"id"`
	GoalID       string       `json:"goalId"`
	EvidencePath string       `json:"evidencePath,omitempty"`
	Note         string       `json:"note,omitempty"`
	Kind         EvidenceKind `json:"type"`
	Timestamp    time.Time    `json:"timestamp"`
}

// TimelineDay groups the wins logged on one local calendar day.
type TimelineDay struct {
	Date  string `json:"date"`
	Wins  []Win  `json:"items"`
	Count int    `json:"count"`
}

type WinStats struct {
	Total     int        `json:"totalWins"`
	ThisWeek  int        `json:"winsThisWeek"`
	ThisMonth int        `json:"winsThisMonth"`
	FirstWin  *time.Time `json:"firstWin,omitempty"`
	LastWin   *time.Time `json:"lastWin,omitempty"`
}

var errEmptyWin = errors.New("a win needs evidence or a note")

// AddWin records evidence for goalID. With EvidenceDir set the file is
// copied there so the win survives the original being moved.
func (j *Journal) AddWin(goalID, evidencePath, note string) (*Win, error) {
	note = strings.TrimSpace(note)
	if evidencePath == "" && note == "" {
		return nil, errEmptyWin
	}
	if _, err := j.Goal(goalID); err != nil {
		return nil, err
	}

	now := j.Now()
	w := Win{ID: uuid.NewString(), GoalID: goalID, Note: note, Kind: EvidenceNote, Timestamp: now}
	if evidencePath != "" {
		path, err := j.storeEvidence(goalID, evidencePath, now)
		if err != nil {
			return nil, err
		}
		w.EvidencePath = path
		w.Kind = kindOf(path)
	}

	wins, err := j.allWins()
	if err != nil {
		return nil, err
	}
	wins = append(wins, w)
	if err := kv.SetJSON(j.kv, winsKey, wins); err != nil {
		return nil, fmt.Errorf("add win: %w", err)
	}
	if _, err := j.LogActivity("Logged a win", ActivityWin); err != nil {
		return &w, err
	}
	return &w, nil
}

// Wins returns the wins for goalID newest first, or every win when goalID
// is empty.
func (j *Journal) Wins(goalID string) ([]Win, error) {
	all, err := j.allWins()
	if err != nil {
		return nil, err
	}
	out := make([]Win, 0, len(all))
	for _, w := range all {
		if goalID == "" || w.GoalID == goalID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Timestamp.After(out[b].Timestamp) })
	return out, nil
}

func (j *Journal) UpdateWinNote(id, note string) error {
	wins, err := j.allWins()
	if err != nil {
		return err
	}
	for i := range wins {
		if wins[i].ID == id {
			wins[i].Note = strings.TrimSpace(note)
			if err := kv.SetJSON(j.kv, winsKey, wins); err != nil {
				return fmt.Errorf("update win: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("win %s not found", id)
}

// DeleteWin removes a win and the copy of its evidence, if one was made.
func (j *Journal) DeleteWin(id string) error {
	wins, err := j.allWins()
	if err != nil {
		return err
	}
	kept := wins[:0]
	var removed *Win
	for i := range wins {
		if wins[i].ID == id {
			w := wins[i]
			removed = &w
			continue
		}
		kept = append(kept, wins[i])
	}
	if removed == nil {
		return fmt.Errorf("win %s not found", id)
	}
	if err := kv.SetJSON(j.kv, winsKey, kept); err != nil {
		return fmt.Errorf("delete win: %w", err)
	}
	j.dropEvidence(*removed)
	return nil
}

// Timeline groups wins by local day, newest day first.
func (j *Journal) Timeline(goalID string) ([]TimelineDay, error) {
	wins, err := j.Wins(goalID)
	if err != nil {
		return nil, err
	}
	var out []TimelineDay
	for _, w := range wins {
		date := w.Timestamp.In(time.Local).Format("2006-01-02")
		if n := len(out); n > 0 && out[n-1].Date == date {
			out[n-1].Wins = append(out[n-1].Wins, w)
			out[n-1].Count++
			continue
		}
		out = append(out, TimelineDay{Date: date, Wins: []Win{w}, Count: 1})
	}
	return out, nil
}

// WinStats counts wins overall, in the last seven days and in the last
// calendar month.
func (j *Journal) WinStats() (WinStats, error) {
	wins, err := j.Wins("")
	if err != nil {
		return WinStats{}, err
	}
	now := j.Now()
	weekAgo, monthAgo := now.AddDate(0, 0, -7), now.AddDate(0, -1, 0)
	st := WinStats{Total: len(wins)}
	for _, w := range wins {
		if !w.Timestamp.Before(weekAgo) {
			st.ThisWeek++
		}
		if !w.Timestamp.Before(monthAgo) {
			st.ThisMonth++
		}
	}
	if len(wins) > 0 {
		last, first := wins[0].Timestamp, wins[len(wins)-1].Timestamp
		st.LastWin, st.FirstWin = &last, &first
	}
	return st, nil
}

func (j *Journal) allWins() ([]Win, error) {
	var wins []Win
	if _, err := kv.GetJSON(j.kv, winsKey, &wins); err != nil {
		return nil, fmt.Errorf("list wins: %w", err)
	}
	return wins, nil
}

// deleteGoalWins drops every win for goalID.
func (j *Journal) deleteGoalWins(goalID string) error {
	wins, err := j.allWins()
	if err != nil {
		return err
	}
	kept := wins[:0]
	var dropped []Win
	for _, w := range wins {
		if w.GoalID == goalID {
			dropped = append(dropped, w)
			continue
		}
		kept = append(kept, w)
	}
	if len(dropped) == 0 {
		return nil
	}
	if err := kv.SetJSON(j.kv, winsKey, kept); err != nil {
		return fmt.Errorf("delete goal wins: %w", err)
	}
	for _, w := range dropped {
		j.dropEvidence(w)
	}
	return nil
}

func (j *Journal) storeEvidence(goalID, src string, at time.Time) (string, error) {
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("evidence file: %w", err)
	}
	if j.EvidenceDir == "" {
		return filepath.Abs(src)
	}
	if err := os.MkdirAll(j.EvidenceDir, 0o755); err != nil {
		return "", fmt.Errorf("create evidence directory: %w", err)
	}
	dst := filepath.Join(j.EvidenceDir,
		fmt.Sprintf("win_%s_%d%s", goalID, at.UnixMilli(), strings.ToLower(filepath.Ext(src))))
	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("copy evidence: %w", err)
	}
	return dst, nil
}

// dropEvidence removes copies made under EvidenceDir. Files the user
// pointed at directly are left alone.
func (j *Journal) dropEvidence(w Win) {
	if j.EvidenceDir == "" || w.EvidencePath == "" {
		return
	}
	if filepath.Dir(w.EvidencePath) != filepath.Clean(j.EvidenceDir) {
		return
	}
	_ = os.Remove(w.EvidencePath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func kindOf(path string) EvidenceKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic":
		return EvidencePhoto
	default:
		return EvidenceDocument
	}
}

// Package usage summarizes the token and session statistics that AI coding
// tools leave on the local disk.
package usage

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/orchester-labs/orchester/internal/logging"
	"github.com/orchester-labs/orchester/internal/tools"
)

// RuntimeUsage is the summary for one tool. Available is false when the
// tool keeps no readable local data; Note then says why.
type RuntimeUsage struct {
	ID           tools.ID              `json:"id"`
	Name         string                `json:"name"`
	Available    bool                  `json:"available"`
	TotalTokens  int64                 `json:"totalTokens"`
	InputTokens  int64                 `json:"inputTokens"`
	OutputTokens int64                 `json:"outputTokens"`
	CacheTokens  int64                 `json:"cacheTokens"`
	Sessions     int                   `json:"sessions"`
	Messages     int                   `json:"messages"`
	Daily        []DailyUsage          `json:"daily"`
	Models       map[string]ModelUsage `json:"models"`
	Note         string                `json:"note,omitempty"`
}

// DailyUsage is one day of activity.
type DailyUsage struct {
	Date     string `json:"date"`
	Tokens   int64  `json:"tokens"`
	Messages int    `json:"messages"`
	Sessions int    `json:"sessions"`
}

// ModelUsage splits tokens per model.
type ModelUsage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
}

// Reader reads usage data below one home directory.
type Reader struct {
	Home string
	// Now anchors the seven-day window.
	Now func() time.Time

	log zerolog.Logger
}

// NewReader returns a Reader for home.
func NewReader(home string) *Reader {
	return &Reader{Home: home, Now: time.Now, log: logging.For("usage")}
}

// All returns the usage of every tool found below home.
func All(home string) []RuntimeUsage {
	return NewReader(home).All()
}

// All returns the usage of every tool, tools with data first.
func (r *Reader) All() []RuntimeUsage {
	return []RuntimeUsage{
		r.Claude(),
		r.Codex(),
		r.OpenCode(),
		noLocalData(tools.Gemini, "No local usage data. Check Google AI Studio dashboard."),
		noLocalData(tools.Antigravity, "No local usage data. Check Codeium dashboard."),
		noLocalData(tools.Cursor, "No local usage data. Check Cursor Settings > Usage."),
	}
}

func newUsage(id tools.ID) RuntimeUsage {
	return RuntimeUsage{ID: id, Name: id.Name(), Daily: []DailyUsage{}, Models: map[string]ModelUsage{}}
}

func noLocalData(id tools.ID, note string) RuntimeUsage {
	u := newUsage(id)
	u.Note = note
	return u
}

// cutoff returns the first date (YYYY-MM-DD) inside the seven-day window.
func (r *Reader) cutoff() string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return now().UTC().AddDate(0, 0, -7).Format("2006-01-02")
}

func sortDailyDesc(days []DailyUsage) {
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
}

// FormatTokens renders a token count compactly: 1.2K, 3.4M, 5.6B.
func FormatTokens(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// Bar renders value relative to peak as a bar of the given width.
func Bar(value, peak int64, width int) string {
	if width <= 0 {
		return ""
	}
	if peak <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(float64(value) / float64(peak) * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

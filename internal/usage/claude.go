package usage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/orchester-labs/orchester/internal/tools"
)

type claudeStatsCache struct {
	DailyActivity []struct {
		Date         string `json:"date"`
		MessageCount int    `json:"messageCount"`
		SessionCount int    `json:"sessionCount"`
	} `json:"dailyActivity"`
	DailyModelTokens []struct {
		Date          string           `json:"date"`
		TokensByModel map[string]int64 `json:"tokensByModel"`
	} `json:"dailyModelTokens"`
	ModelUsage map[string]struct {
		InputTokens              int64 `json:"inputTokens"`
		OutputTokens             int64 `json:"outputTokens"`
		CacheReadInputTokens     int64 `json:"cacheReadInputTokens"`
		CacheCreationInputTokens int64 `json:"cacheCreationInputTokens"`
	} `json:"modelUsage"`
}

// Claude reads ~/.claude/stats-cache.json: model totals plus the activity
// of the last seven days.
func (r *Reader) Claude() RuntimeUsage {
	u := newUsage(tools.Claude)
	data, err := os.ReadFile(filepath.Join(r.Home, ".claude", "stats-cache.json"))
	if err != nil {
		u.Note = "stats-cache.json not found"
		return u
	}
	var cache claudeStatsCache
	if err := json.Unmarshal(data, &cache); err != nil {
		r.log.Debug().Err(err).Msg("parse claude stats cache")
		u.Note = "Failed to parse stats-cache.json"
		return u
	}
	u.Available = true

	for model, mu := range cache.ModelUsage {
		u.InputTokens += mu.InputTokens
		u.OutputTokens += mu.OutputTokens
		u.CacheTokens += mu.CacheReadInputTokens + mu.CacheCreationInputTokens
		u.Models[model] = ModelUsage{InputTokens: mu.InputTokens, OutputTokens: mu.OutputTokens}
	}
	u.TotalTokens = u.InputTokens + u.OutputTokens

	cutoff := r.cutoff()
	index := make(map[string]int)
	for _, day := range cache.DailyActivity {
		if day.Date < cutoff {
			continue
		}
		index[day.Date] = len(u.Daily)
		u.Daily = append(u.Daily, DailyUsage{Date: day.Date, Messages: day.MessageCount, Sessions: day.SessionCount})
		u.Messages += day.MessageCount
		u.Sessions += day.SessionCount
	}
	for _, day := range cache.DailyModelTokens {
		i, ok := index[day.Date]
		if !ok {
			continue
		}
		var total int64
		for _, n := range day.TokensByModel {
			total += n
		}
		u.Daily[i].Tokens = total
	}
	sortDailyDesc(u.Daily)
	return u
}

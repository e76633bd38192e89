package usage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/orchester-labs/orchester/internal/tools"
)

// codexModel is the bucket Codex totals are reported under; session files
// do not name the model reliably.
const codexModel = "gpt-5-codex"

var (
	yearPattern = regexp.MustCompile(`^\d{4}$`)
	dayPattern  = regexp.MustCompile(`^\d{1,2}$`)
)

type codexTokenUsage struct {
	InputTokens           int64 `json:"input_tokens"`
	CachedInputTokens     int64 `json:"cached_input_tokens"`
	OutputTokens          int64 `json:"output_tokens"`
	ReasoningOutputTokens int64 `json:"reasoning_output_tokens"`
}

type codexEvent struct {
	Type    string `json:"type"`
	Payload struct {
		Type string `json:"type"`
		Info *struct {
			TotalTokenUsage *codexTokenUsage `json:"total_token_usage"`
		} `json:"info"`
	} `json:"payload"`
}

// Codex walks ~/.codex/sessions/YYYY/MM/DD/*.jsonl. Each file is one
// session; its last token_count event holds the cumulative total and every
// user_message event counts as a message.
func (r *Reader) Codex() RuntimeUsage {
	u := newUsage(tools.Codex)
	root := filepath.Join(r.Home, ".codex", "sessions")
	if !isDir(root) {
		u.Note = "No sessions directory"
		return u
	}
	u.Available = true

	daily := make(map[string]*DailyUsage)
	for _, year := range subdirs(root, yearPattern) {
		for _, month := range subdirs(filepath.Join(root, year), dayPattern) {
			for _, day := range subdirs(filepath.Join(root, year, month), dayPattern) {
				dir := filepath.Join(root, year, month, day)
				date := fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
				files, _ := filepath.Glob(filepath.Join(dir, "*.jsonl"))
				for _, f := range files {
					u.Sessions++
					last, messages := r.readCodexSession(f)
					u.Messages += messages
					if last == nil {
						continue
					}
					in := last.InputTokens
					out := last.OutputTokens + last.ReasoningOutputTokens
					u.InputTokens += in
					u.OutputTokens += out
					u.CacheTokens += last.CachedInputTokens
					u.TotalTokens += in + out

					d, ok := daily[date]
					if !ok {
						d = &DailyUsage{Date: date}
						daily[date] = d
					}
					d.Tokens += in + out
					d.Sessions++
				}
			}
		}
	}

	cutoff := r.cutoff()
	for _, d := range daily {
		if d.Date >= cutoff {
			u.Daily = append(u.Daily, *d)
		}
	}
	sortDailyDesc(u.Daily)
	u.Models[codexModel] = ModelUsage{InputTokens: u.InputTokens, OutputTokens: u.OutputTokens}
	return u
}

// readCodexSession returns the last cumulative token usage of a session
// file and its user message count. Malformed lines are skipped.
func (r *Reader) readCodexSession(path string) (*codexTokenUsage, int) {
	f, err := os.Open(path)
	if err != nil {
		r.log.Debug().Err(err).Str("path", path).Msg("open codex session")
		return nil, 0
	}
	defer f.Close()

	var (
		last     *codexTokenUsage
		messages int
	)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ev codexEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil || ev.Type != "event_msg" {
			continue
		}
		switch ev.Payload.Type {
		case "user_message":
			messages++
		case "token_count":
			if ev.Payload.Info != nil && ev.Payload.Info.TotalTokenUsage != nil {
				last = ev.Payload.Info.TotalTokenUsage
			}
		}
	}
	return last, messages
}

func subdirs(dir string, pattern *regexp.Regexp) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && pattern.MatchString(e.Name()) {
			out = append(out, e.Name())
		}
	}
	return out
}

func pad2(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%02d", n)
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

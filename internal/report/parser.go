package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	headerLabel     = "Session data:"
	leaderMarker    = "(Leader)"
	timeLayout      = "2006-01-02, 15:04:05"
	defaultDuration = "00:00h"
)

var dateRangeRe = regexp.MustCompile(`From (\d{4}-\d{2}-\d{2}, \d{2}:\d{2}:\d{2}) to (\d{4}-\d{2}-\d{2}, \d{2}:\d{2}:\d{2})`)

// Lines starting with one of these never open a player section.
var reservedPrefixes = []string{"Session", "Loot", "Supplies", "Balance"}

// playerField maps a per-player label to the field it sets.
type playerField struct {
	label string
	set   func(p *Player, v int64)
}

var playerFields = []playerField{
	{"Loot:", func(p *Player, v int64) { p.Loot = v }},
	{"Supplies:", func(p *Player, v int64) { p.Supplies = v }},
	{"Balance:", func(p *Player, v int64) { p.Balance = v }},
	{"Damage:", func(p *Player, v int64) { p.Damage = v }},
	{"Healing:", func(p *Player, v int64) { p.Healing = v }},
}

// ParseText converts a raw session report into a Session. The returned
// warnings list every numeric value that fell back to zero and any other
// value replaced by its default; they never make the parse fail.
func ParseText(raw string) (*Session, []string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil, &ParseError{Kind: ErrEmptyReport}
	}

	lines := strings.Split(raw, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	headerAt := findLine(lines, headerLabel)
	if headerAt < 0 {
		return nil, nil, &ParseError{Kind: ErrMissingSessionHeader}
	}
	start, end, err := parseDateRange(lines[headerAt])
	if err != nil {
		return nil, nil, &ParseError{Kind: ErrMalformedDateRange, Line: headerAt + 1, Detail: err.Error()}
	}

	var warnings []string
	warn := func(line int, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		if line > 0 {
			msg = fmt.Sprintf("line %d: %s", line, msg)
		}
		warnings = append(warnings, msg)
	}

	s := &Session{
		StartTime: start,
		EndTime:   end,
		Duration:  defaultDuration,
		LootType:  LootLeader,
	}

	if i := findLine(lines, "Session:"); i >= 0 {
		if v := fieldValue(lines[i]); v != "" {
			s.Duration = v
		}
	}
	if i := findLine(lines, "Loot Type:"); i >= 0 {
		if v := fieldValue(lines[i]); v != "" {
			lt, ok := ParseLootType(v)
			if !ok {
				warn(i+1, "unknown loot type %q, using %s", v, LootLeader)
			}
			s.LootType = lt
		}
	}

	totals := []struct {
		label string
		dst   *int64
	}{
		{"Loot:", &s.TotalLoot},
		{"Supplies:", &s.TotalSupplies},
		{"Balance:", &s.TotalBalance},
	}
	for _, t := range totals {
		i := findLine(lines, t.label)
		if i < 0 {
			warn(0, "session %s missing, using 0", strings.TrimSuffix(t.label, ":"))
			continue
		}
		v := fieldValue(lines[i])
		n, ok := parseAmount(v)
		if !ok {
			warn(i+1, "%s %q is not a number, using 0", t.label, v)
		}
		*t.dst = n
	}

	ps := newPlayerScan()
	for i, line := range lines {
		ps.step(i+1, line)
		if ps.err != nil {
			return nil, nil, ps.err
		}
	}
	ps.close()
	if ps.err != nil {
		return nil, nil, ps.err
	}
	s.Players = ps.players
	warnings = append(warnings, ps.warnings...)

	return s, warnings, nil
}

// scanState is the player-section state machine's state.
type scanState int

const (
	noActivePlayer scanState = iota
	activePlayer
)

// playerScan accumulates players while lines are fed through step.
type playerScan struct {
	state    scanState
	current  Player
	openedAt int
	players  []Player
	seen     map[string]int
	leaderAt int
	warnings []string
	err      error
}

func newPlayerScan() *playerScan {
	return &playerScan{seen: make(map[string]int)}
}

func (ps *playerScan) step(lineNo int, line string) {
	if isPlayerStart(line) {
		// NoActivePlayer -> ActivePlayer, or ActivePlayer -> (close) ActivePlayer.
		ps.close()
		if ps.err != nil {
			return
		}
		ps.current = Player{
			Name:     strings.TrimSpace(strings.Replace(line, leaderMarker, "", 1)),
			IsLeader: strings.Contains(line, leaderMarker),
		}
		ps.openedAt = lineNo
		ps.state = activePlayer
		return
	}
	if ps.state != activePlayer {
		return
	}
	for _, f := range playerFields {
		if !strings.HasPrefix(line, f.label) {
			continue
		}
		v := fieldValue(line)
		n, ok := parseAmount(v)
		if !ok {
			ps.warnings = append(ps.warnings,
				fmt.Sprintf("line %d: %s %s %q is not a number, using 0", lineNo, ps.current.Name, f.label, v))
		}
		f.set(&ps.current, n)
		return
	}
}

// close appends the in-progress player, if any, and returns to NoActivePlayer.
func (ps *playerScan) close() {
	if ps.state != activePlayer {
		return
	}
	p := ps.current
	ps.state = noActivePlayer
	ps.current = Player{}

	if p.Name == "" {
		ps.warnings = append(ps.warnings, fmt.Sprintf("line %d: player entry has no name, skipped", ps.openedAt))
		return
	}
	if first, dup := ps.seen[p.Name]; dup {
		ps.err = &ParseError{
			Kind:   ErrDuplicatePlayer,
			Line:   ps.openedAt,
			Detail: fmt.Sprintf("%q already listed on line %d", p.Name, first),
		}
		return
	}
	ps.seen[p.Name] = ps.openedAt

	if p.IsLeader {
		if ps.leaderAt > 0 {
			ps.err = &ParseError{
				Kind:   ErrMultipleLeaders,
				Line:   ps.openedAt,
				Detail: fmt.Sprintf("%q is marked %s but so is the player on line %d", p.Name, leaderMarker, ps.leaderAt),
			}
			return
		}
		ps.leaderAt = ps.openedAt
	}
	ps.players = append(ps.players, p)
}

func isPlayerStart(line string) bool {
	if line == "" || strings.Contains(line, ":") {
		return false
	}
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(line, prefix) {
			return false
		}
	}
	return true
}

// findLine returns the index of the first line starting with prefix, or -1.
func findLine(lines []string, prefix string) int {
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return i
		}
	}
	return -1
}

// fieldValue returns everything after the first colon, trimmed.
func fieldValue(line string) string {
	_, v, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

func parseDateRange(line string) (time.Time, time.Time, error) {
	m := dateRangeRe.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("expected \"From YYYY-MM-DD, HH:MM:SS to YYYY-MM-DD, HH:MM:SS\"")
	}
	start, err := time.Parse(timeLayout, m[1])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(timeLayout, m[2])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// parseAmount strips grouping commas and reads the leading signed integer.
// Trailing text is ignored ("1,234 gp" is 1234); ok is false when no digits
// are present or the value overflows.
func parseAmount(v string) (int64, bool) {
	v = strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	digits := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(v[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SessionParser deserializes a session from one of the supported formats.
type SessionParser interface {
	Parse(data []byte) (*Session, error)
}

// TextParser parses the game client's report text.
type TextParser struct {
	// Warn receives each non-fatal parse warning when set.
	Warn func(msg string)
}

func (p *TextParser) Parse(data []byte) (*Session, error) {
	s, warnings, err := ParseText(string(data))
	if err != nil {
		return nil, err
	}
	if p.Warn != nil {
		for _, w := range warnings {
			p.Warn(w)
		}
	}
	return s, nil
}

// JSONParser parses a JSON-exported Session.
type JSONParser struct{}

func (p *JSONParser) Parse(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse JSON session: %w", err)
	}
	return &s, nil
}

// MarkdownParser parses a Markdown export by decoding its embedded payload.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(data []byte) (*Session, error) {
	content := string(data)

	if !strings.Contains(content, versionSentinel) {
		return nil, fmt.Errorf("not a huntsplit export: missing version sentinel")
	}

	start := strings.Index(content, dataPrefix)
	if start == -1 {
		return nil, fmt.Errorf("not a huntsplit export: missing data payload")
	}
	start += len(dataPrefix)
	end := strings.Index(content[start:], dataSuffix)
	if end == -1 {
		return nil, fmt.Errorf("not a huntsplit export: malformed data payload")
	}

	jsonBytes, err := base64.StdEncoding.DecodeString(content[start : start+end])
	if err != nil {
		return nil, fmt.Errorf("not a huntsplit export: corrupted base64 payload: %w", err)
	}
	var s Session
	if err := json.Unmarshal(jsonBytes, &s); err != nil {
		return nil, fmt.Errorf("not a huntsplit export: failed to parse embedded JSON: %w", err)
	}
	return &s, nil
}

// ParserFor picks a parser from a file name's extension. Anything that is
// not .json or .md is treated as report text.
func ParserFor(path string, warn func(string)) SessionParser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return &JSONParser{}
	case ".md", ".markdown":
		return &MarkdownParser{}
	default:
		return &TextParser{Warn: warn}
	}
}

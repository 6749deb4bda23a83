package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	versionSentinel = "<!-- huntsplit-session-version: 1 -->"
	dataPrefix      = "<!-- huntsplit-data: "
	dataSuffix      = " -->"
)

// SessionRenderer serializes a Session to bytes.
type SessionRenderer interface {
	Render(s *Session) ([]byte, error)
}

// RendererFor returns the renderer for an output format name:
// "text", "json" or "markdown".
func RendererFor(format string) (SessionRenderer, error) {
	switch strings.ToLower(format) {
	case "text", "report":
		return &TextRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want text, json or markdown)", format)
}

// TextRenderer writes a Session back in the game client's report dialect.
// Its output parses back to an equal Session.
type TextRenderer struct{}

func (r *TextRenderer) Render(s *Session) ([]byte, error) {
	if strings.ContainsAny(s.Duration, "\r\n") || strings.TrimSpace(s.Duration) != s.Duration || s.Duration == "" {
		return nil, fmt.Errorf("render report: duration %q cannot be written as report text", s.Duration)
	}
	for _, p := range s.Players {
		if !representableName(p.Name) {
			return nil, fmt.Errorf("render report: player name %q cannot be written as report text", p.Name)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s From %s to %s\n", headerLabel,
		s.StartTime.UTC().Format(timeLayout),
		s.EndTime.UTC().Format(timeLayout),
	)
	fmt.Fprintf(&sb, "Session: %s\n", s.Duration)
	fmt.Fprintf(&sb, "Loot Type: %s\n", s.LootType)
	fmt.Fprintf(&sb, "Loot: %s\n", FormatAmount(s.TotalLoot))
	fmt.Fprintf(&sb, "Supplies: %s\n", FormatAmount(s.TotalSupplies))
	fmt.Fprintf(&sb, "Balance: %s\n", FormatAmount(s.TotalBalance))
	for _, p := range s.Players {
		if p.IsLeader {
			fmt.Fprintf(&sb, "%s %s\n", p.Name, leaderMarker)
		} else {
			sb.WriteString(p.Name + "\n")
		}
		fmt.Fprintf(&sb, "\tLoot: %s\n", FormatAmount(p.Loot))
		fmt.Fprintf(&sb, "\tSupplies: %s\n", FormatAmount(p.Supplies))
		fmt.Fprintf(&sb, "\tBalance: %s\n", FormatAmount(p.Balance))
		fmt.Fprintf(&sb, "\tDamage: %s\n", FormatAmount(p.Damage))
		fmt.Fprintf(&sb, "\tHealing: %s\n", FormatAmount(p.Healing))
	}
	return []byte(sb.String()), nil
}

// representableName reports whether a player name survives a trip through
// the report dialect unchanged.
func representableName(name string) bool {
	if name == "" || strings.TrimSpace(name) != name {
		return false
	}
	if strings.ContainsAny(name, ":\r\n") || strings.Contains(name, leaderMarker) {
		return false
	}
	return isPlayerStart(name)
}

// JSONRenderer renders a Session as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(s *Session) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// MarkdownRenderer renders a Session as a readable summary with an embedded
// base64 JSON payload so MarkdownParser can restore it exactly.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(s *Session) ([]byte, error) {
	jsonBytes, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	var sb strings.Builder
	sb.WriteString(versionSentinel + "\n")
	fmt.Fprintf(&sb, "%s%s%s\n\n", dataPrefix, encoded, dataSuffix)

	fmt.Fprintf(&sb, "# Hunt session %s\n\n", s.StartTime.Format("2006-01-02 15:04"))

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- From: %s\n", s.StartTime.Format(timeLayout))
	fmt.Fprintf(&sb, "- To: %s\n", s.EndTime.Format(timeLayout))
	fmt.Fprintf(&sb, "- Duration: %s\n", s.Duration)
	fmt.Fprintf(&sb, "- Loot type: %s\n", s.LootType)
	fmt.Fprintf(&sb, "- Players: %d\n", len(s.Players))
	fmt.Fprintf(&sb, "- Loot: %s\n", FormatAmount(s.TotalLoot))
	fmt.Fprintf(&sb, "- Supplies: %s\n", FormatAmount(s.TotalSupplies))
	fmt.Fprintf(&sb, "- Balance: %s\n", FormatAmount(s.TotalBalance))
	sb.WriteString("\n")

	sb.WriteString("## Players\n\n")
	if len(s.Players) == 0 {
		sb.WriteString("_No players recorded._\n")
	} else {
		sb.WriteString("| Player | Loot | Supplies | Balance | Damage | Healing |\n")
		sb.WriteString("|--------|-----:|---------:|--------:|-------:|--------:|\n")
		for _, p := range s.Players {
			name := p.Name
			if p.IsLeader {
				name += " " + leaderMarker
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
				name,
				FormatAmount(p.Loot),
				FormatAmount(p.Supplies),
				FormatAmount(p.Balance),
				FormatAmount(p.Damage),
				FormatAmount(p.Healing),
			)
		}
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

// FormatAmount writes n with comma grouping, e.g. -1234567 as "-1,234,567".
func FormatAmount(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}
	var sb strings.Builder
	sb.WriteString(sign)
	head := len(digits) % 3
	if head > 0 {
		sb.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if sb.Len() > len(sign) {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

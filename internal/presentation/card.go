// Package presentation maps verification records to the result card shown to
// users. Everything here is pure: no I/O and no clock.
package presentation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

// PreviewLimit is the number of characters of content shown on a card.
const PreviewLimit = 200

const ellipsis = "..."

// Band is the confidence color banding.
type Band string

const (
	BandGood    Band = "good"
	BandWarning Band = "warning"
	BandPoor    Band = "poor"
)

// Badge is the visual status marker of a card.
type Badge struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Tone  string `json:"tone"`
}

// Card is the render-ready view of one record.
type Card struct {
	ID         string   `json:"id"`
	Status     string   `json:"status"`
	Badge      Badge    `json:"badge"`
	Confidence int      `json:"confidence"`
	Band       Band     `json:"band"`
	Meter      int      `json:"meter"`
	Preview    string   `json:"preview"`
	Analysis   string   `json:"analysis"`
	Sources    []string `json:"sources"`
	Time       string   `json:"time"`
	ReportURL  string   `json:"report_url,omitempty"`
}

// NewCard builds the card for r.
func NewCard(r domain.Record) Card {
	return Card{
		ID:         string(r.ID),
		Status:     string(r.Status),
		Badge:      BadgeFor(r.Status),
		Confidence: r.Confidence,
		Band:       BandFor(r.Confidence),
		Meter:      clamp(r.Confidence, 0, 100),
		Preview:    Preview(r.Content),
		Analysis:   r.Analysis,
		Sources:    append([]string(nil), r.Sources...),
		Time:       r.Timestamp.Format("15:04:05"),
		ReportURL:  r.ReportURL,
	}
}

// Cards maps records in order.
func Cards(records []domain.Record) []Card {
	out := make([]Card, 0, len(records))
	for _, r := range records {
		out = append(out, NewCard(r))
	}
	return out
}

// BadgeFor maps a status to its badge. Unknown statuses render as pending.
func BadgeFor(s domain.Status) Badge {
	switch s {
	case domain.StatusAuthentic:
		return Badge{Label: "Likely Authentic", Icon: "check-circle", Tone: "verification-real"}
	case domain.StatusFabricated:
		return Badge{Label: "Likely Fake", Icon: "x-circle", Tone: "verification-fake"}
	case domain.StatusUncertain:
		return Badge{Label: "Requires Review", Icon: "alert-triangle", Tone: "verification-uncertain"}
	default:
		return Badge{Label: "Analyzing...", Icon: "clock", Tone: "verification-pending"}
	}
}

// BandFor: >=80 good, >=60 warning, else poor.
func BandFor(confidence int) Band {
	switch {
	case confidence >= 80:
		return BandGood
	case confidence >= 60:
		return BandWarning
	default:
		return BandPoor
	}
}

// Preview returns content cut to PreviewLimit characters plus an ellipsis,
// or content unchanged when it fits.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewLimit {
		return content
	}
	n := 0
	for i := range content {
		if n == PreviewLimit {
			return content[:i] + ellipsis
		}
		n++
	}
	return content
}

// Text renders the card as plain text for terminals.
func (c Card) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s  %d%% confidence (%s)\n", c.Badge.Label, c.Time, c.Confidence, c.Band)
	fmt.Fprintf(&b, "%s\n", meterBar(c.Meter, 20))
	fmt.Fprintf(&b, "\nContent Analyzed:\n  %s\n", c.Preview)
	fmt.Fprintf(&b, "\nAI Analysis:\n  %s\n", c.Analysis)
	if len(c.Sources) > 0 {
		b.WriteString("\nCross-Referenced Sources:\n")
		for _, s := range c.Sources {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if c.ReportURL != "" {
		fmt.Fprintf(&b, "\nReport: %s\n", c.ReportURL)
	}
	return b.String()
}

func meterBar(value, width int) string {
	filled := value * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

package briefing

import (
	"fmt"
	"strings"
)

// Tier is the normalized severity of a breach, threat, or alert.
type Tier int

const (
	TierUnknown Tier = iota
	TierOK
	TierWarning
	TierCritical
)

var tierNames = map[Tier]string{
	TierUnknown:  "UNKNOWN",
	TierOK:       "OK",
	TierWarning:  "WARNING",
	TierCritical: "CRITICAL",
}

var tokens = map[string]Tier{
	"RED":      TierCritical,
	"HIGH":     TierCritical,
	"CRITICAL": TierCritical,
	"AMBER":    TierWarning,
	"MEDIUM":   TierWarning,
	"WARNING":  TierWarning,
	"GREEN":    TierOK,
	"LOW":      TierOK,
	"OK":       TierOK,
}

// Classify maps a raw severity token to its tier. Matching ignores case and
// surrounding whitespace. Unrecognized tokens, including the empty string,
// are TierUnknown.
func Classify(token string) Tier {
	if tier, ok := tokens[strings.ToUpper(strings.TrimSpace(token))]; ok {
		return tier
	}
	return TierUnknown
}

// ParseTier reads a filter value. It reports false for "", "all", and
// "any", which select every tier. Any other input, tier names and raw
// tokens alike, is classified.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "any":
		return TierUnknown, false
	case "unknown":
		return TierUnknown, true
	}
	return Classify(s), true
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Actionable reports whether the tier produces an alert.
func (t Tier) Actionable() bool {
	return t == TierCritical || t == TierWarning
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	*t = Classify(string(b))
	if *t == TierUnknown && !strings.EqualFold(strings.TrimSpace(string(b)), "unknown") {
		return fmt.Errorf("unrecognized severity %q", b)
	}
	return nil
}

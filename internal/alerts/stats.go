package alerts

import "github.com/JaimeStill/vantage/internal/briefing"

// NoRegion is the TopRegion shown before any briefing arrives.
const NoRegion = "--"

// Stats summarizes the alert set and the latest briefing.
type Stats struct {
	GeographyCount     int    `json:"geography_count"`
	CriticalCount      int    `json:"critical_count"`
	ConcentrationScore int    `json:"concentration_score"`
	TopRegion          string `json:"top_region"`
}

// ZeroStats is the summary of an empty session.
func ZeroStats() Stats {
	return Stats{TopRegion: NoRegion}
}

// Recompute derives Stats from scratch. Geographies are compared exactly.
// Critical alerts are counted by classifying each alert's severity rather
// than trusting any stored tier.
func Recompute(items []Alert, latest *briefing.Briefing) Stats {
	stats := ZeroStats()

	geographies := make(map[string]struct{}, len(items)+1)
	for _, a := range items {
		geographies[a.Geography] = struct{}{}
		if a.Tier() == briefing.TierCritical {
			stats.CriticalCount++
		}
	}

	if latest != nil {
		geographies[latest.Geography] = struct{}{}
		stats.ConcentrationScore = latest.Exposure.ConcentrationScore
		stats.TopRegion = latest.Geography
	}

	stats.GeographyCount = len(geographies)
	return stats
}

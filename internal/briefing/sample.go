package briefing

// Sample returns the demonstration briefing shown in sample mode.
func Sample() Briefing {
	return Briefing{
		SeverityLevel: "AMBER",
		Geography:     "Southeast Florida",
		Summary:       "The Southeast Florida region shows elevated concentration risk with a score of 72/100, driven primarily by high property exposure in coastal zones. Year-over-year growth of 14.2% exceeds the recommended 10% threshold. Immediate attention required on intermediary concentration, where Marsh & McLennan controls 38% of placed business.",
		Exposure: ExposureSummary{
			TotalPolicies:      12847,
			TotalInsuredValue:  "$18.4B",
			ConcentrationScore: 72,
			YoYGrowth:          "+14.2%",
		},
		LOB: []LOBShare{
			{LineOfBusiness: "Commercial Property", Percentage: "42", InsuredValue: "$7.7B"},
			{LineOfBusiness: "Residential Property", Percentage: "28", InsuredValue: "$5.2B"},
			{LineOfBusiness: "Commercial Auto", Percentage: "15", InsuredValue: "$2.8B"},
			{LineOfBusiness: "General Liability", Percentage: "10", InsuredValue: "$1.8B"},
			{LineOfBusiness: "Workers Comp", Percentage: "5", InsuredValue: "$0.9B"},
		},
		Intermediaries: []IntermediaryShare{
			{Name: "Marsh & McLennan", Percentage: "38"},
			{Name: "Aon Risk Solutions", Percentage: "22"},
			{Name: "Willis Towers Watson", Percentage: "16"},
			{Name: "Lockton Companies", Percentage: "12"},
			{Name: "Others", Percentage: "12"},
		},
		Breaches: []Breach{
			{Metric: "Concentration Score", CurrentValue: "72", Threshold: "65", Status: "AMBER"},
			{Metric: "YoY Growth Rate", CurrentValue: "14.2%", Threshold: "10%", Status: "RED"},
			{Metric: "Single Intermediary Share", CurrentValue: "38%", Threshold: "35%", Status: "AMBER"},
			{Metric: "Coastal Exposure Ratio", CurrentValue: "58%", Threshold: "50%", Status: "RED"},
		},
		Threats: []Threat{
			{Name: "Hurricane Season 2025", Severity: "HIGH", Description: "NOAA forecasts above-normal Atlantic hurricane season with 17-21 named storms. Direct landfall probability for SE Florida at 18%."},
			{Name: "Sea Level Rise", Severity: "MEDIUM", Description: "Continued tidal flooding increase in Miami-Dade County. 6-inch rise projected by 2030 impacting low-elevation coastal properties."},
			{Name: "Construction Cost Inflation", Severity: "MEDIUM", Description: "Building material costs up 8.3% YoY in Florida, creating potential underinsurance gap in property portfolios."},
		},
		Actions: []Action{
			{Priority: 1, Action: "Implement new business moratorium for coastal property in Miami-Dade until concentration score falls below 65", Rationale: "Concentration score exceeds amber threshold and approaching red territory", Urgency: "Immediate"},
			{Priority: 2, Action: "Diversify intermediary mix by redirecting 10% of Marsh portfolio to regional brokers", Rationale: "Single intermediary concentration exceeds 35% threshold", Urgency: "Short-term"},
			{Priority: 3, Action: "Increase catastrophe reinsurance treaty limits by $500M for Florida wind exposure", Rationale: "Current limits insufficient for projected hurricane season severity", Urgency: "Short-term"},
			{Priority: 4, Action: "Conduct ITV adequacy review for all SE Florida property policies >$5M TIV", Rationale: "Construction cost inflation creating underinsurance risk", Urgency: "Medium-term"},
		},
		HistoricalContext:  "Southeast Florida has historically been the highest-concentration geography in the portfolio. Hurricane Irma (2017) resulted in $2.1B gross losses from this region. Post-Irma remediation reduced concentration score from 85 to 61 by 2020, but subsequent growth has pushed it back to current levels.",
		RiskAppetiteStatus: "OUTSIDE APPETITE - The current concentration level of 72 exceeds the Board-approved risk appetite framework limit of 65 for coastal geographies. Remedial action plan required within 30 days per Risk Committee mandate.",
		AnalysisTimestamp:  "2025-06-15T14:30:00Z",
	}
}

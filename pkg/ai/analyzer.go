package ai

import "context"

// ConditionReport is the structured assessment produced for an inspection
// photo.
type ConditionReport struct {
	OverallCondition string   `json:"overallCondition"` // excellent|good|fair|poor|critical
	ConditionScore   int      `json:"conditionScore"`   // 0-100
	DetectedIssues   []Issue  `json:"detectedIssues"`
	Recommendations  []string `json:"recommendations"`
	Urgency          string   `json:"urgency"` // low|medium|high|critical
	SafetyRisks      []string `json:"safetyRisks,omitempty"`
}

// Issue is a single defect found on the inspected equipment.
type Issue struct {
	Type        string `json:"type"` // corrosion|wear|leak|crack|misalignment|contamination|other
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Confidence  int    `json:"confidence"`
}

// Analyzer produces condition reports from inspection photos. Callers must
// authorize the run_ai_analysis operation before invoking it; the analyzer
// itself performs no entitlement checks.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, assetType, assetName string) (*ConditionReport, error)
}

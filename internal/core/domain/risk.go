package domain

import "strings"

// RiskLevel is a four-level classification of a check-in
type RiskLevel string

const (
	RiskNormal    RiskLevel = "normal"
	RiskWarning   RiskLevel = "warning"
	RiskUrgent    RiskLevel = "urgent"
	RiskEmergency RiskLevel = "emergency"
)

var riskRank = map[RiskLevel]int{
	RiskNormal:    0,
	RiskWarning:   1,
	RiskUrgent:    2,
	RiskEmergency: 3,
}

// Escalate returns the more severe of the two levels; it never lowers
func Escalate(level, to RiskLevel) RiskLevel {
	if riskRank[to] > riskRank[level] {
		return to
	}
	return level
}

// AtLeast reports whether the level is at or above the given severity
func (l RiskLevel) AtLeast(threshold RiskLevel) bool {
	return riskRank[l] >= riskRank[threshold]
}

// Issue labels accumulated by the classifier
const (
	IssueAbnormalTemperature = "abnormal temperature"
	IssueSensorFault         = "temperature sensor fault"
	IssueLowOxygen           = "low oxygen level"
	IssueAbnormalHeartRate   = "abnormal heart rate"
)

// RiskAssessment is derived from the latest record; it is never persisted
// and must be recomputed whenever the record set changes.
type RiskAssessment struct {
	Level           RiskLevel `json:"level"`
	Message         string    `json:"message"`
	Issues          []string  `json:"issues"`
	Recommendations []string  `json:"recommendations"`
}

// Normal Fahrenheit temperature window; readings outside it are flagged
const (
	TemperatureNormalMinF = 95.0
	TemperatureNormalMaxF = 100.4
)

// AssessRisk classifies the current record into a RiskAssessment.
// History is accepted for parity with the richer suggestion pipeline; the
// classifier itself only inspects the current record.
//
// The temperature cascade is evaluated first-match-wins in the order below.
// The >120 and <50 sensor-fault branches sit after broader ranges that
// already match, so they cannot fire; the ordering is kept as observed in
// production and the thresholds are pending review rather than reordered here.
func AssessRisk(current *HealthRecord, history []*HealthRecord) *RiskAssessment {
	level := RiskNormal
	var issues []string
	var recs []string

	if f, ok := NormalizeTemperature(current.Temperature); ok {
		if f < TemperatureNormalMinF || f > TemperatureNormalMaxF {
			issues = append(issues, IssueAbnormalTemperature)
			switch {
			case f > 103:
				level = Escalate(level, RiskUrgent)
				recs = append(recs, "High fever: seek medical care as soon as possible.")
			case f > 120:
				level = Escalate(level, RiskEmergency)
				issues = append(issues, IssueSensorFault)
				recs = append(recs, "Reading is physiologically impossible; re-measure with a different thermometer.")
			case f < 92:
				level = Escalate(level, RiskUrgent)
				recs = append(recs, "Possible hypothermia: warm up gradually and seek medical care.")
			case f < 50:
				level = Escalate(level, RiskEmergency)
				issues = append(issues, IssueSensorFault)
				recs = append(recs, "Reading is physiologically impossible; re-measure with a different thermometer.")
			default:
				level = Escalate(level, RiskWarning)
				recs = append(recs, "Stay hydrated and monitor your temperature over the next few hours.")
			}
		}
	}

	if current.OxygenLevel != nil {
		switch {
		case *current.OxygenLevel < 90:
			issues = append(issues, IssueLowOxygen)
			level = Escalate(level, RiskUrgent)
			recs = append(recs, "Oxygen saturation is low: seek medical attention.")
		case *current.OxygenLevel < 95:
			issues = append(issues, IssueLowOxygen)
			level = Escalate(level, RiskWarning)
			recs = append(recs, "Oxygen saturation is slightly low: rest and re-measure in an hour.")
		}
	}

	if current.HeartRate != nil && (*current.HeartRate < 40 || *current.HeartRate > 130) {
		issues = append(issues, IssueAbnormalHeartRate)
		level = Escalate(level, RiskWarning)
		recs = append(recs, "Heart rate is outside the usual resting range: sit down, rest and re-check.")
	}

	if level == RiskNormal {
		recs = append(recs, "Continue monitoring your vitals daily.")
	}

	return &RiskAssessment{
		Level:           level,
		Message:         riskMessage(level, issues),
		Issues:          issues,
		Recommendations: recs,
	}
}

// riskMessage derives the headline from the final level and the accumulated
// issue labels only; no other state feeds into it.
func riskMessage(level RiskLevel, issues []string) string {
	faulted := false
	for _, issue := range issues {
		if issue == IssueSensorFault {
			faulted = true
			break
		}
	}

	switch level {
	case RiskEmergency:
		if faulted {
			return "Sensor fault suspected: " + strings.Join(issues, ", ") + ". Verify the reading before acting on it."
		}
		return "Emergency: " + strings.Join(issues, ", ") + ". Seek immediate medical care."
	case RiskUrgent:
		return "Urgent: " + strings.Join(issues, ", ") + ". Seek medical care."
	case RiskWarning:
		return "Some readings need attention: " + strings.Join(issues, ", ") + "."
	default:
		return "All readings look normal."
	}
}

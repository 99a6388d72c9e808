package a11y

import "strings"

// Principle is one of the four WCAG POUR principles. A criterion such as
// "1.4.3" belongs to the principle named by its first digit.
type Principle string

func (p Principle) String() string {
	return string(p)
}

const (
	PrinciplePerceivable    Principle = "PERCEIVABLE"
	PrincipleOperable       Principle = "OPERABLE"
	PrincipleUnderstandable Principle = "UNDERSTANDABLE"
	PrincipleRobust         Principle = "ROBUST"
)

// PrincipleForCriterion maps a WCAG success criterion to its POUR principle.
// The second return is false when the criterion has no recognizable leading
// digit, in which case the caller should fall back to ROBUST.
func PrincipleForCriterion(criterion string) (Principle, bool) {
	criterion = strings.TrimSpace(criterion)
	if criterion == "" {
		return PrincipleRobust, false
	}
	switch criterion[0] {
	case '1':
		return PrinciplePerceivable, true
	case '2':
		return PrincipleOperable, true
	case '3':
		return PrincipleUnderstandable, true
	case '4':
		return PrincipleRobust, true
	default:
		return PrincipleRobust, false
	}
}

// ComplianceLevel buckets an aggregate score into the published bands.
type ComplianceLevel string

func (c ComplianceLevel) String() string {
	return string(c)
}

const (
	Compliant          ComplianceLevel = "COMPLIANT"
	PartiallyCompliant ComplianceLevel = "PARTIALLY_COMPLIANT"
	NonCompliant       ComplianceLevel = "NON_COMPLIANT"
)

// ComplianceLevelForScore returns COMPLIANT at 85 and above,
// PARTIALLY_COMPLIANT from 60 up to but excluding 85, NON_COMPLIANT below 60.
func ComplianceLevelForScore(score float64) ComplianceLevel {
	switch {
	case score >= 85:
		return Compliant
	case score >= 60:
		return PartiallyCompliant
	default:
		return NonCompliant
	}
}

// Impact names a user population affected by a finding.
type Impact string

func (i Impact) String() string {
	return string(i)
}

const (
	ImpactBlind      Impact = "BLIND"
	ImpactLowVision  Impact = "LOW_VISION"
	ImpactColorBlind Impact = "COLOR_BLIND"
	ImpactMotor      Impact = "MOTOR"
	ImpactCognitive  Impact = "COGNITIVE"
	ImpactDeaf       Impact = "DEAF"
)

func NewImpact(s string) (Impact, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BLIND":
		return ImpactBlind, true
	case "LOW_VISION":
		return ImpactLowVision, true
	case "COLOR_BLIND":
		return ImpactColorBlind, true
	case "MOTOR":
		return ImpactMotor, true
	case "COGNITIVE":
		return ImpactCognitive, true
	case "DEAF":
		return ImpactDeaf, true
	default:
		return "", false
	}
}

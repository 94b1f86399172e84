package importer

import (
	"math"
	"regexp"
	"strings"
)

// Canonical status vocabularies plus the synonyms seen in real-world files.
var (
	towerStatusMap = map[string]string{
		"active":         "active",
		"inactive":       "inactive",
		"maintenance":    "maintenance",
		"planned":        "planned",
		"in-use":         "active",
		"decommissioned": "inactive",
		"repair":         "maintenance",
		"future":         "planned",
	}
	contractStatusMap = map[string]string{
		"active":     "active",
		"expired":    "expired",
		"pending":    "pending",
		"terminated": "terminated",
		"current":    "active",
		"ended":      "expired",
		"drafted":    "pending",
		"cancelled":  "terminated",
	}
	paymentStatusMap = map[string]string{
		"scheduled": "scheduled",
		"processed": "processed",
		"failed":    "failed",
		"cancelled": "cancelled",
		"pending":   "scheduled",
		"completed": "processed",
		"error":     "failed",
		"rejected":  "failed",
		"cancel":    "cancelled",
	}
)

// normalizeStatus maps a raw status onto the canonical vocabulary for the
// data type. Unknown values fall back to the type's default.
func normalizeStatus(status string, dataType DataType) string {
	value := strings.ToLower(strings.TrimSpace(status))

	switch dataType {
	case DataTypeTower:
		if mapped, ok := towerStatusMap[value]; ok {
			return mapped
		}
		return "active"
	case DataTypeContract:
		if mapped, ok := contractStatusMap[value]; ok {
			return mapped
		}
		return "active"
	case DataTypePayment:
		if mapped, ok := paymentStatusMap[value]; ok {
			return mapped
		}
		return "scheduled"
	default:
		return value
	}
}

var multiSpace = regexp.MustCompile(`\s+`)

// sanitizeText trims and collapses runs of whitespace.
func sanitizeText(s string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}

var phoneChars = regexp.MustCompile(`[^\d+() -]`)

// normalizePhone strips everything except digits, +, parentheses, spaces
// and dashes.
func normalizePhone(s string) string {
	return strings.TrimSpace(phoneChars.ReplaceAllString(s, ""))
}

// normalizeCoordinate rounds to 6 decimal places, roughly 11cm of precision.
func normalizeCoordinate(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func toUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func toLowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Package parse turns the upstream API's loosely-typed, key-abbreviated
// JSON payloads into domain entities. The upstream API is undocumented;
// the same logical field shows up under different keys depending on
// endpoint and account state, so every field is resolved through an
// ordered fallback-key chain with type coercion.
package parse

import (
	"math"
	"strconv"
	"strings"
)

// Fallback-key chains, tried strictly in order; the first present key
// whose value coerces wins. The orders are load-bearing: payloads have
// been observed carrying both the abbreviated and the long-form key
// with different values.
var (
	idKeys        = []string{"id", "i"}
	nameKeys      = []string{"name", "n"}
	firstNameKeys = []string{"firstName", "fn"}
	lastNameKeys  = []string{"lastName", "ln", "name", "n"}

	teamNameKeys = []string{"teamName", "tn", "team_name", "tname", "club", "clubName", "teamname"}
	teamIDKeys   = []string{"teamId", "tid"}

	totalPointsKeys   = []string{"p", "totalPoints", "tp", "points", "pts", "totalPts", "gesamtpunkte", "total", "score", "seasonPoints", "sp"}
	averagePointsKeys = []string{"averagePoints", "ap", "avgPoints", "durchschnitt", "avg", "averageScore", "avgp", "avp"}
	budgetKeys        = []string{"b", "budget", "money", "cash", "funds"}

	positionKeys    = []string{"position", "pos"}
	numberKeys      = []string{"number", "nr", "shirtNumber"}
	statusKeys      = []string{"status", "st"}
	statusAltKeys   = []string{"stl"}
	marketValueKeys = []string{"marketValue", "mv"}
	valueTrendKeys  = []string{"marketValueTrend", "mvt", "tend", "trend"}
	imageKeys       = []string{"profileBigUrl", "pim", "profileUrl", "pu"}

	priceKeys  = []string{"price", "prc"}
	expiryKeys = []string{"expiry", "exp", "dt"}
	offerKeys  = []string{"offers", "ofc"}

	teamValueKeys      = []string{"teamValue", "tv"}
	teamValueTrendKeys = []string{"teamValueTrend", "tvt"}
	placementKeys      = []string{"placement", "pl"}
	wonKeys            = []string{"won", "w"}
	drawnKeys          = []string{"drawn", "d"}
	lostKeys           = []string{"lost", "l"}
)

// Int returns the first candidate key whose value coerces to an
// integer. Coercion order per key: native integer, whole-valued float,
// base-10 numeric string. Returns false when every key misses.
func Int(m map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if n, ok := coerceInt(v); ok {
			return n, true
		}
	}
	return 0, false
}

// Float64 resolves a float through the candidate chain, accepting
// native floats, integers and numeric strings.
func Float64(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if f, ok := coerceFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

// String resolves a string through the candidate chain; numbers are
// formatted rather than rejected because ids occasionally arrive as
// JSON numbers.
func String(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if s, ok := coerceString(v); ok {
			return s, true
		}
	}
	return "", false
}

// Bool resolves a bool, accepting native bools, nonzero numbers and
// the strings "true"/"false"/"1"/"0".
func Bool(m map[string]any, keys ...string) (bool, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t, true
		case string:
			switch strings.ToLower(t) {
			case "true", "1":
				return true, true
			case "false", "0":
				return false, true
			}
		default:
			if n, ok := coerceFloat(v); ok {
				return n != 0, true
			}
		}
	}
	return false, false
}

// IntOr is Int with a caller-supplied default.
func IntOr(m map[string]any, def int, keys ...string) int {
	if n, ok := Int(m, keys...); ok {
		return n
	}
	return def
}

// Float64Or is Float64 with a caller-supplied default.
func Float64Or(m map[string]any, def float64, keys ...string) float64 {
	if f, ok := Float64(m, keys...); ok {
		return f
	}
	return def
}

// StringOr is String with a caller-supplied default.
func StringOr(m map[string]any, def string, keys ...string) string {
	if s, ok := String(m, keys...); ok {
		return s
	}
	return def
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		if t == math.Trunc(t) {
			return int(t), true
		}
	case float32:
		f := float64(t)
		if f == math.Trunc(f) {
			return int(f), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil && f == math.Trunc(f) {
			return int(f), true
		}
	}
	return 0, false
}

func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	}
	return "", false
}

package models

import (
	"sort"
	"strconv"
)

// Record is a loosely-typed FMP row (statements, ratios, profiles) whose
// field set depends on the endpoint and the caller's field selection.
type Record map[string]any

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Float returns the numeric value of key. Numeric strings are accepted
// because some FMP endpoints quote their numbers.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (r Record) Date() string {
	return r.String("date")
}

// Pick keeps only the given keys. Missing keys are kept as nil so every
// picked row has the same shape.
func (r Record) Pick(keys []string) Record {
	out := make(Record, len(keys))
	for _, k := range keys {
		out[k] = r[k]
	}
	return out
}

// SortByDate orders records ascending by their "date" field.
func SortByDate(rows []Record) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date() < rows[j].Date()
	})
}

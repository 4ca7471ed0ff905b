package consistency

import (
	"fmt"
	"reflect"
	"strconv"
)

var labels = map[string]string{
	"risk_scores":            "Risk scores",
	"development_workload":   "Development workload",
	"integration_workload":   "Integration workload",
	"travel_months":          "Travel months",
	"travel_headcount":       "Travel headcount",
	"maintenance_months":     "Maintenance months",
	"maintenance_headcount":  "Maintenance headcount",
	"maintenance_daily_cost": "Maintenance daily cost",
	"risk_cost_items":        "Risk cost items",
	"ai_unmatched_risks":     "Unmatched AI risks",
	"custom_risk_items":      "Custom risk items",
}

// FieldLabel returns the display name of a field, or the field name itself
// when it has none.
func FieldLabel(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// FormatValue renders a field value for a one-line summary. Collections
// are summarized by size rather than printed.
func FormatValue(v any) string {
	if v == nil {
		return "empty"
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "empty"
		}
		return FormatValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "empty"
		}
		return fmt.Sprintf("array(%d items)", rv.Len())
	case reflect.Map:
		if rv.IsNil() {
			return "empty"
		}
		return fmt.Sprintf("object(%d fields)", rv.Len())
	case reflect.Struct:
		return fmt.Sprintf("object(%d fields)", rv.NumField())
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

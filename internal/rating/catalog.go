package rating

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
)

// Option is one selectable answer of a risk item.
type Option struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// UnmarshalJSON accepts the structured and the exported option shapes:
// {"label", "score"} or {"name", "value"}, with numbers or numeric strings.
func (o *Option) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = optionFrom(raw)
	return nil
}

// RiskItem is a configured risk question.
//
// Catalog rows exported from the configuration service carry their
// options as a JSON string in OptionsJSON; Normalize folds that into
// Options.
type RiskItem struct {
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Options     []Option `json:"options"`
	OptionsJSON string   `json:"options_json,omitempty"`
}

// Role is a billable role with its daily unit price.
type Role struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
}

// Catalog is the configuration the evaluator and the cost estimate read.
type Catalog struct {
	RiskItems []RiskItem `json:"risk_items"`
	Roles     []Role     `json:"roles"`
}

// Normalize parses OptionsJSON for items that have no structured options
// and drops options without a label.
func (c *Catalog) Normalize() {
	for i := range c.RiskItems {
		item := &c.RiskItems[i]
		if len(item.Options) == 0 && item.OptionsJSON != "" {
			item.Options = ParseOptions(item.OptionsJSON)
			continue
		}
		item.Options = slices.DeleteFunc(item.Options, func(o Option) bool {
			return o.Label == ""
		})
	}
}

// ParseOptions reads an options_json column.
//
// Each entry takes its label from "label" or "name" and its score from
// "score" or "value" (numbers or numeric strings). Entries without a label
// are dropped; unparseable scores count as 0. Malformed JSON yields no
// options, which makes the item contribute nothing to the maximum.
func ParseOptions(optionsJSON string) []Option {
	if optionsJSON == "" {
		return nil
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(optionsJSON), &raw); err != nil {
		return nil
	}

	opts := make([]Option, 0, len(raw))
	for _, entry := range raw {
		opt := optionFrom(entry)
		if opt.Label == "" {
			continue
		}
		opts = append(opts, opt)
	}
	return opts
}

func optionFrom(entry map[string]any) Option {
	return Option{
		Label: firstString(entry, "label", "name"),
		Score: firstNumber(entry, "score", "value"),
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		v, present := m[k]
		if !present || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return finiteOrZero(n)
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return 0
			}
			return finiteOrZero(f)
		default:
			return 0
		}
	}
	return 0
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

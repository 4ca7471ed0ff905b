package consistency

import (
	"fmt"
	"io"
)

// Render writes a human-readable report: one block per differing field
// with its label, change type and both values.
func (r Report) Render(w io.Writer) error {
	if !r.HasDifferences {
		_, err := fmt.Fprintln(w, "Draft matches the last saved version.")
		return err
	}

	noun := "fields"
	if len(r.Details) == 1 {
		noun = "field"
	}
	if _, err := fmt.Fprintf(w, "Draft differs from the last saved version in %d %s:\n", len(r.Details), noun); err != nil {
		return err
	}

	for _, d := range r.Details {
		_, err := fmt.Fprintf(w, "\n  %s (%s): %s\n    current: %s\n    cached:  %s\n",
			FieldLabel(d.Field), d.Field, d.Type,
			FormatValue(d.CurrentValue),
			FormatValue(d.CachedValue),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Fields returns the names of the differing fields in report order.
func (r Report) Fields() []string {
	out := make([]string, len(r.Details))
	for i, d := range r.Details {
		out[i] = d.Field
	}
	return out
}

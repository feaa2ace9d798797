// Package report renders classification results and count comparisons as text. It holds
// no state: every function writes what it's given to the writer it's given.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kwertop/uniqstat/count"
	"github.com/kwertop/uniqstat/uniqueness"
)

// WriteClassifications writes one line per result:
//
//	Password 'admin123' - already used.
func WriteClassifications(w io.Writer, results []uniqueness.Result) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "Password '%s' - %s.\n", r.Value, r.Status); err != nil {
			return err
		}
	}
	return nil
}

// WriteComparison writes an aligned table of the exact and the estimated distinct
// counts and how long each took. It stops at the first failed write.
func WriteComparison(w io.Writer, c count.Comparison) error {
	if _, err := fmt.Fprintln(w, "Comparison Results:"); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 15, 0, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		format string
		args   []any
	}{
		{"\tExact Count\tHyperLogLog\t\n", nil},
		{"Unique Elements\t%.1f\t%.1f\t\n", []any{float64(c.Exact), c.Estimate}},
		{"Execution Time (sec)\t%.4f\t%.4f\t\n", []any{c.ExactElapsed.Seconds(), c.EstimateElapsed.Seconds()}},
		{"Relative Error (%%)\t\t%.2f\t\n", []any{100 * c.RelativeError()}},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, row.format, row.args...); err != nil {
			return err
		}
	}
	return tw.Flush()
}

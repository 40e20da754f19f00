// Package luck turns a player's recorded roll history into a statistical
// answer to "how lucky have I been?". Rolls are grouped by label into streams,
// each stream is scored against its expected success count, and the per-stream
// scores combine into a single verdict.
package luck

import (
	"fmt"
	"math"
	"sort"
)

// Roll is one recorded random outcome: the label of the draw, the success
// probability it was rolled against, and whether it succeeded.
type Roll struct {
	Label       string
	Probability float64
	Success     bool
}

// StreamStat is the aggregate for one roll label.
type StreamStat struct {
	Label     string
	Trials    int
	Successes int
	// Expected is the sum of success probabilities across trials.
	Expected float64
	// Z is the stream's standardized deviation from expectation.
	Z float64
}

// Report is the combined luck assessment across all streams.
type Report struct {
	// Streams holds per-label aggregates, sorted by label.
	Streams []StreamStat
	// Z is the Stouffer-combined score across streams.
	Z float64
	// Percentile is the probability, in [0, 100], of observing a result this
	// low or lower under fair randomness. 50 means dead average.
	Percentile float64
	// Verdict is the human-facing bucket: "very lucky", "lucky", "average",
	// "unlucky", or "very unlucky".
	Verdict string
	// Trials counts the eligible rolls that contributed to the report.
	Trials int
}

// Verdict thresholds in combined-Z units.
const (
	veryLuckyZ = 1.5
	luckyZ     = 0.5
)

// Summarize aggregates a roll history into a Report.
//
// Rolls with probability at 0 or 1 (or outside that range) carry no
// information and are excluded. Streams with no eligible rolls are dropped;
// an empty history yields an "average" report at percentile 50.
func Summarize(history []Roll) Report {
	type acc struct {
		trials    int
		successes int
		expected  float64
		variance  float64
	}
	byLabel := make(map[string]*acc)
	for _, r := range history {
		if r.Probability <= 0 || r.Probability >= 1 {
			continue
		}
		a := byLabel[r.Label]
		if a == nil {
			a = &acc{}
			byLabel[r.Label] = a
		}
		a.trials++
		if r.Success {
			a.successes++
		}
		a.expected += r.Probability
		a.variance += r.Probability * (1 - r.Probability)
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	report := Report{}
	var zSum float64
	for _, label := range labels {
		a := byLabel[label]
		if a.variance <= 0 {
			continue
		}
		z := (float64(a.successes) - a.expected) / math.Sqrt(a.variance)
		report.Streams = append(report.Streams, StreamStat{
			Label:     label,
			Trials:    a.trials,
			Successes: a.successes,
			Expected:  a.expected,
			Z:         z,
		})
		report.Trials += a.trials
		zSum += z
	}

	if len(report.Streams) > 0 {
		report.Z = zSum / math.Sqrt(float64(len(report.Streams)))
	}
	report.Percentile = percentile(report.Z)
	report.Verdict = verdict(report.Z)
	return report
}

// BuildSummary renders a one-line human-readable report.
func BuildSummary(history []Roll) string {
	r := Summarize(history)
	if r.Trials == 0 {
		return "luck: average (no informative rolls yet)"
	}
	return fmt.Sprintf("luck: %s (Z=%+.2f, percentile %.1f, %d rolls across %d streams)",
		r.Verdict, r.Z, r.Percentile, r.Trials, len(r.Streams))
}

// percentile converts a combined Z into the standard normal CDF, scaled to
// [0, 100].
func percentile(z float64) float64 {
	return 50 * (1 + math.Erf(z/math.Sqrt2))
}

// verdict buckets a combined Z into the five player-facing labels.
func verdict(z float64) string {
	switch {
	case z > veryLuckyZ:
		return "very lucky"
	case z > luckyZ:
		return "lucky"
	case z >= -luckyZ:
		return "average"
	case z >= -veryLuckyZ:
		return "unlucky"
	default:
		return "very unlucky"
	}
}

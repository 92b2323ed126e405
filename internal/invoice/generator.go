// Package invoice issues human-readable transaction identifiers of the form
// <PREFIX>-<n><ddmmyy>, unique per prefix per calendar day.
package invoice

import (
	"fmt"
	"strings"
	"time"
)

// Prefixes distinguish the entry channel so counters never collide across
// quick-entry and standard checkout.
const (
	PrefixQuick    = "QCK"
	PrefixCheckout = "INV"
)

// DatePart encodes the creation date as ddmmyy, each component zero-padded.
// 2025-01-05 becomes "050125".
func DatePart(t time.Time) string {
	return fmt.Sprintf("%02d%02d%02d", t.Day(), int(t.Month()), t.Year()%100)
}

// Format assembles an identifier from prefix, per-day counter, and date.
func Format(prefix string, n int, t time.Time) string {
	return fmt.Sprintf("%s-%d%s", prefix, n, DatePart(t))
}

// CountingGenerator derives the counter by counting existing identifiers that
// carry the prefix, mirroring how the ids were originally issued. The caller
// must supply the authoritative id list at generation time; two generations
// against the same stale snapshot produce the same id. Sequence is the
// collision-free replacement; this generator remains as the fallback when
// Redis is unavailable.
type CountingGenerator struct {
	Now func() time.Time
}

// Next derives the next identifier for the prefix from the existing ids.
func (g CountingGenerator) Next(prefix string, existing []string) string {
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	count := 0
	for _, id := range existing {
		if strings.HasPrefix(id, prefix+"-") {
			count++
		}
	}
	return Format(prefix, count+1, now)
}

package metric

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// FamilySnapshot is the point-in-time state of one metric family.
type FamilySnapshot struct {
	Descriptor
	Series []SeriesSnapshot
}

// SeriesSnapshot is one series' label values (in declared key order) and its
// value as of a single atomic read.
type SeriesSnapshot struct {
	LabelValues []string
	Value       float64
}

// Snapshot returns all families and their series in a deterministic order:
// families sorted by name, series sorted by label values. Each value is read
// atomically; cross-series consistency is not guaranteed.
func (r *Registry) Snapshot() []FamilySnapshot {
	r.mu.RLock()
	families := make([]*family, 0, len(r.families))
	for _, fam := range r.families {
		families = append(families, fam)
	}
	r.mu.RUnlock()

	sort.Slice(families, func(i, j int) bool {
		return families[i].desc.Name < families[j].desc.Name
	})

	out := make([]FamilySnapshot, 0, len(families))
	for _, fam := range families {
		fam.mu.RLock()
		snap := FamilySnapshot{
			Descriptor: fam.desc,
			Series:     make([]SeriesSnapshot, 0, len(fam.series)),
		}
		for _, s := range fam.series {
			snap.Series = append(snap.Series, SeriesSnapshot{
				LabelValues: s.labelValues,
				Value:       math.Float64frombits(s.bits.Load()),
			})
		}
		fam.mu.RUnlock()

		sort.Slice(snap.Series, func(i, j int) bool {
			return slices.Compare(snap.Series[i].LabelValues, snap.Series[j].LabelValues) < 0
		})
		out = append(out, snap)
	}

	return out
}

// Render produces the registry state in the Prometheus text exposition
// format: a HELP/TYPE pair per family followed by one line per series, label
// pairs in declared key order. Output is byte-deterministic for a fixed
// state. Render never mutates any series.
func (r *Registry) Render() string {
	var b strings.Builder

	for _, fam := range r.Snapshot() {
		b.WriteString("# HELP ")
		b.WriteString(fam.Name)
		b.WriteByte(' ')
		b.WriteString(escapeHelp(fam.Description))
		b.WriteByte('\n')

		b.WriteString("# TYPE ")
		b.WriteString(fam.Name)
		b.WriteByte(' ')
		b.WriteString(string(fam.Kind))
		b.WriteByte('\n')

		for _, s := range fam.Series {
			b.WriteString(fam.Name)
			writeLabels(&b, fam.LabelKeys, s.LabelValues)
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(s.Value, 'g', -1, 64))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func writeLabels(b *strings.Builder, keys, values []string) {
	if len(keys) == 0 {
		return
	}
	b.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(escapeLabelValue(values[i]))
		b.WriteByte('"')
	}
	b.WriteByte('}')
}

var (
	helpEscaper       = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	labelValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
)

func escapeHelp(s string) string {
	return helpEscaper.Replace(s)
}

func escapeLabelValue(s string) string {
	return labelValueEscaper.Replace(s)
}

package types

import "sort"

// LabelSet is a set of aggregate labels such as "Totals", "Subtotals" or
// "pct". Rows and columns whose keys carry one of these labels are treated
// as aggregates rather than data. The nil LabelSet is empty and read-only.
type LabelSet map[string]struct{}

// NewLabelSet returns a set holding the non-empty labels.
func NewLabelSet(labels ...string) LabelSet {
	s := make(LabelSet, len(labels))
	for _, l := range labels {
		if l != "" {
			s[l] = struct{}{}
		}
	}
	return s
}

// Has reports whether label is in the set.
func (s LabelSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Union returns a new set with the members of s and others.
func (s LabelSet) Union(others ...LabelSet) LabelSet {
	out := make(LabelSet, len(s))
	for l := range s {
		out[l] = struct{}{}
	}
	for _, o := range others {
		for l := range o {
			out[l] = struct{}{}
		}
	}
	return out
}

// With returns a new set with labels added. Empty labels are skipped.
func (s LabelSet) With(labels ...string) LabelSet {
	return s.Union(NewLabelSet(labels...))
}

// Sorted returns the members in lexical order.
func (s LabelSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Chain components.
const (
	ComponentTotals      = "totals"
	ComponentPercentages = "percentages"
)

// ChainState records, per component, the labels that later operations must
// ignore. Every engine operation copies it onto its result so chained calls
// never re-aggregate earlier aggregates. A nil ChainState is empty.
type ChainState map[string]LabelSet

// Labels returns the labels recorded for component. The result is never nil.
func (c ChainState) Labels(component string) LabelSet {
	if s, ok := c[component]; ok {
		return s.Union()
	}
	return LabelSet{}
}

// All returns the union of every component's labels.
func (c ChainState) All() LabelSet {
	out := LabelSet{}
	for _, s := range c {
		out = out.Union(s)
	}
	return out
}

// Merge returns a copy of c with labels unioned into component.
func (c ChainState) Merge(component string, labels LabelSet) ChainState {
	out := c.Clone()
	out[component] = out.Labels(component).Union(labels)
	return out
}

// Clone returns a deep copy.
func (c ChainState) Clone() ChainState {
	out := make(ChainState, len(c))
	for k, s := range c {
		out[k] = s.Union()
	}
	return out
}

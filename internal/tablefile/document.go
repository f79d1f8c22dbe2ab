package tablefile

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// ErrMalformed is returned when a document cannot be decoded.
var ErrMalformed = errors.New("malformed table document")

type document struct {
	RowNames []string            `json:"row_names,omitempty"`
	ColNames []string            `json:"col_names,omitempty"`
	Rows     []Labels            `json:"rows"`
	Cols     []Labels            `json:"cols"`
	Values   [][]*float64        `json:"values"`
	Chain    map[string][]string `json:"chain,omitempty"`
}

// Labels is a key as it appears in JSON: either "label" or ["a", "b"].
type Labels []string

func (k *Labels) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*k = Labels{s}
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("key must be a string or an array of strings: %w", err)
	}
	*k = parts
	return nil
}

// MarshalJSON writes a one-component key as a plain string.
func (k Labels) MarshalJSON() ([]byte, error) {
	if len(k) == 1 {
		return json.Marshal(k[0])
	}
	return json.Marshal([]string(k))
}

// Read decodes a table document.
func Read(r io.Reader) (*types.Table, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc.table()
}

// ReadFile decodes the table document at path.
func ReadFile(path string) (*types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	t, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

func (d document) table() (*types.Table, error) {
	rows, err := types.NewAxis(d.RowNames, toKeys(d.Rows)...)
	if err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	cols, err := types.NewAxis(d.ColNames, toKeys(d.Cols)...)
	if err != nil {
		return nil, fmt.Errorf("cols: %w", err)
	}
	values := make([][]float64, len(d.Values))
	for r, row := range d.Values {
		values[r] = make([]float64, len(row))
		for c, v := range row {
			if v == nil {
				values[r][c] = types.Missing()
			} else {
				values[r][c] = *v
			}
		}
	}
	t, err := types.NewTable(rows, cols, values)
	if err != nil {
		return nil, err
	}
	for component, labels := range d.Chain {
		t.Chain = t.Chain.Merge(component, types.NewLabelSet(labels...))
	}
	return t, nil
}

func toKeys(in []Labels) []types.Key {
	out := make([]types.Key, len(in))
	for i, k := range in {
		out[i] = types.Key(k)
	}
	return out
}

// Write encodes t as an indented document.
func Write(w io.Writer, t *types.Table) error {
	doc := document{
		RowNames: t.Rows.Names,
		ColNames: t.Cols.Names,
		Rows:     fromKeys(t.Rows.Keys),
		Cols:     fromKeys(t.Cols.Keys),
		Values:   make([][]*float64, len(t.Values)),
	}
	for r, row := range t.Values {
		doc.Values[r] = make([]*float64, len(row))
		for c, v := range row {
			if !types.IsMissing(v) {
				v := v
				doc.Values[r][c] = &v
			}
		}
	}
	if len(t.Chain) > 0 {
		doc.Chain = make(map[string][]string, len(t.Chain))
		components := make([]string, 0, len(t.Chain))
		for c := range t.Chain {
			components = append(components, c)
		}
		sort.Strings(components)
		for _, c := range components {
			doc.Chain[c] = t.Chain.Labels(c).Sorted()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func fromKeys(in []types.Key) []Labels {
	out := make([]Labels, len(in))
	for i, k := range in {
		out[i] = Labels(types.ToComponents(k))
	}
	return out
}

// WriteFile writes t to path atomically: the document goes to a temp file
// in the same directory, which is synced and then renamed over path.
func WriteFile(path string, t *types.Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".margins-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if err := Write(w, t); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing table: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

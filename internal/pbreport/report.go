package pbreport

import (
	"bytes"
	"encoding/json"
)

// Metadata summarizes how many files were processed, and how many of
// those were valid (empty errors namespace) vs. invalid.
type Metadata struct {
	Processed int `json:"processed"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
}

const cleanMessage = "File looks correct!"

// FileResult is the sum type "File looks correct!" | {errors, warnings}.
type FileResult struct {
	Clean    bool
	Errors   map[string]map[string]string
	Warnings map[string]map[string]string
}

// MarshalJSON renders the sentinel string when the file has no
// diagnostics at all, otherwise the errors/warnings object (omitting
// whichever namespace is empty).
func (r FileResult) MarshalJSON() ([]byte, error) {
	if r.Clean {
		return json.Marshal(cleanMessage)
	}
	obj := make(map[string]map[string]map[string]string, 2)
	if len(r.Errors) > 0 {
		obj["errors"] = r.Errors
	}
	if len(r.Warnings) > 0 {
		obj["warnings"] = r.Warnings
	}
	return json.Marshal(obj)
}

// FileEntry wraps a FileResult under the "results" key, per the external
// output contract.
type FileEntry struct {
	Results FileResult `json:"results"`
}

// Report is the global, cross-file validation result. It preserves the
// order files were added in when marshaled to JSON, matching the order
// files were supplied to the driver.
type Report struct {
	Metadata Metadata
	Summary  map[string]int

	order []string
	files map[string]FileEntry
}

// NewReport returns an empty report ready for files to be added.
func NewReport() *Report {
	return &Report{
		Summary: make(map[string]int),
		files:   make(map[string]FileEntry),
	}
}

// AddFile folds one file's diagnostics into the report: metadata counters,
// the global summary, and the file's own entry.
func (r *Report) AddFile(id string, b *Builder) {
	r.Metadata.Processed++
	if b.Valid() {
		r.Metadata.Valid++
	} else {
		r.Metadata.Invalid++
	}
	for typ, count := range b.TypeCounts() {
		r.Summary[typ] += count
	}
	if _, exists := r.files[id]; !exists {
		r.order = append(r.order, id)
	}
	r.files[id] = FileEntry{Results: b.Result()}
}

// File returns the entry recorded for id, if any.
func (r *Report) File(id string) (FileEntry, bool) {
	e, ok := r.files[id]
	return e, ok
}

// FileIDs returns file identifiers in the order they were added.
func (r *Report) FileIDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// MarshalJSON writes metadata, then summary, then each file entry in
// insertion order, matching the external interface's flat object shape.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(first bool, key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(valBytes)
		return nil
	}

	if err := writeField(true, "metadata", r.Metadata); err != nil {
		return nil, err
	}
	if err := writeField(false, "summary", r.Summary); err != nil {
		return nil, err
	}
	for _, id := range r.order {
		if err := writeField(false, id, r.files[id]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

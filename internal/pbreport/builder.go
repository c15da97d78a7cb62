package pbreport

import "strconv"

// Builder accumulates diagnostics for a single file, assigning each
// diagnostic type its own monotone counter starting at 1.
type Builder struct {
	counters map[string]int
	errors   map[string]map[string]string
	warnings map[string]map[string]string
}

// NewBuilder returns an empty per-file diagnostic builder.
func NewBuilder() *Builder {
	return &Builder{
		counters: make(map[string]int),
		errors:   make(map[string]map[string]string),
		warnings: make(map[string]map[string]string),
	}
}

// Add records a single diagnostic under its type's next counter value.
func (b *Builder) Add(d Diagnostic) {
	b.counters[d.Type]++
	key := strconv.Itoa(b.counters[d.Type])

	bucket := b.errors
	if d.Level == LevelWarning {
		bucket = b.warnings
	}
	if bucket[d.Type] == nil {
		bucket[d.Type] = make(map[string]string)
	}
	bucket[d.Type][key] = d.Message
}

// AddAll records every diagnostic in ds, in order.
func (b *Builder) AddAll(ds []Diagnostic) {
	for _, d := range ds {
		b.Add(d)
	}
}

// Valid reports whether no error-level diagnostic was recorded.
func (b *Builder) Valid() bool {
	return len(b.errors) == 0
}

// Clean reports whether neither errors nor warnings were recorded.
func (b *Builder) Clean() bool {
	return len(b.errors) == 0 && len(b.warnings) == 0
}

// Result renders the builder's contents as the per-file result value.
func (b *Builder) Result() FileResult {
	return FileResult{
		Clean:    b.Clean(),
		Errors:   b.errors,
		Warnings: b.warnings,
	}
}

// TypeCounts returns, for every diagnostic type recorded (errors and
// warnings alike), the number of entries under that type.
func (b *Builder) TypeCounts() map[string]int {
	counts := make(map[string]int)
	for typ, m := range b.errors {
		counts[typ] += len(m)
	}
	for typ, m := range b.warnings {
		counts[typ] += len(m)
	}
	return counts
}

// Package mapping converts property store items into resource documents and
// applies resource documents back onto items.
//
// A Table binds one resource kind to two ordered field lists: the read list
// (every field the document shows, including derived and read-only ones)
// and the write list (the fields a client may set). Tables are built once at
// startup and are read-only afterwards, so one Table serves any number of
// concurrent requests.
package mapping

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// Field is an external field name of a resource document.
type Field string

// FieldODataType carries the resource type marker on every document.
const FieldODataType Field = "@odata.type"

// Reader extracts one field from an item. It returns nil when the underlying
// property is absent and never mutates the item.
type Reader func(item types.Item) any

// Writer applies one input value to an item.
type Writer func(item types.Item, v any) error

// ReadEntry is one row of the read list.
type ReadEntry struct {
	Field Field
	Read  Reader
}

// WriteEntry is one row of the write list. A Composite entry spans several
// tags; when its input has the wrong shape the field is skipped and the rest
// of the write proceeds.
type WriteEntry struct {
	Field     Field
	Write     Writer
	Composite bool
}

// Boundary errors returned by writers. Apply turns them into
// *types.ValidationError carrying the field name.
var (
	ErrInvalidShape  = errors.New("unexpected value shape")
	ErrInvalidFormat = errors.New("invalid format")
)

// Table construction errors.
var (
	ErrDuplicateField  = errors.New("duplicate field")
	ErrUnreadableField = errors.New("writable field missing from read list")
	ErrNilFunc         = errors.New("nil mapping function")
)

// Table is the field mapping of one resource kind.
type Table struct {
	kind   string
	marker string
	reads  []ReadEntry
	writes []WriteEntry
	logger hclog.Logger
}

// NewTable validates and builds a Table. Every write field must appear in the
// read list; the converse need not hold.
func NewTable(kind, marker string, reads []ReadEntry, writes []WriteEntry, logger hclog.Logger) (*Table, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	readable := make(map[Field]bool, len(reads))
	for _, e := range reads {
		if e.Read == nil {
			return nil, fmt.Errorf("%w: read %s", ErrNilFunc, e.Field)
		}
		if readable[e.Field] || e.Field == FieldODataType {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, e.Field)
		}
		readable[e.Field] = true
	}
	writable := make(map[Field]bool, len(writes))
	for _, e := range writes {
		if e.Write == nil {
			return nil, fmt.Errorf("%w: write %s", ErrNilFunc, e.Field)
		}
		if writable[e.Field] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, e.Field)
		}
		if !readable[e.Field] {
			return nil, fmt.Errorf("%w: %s", ErrUnreadableField, e.Field)
		}
		writable[e.Field] = true
	}

	return &Table{
		kind:   kind,
		marker: marker,
		reads:  append([]ReadEntry(nil), reads...),
		writes: append([]WriteEntry(nil), writes...),
		logger: logger.Named("mapping").With("kind", kind),
	}, nil
}

// Kind returns the resource kind name.
func (t *Table) Kind() string { return t.kind }

// Marker returns the type marker placed in FieldODataType.
func (t *Table) Marker() string { return t.marker }

// Fields returns the read list field names in declaration order.
func (t *Table) Fields() []Field {
	fields := make([]Field, len(t.reads))
	for i, e := range t.reads {
		fields[i] = e.Field
	}
	return fields
}

// Writable reports whether f is in the write list.
func (t *Table) Writable(f Field) bool {
	for _, e := range t.writes {
		if e.Field == f {
			return true
		}
	}
	return false
}

// Render builds the document for item. The document holds the type marker
// and exactly the read list's fields; absent properties render as nil.
func (t *Table) Render(item types.Item) types.Document {
	doc := make(types.Document, len(t.reads)+1)
	doc[string(FieldODataType)] = t.marker
	for _, e := range t.reads {
		doc[string(e.Field)] = e.Read(item)
	}
	return doc
}

// Apply writes every field present in both input and the write list onto
// item, in write list order. Input fields without a write entry are ignored.
//
// A composite field whose input has the wrong shape is logged and skipped.
// Any other error stops the write and is returned; the item may then hold
// some of the earlier fields, so callers must not commit it.
func (t *Table) Apply(item types.Item, input types.Document) error {
	var skipped *multierror.Error
	for _, e := range t.writes {
		v, ok := input[string(e.Field)]
		if !ok {
			continue
		}
		err := e.Write(item, v)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrInvalidShape) || errors.Is(err, ErrInvalidFormat) {
			err = &types.ValidationError{Field: string(e.Field), Err: err}
			if e.Composite {
				skipped = multierror.Append(skipped, err)
				continue
			}
		}
		return fmt.Errorf("apply %s: %w", e.Field, err)
	}
	if skipped != nil {
		t.logger.Error("skipped composite fields", "count", len(skipped.Errors), "error", skipped)
	}
	return nil
}

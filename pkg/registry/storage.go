package registry

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/tweak/pkg/domain"
	"github.com/aretw0/tweak/pkg/ports"
)

// TagName is the struct tag that overrides a field's label. "-" skips the field.
const TagName = "tweak"

// Storage is the heap allocation a cell guards: one record (group scope) or
// one scalar (variable scope), exposed as addressable fields.
type Storage struct {
	ptr    reflect.Value
	fields []*Field
}

// Field is one tweak variable inside a Storage. It implements ports.Value and
// must only be used while the owning cell is held.
type Field struct {
	name string
	kind domain.Kind
	v    reflect.Value
}

var _ ports.Value = (*Field)(nil)

// NewRecord builds storage over ptr, which must point to a struct whose
// exported fields are all numeric (or tagged `tweak:"-"`).
// Unexported fields are ignored.
func NewRecord(ptr any) (*Storage, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: record must be a non-nil pointer to a struct, got %T", domain.ErrUnsupportedType, ptr)
	}

	rec := v.Elem()
	typ := rec.Type()
	s := &Storage{ptr: v}

	var errs []error
	seen := make(map[string]bool)
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		label := domain.SnakeCase(sf.Name)
		if tag, ok := sf.Tag.Lookup(TagName); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				label = tag
			}
		}

		kind := domain.KindOf(sf.Type)
		switch {
		case !kind.Valid():
			errs = append(errs, &domain.ValidationError{
				Key:    typ.Name() + "." + sf.Name,
				Reason: fmt.Sprintf("%s is not an integer or floating-point type", sf.Type),
				Err:    domain.ErrUnsupportedType,
			})
			continue
		case !domain.ValidIdentifier(label):
			errs = append(errs, &domain.ValidationError{
				Key:    typ.Name() + "." + sf.Name,
				Reason: fmt.Sprintf("label %q is not an identifier", label),
				Err:    domain.ErrInvalidIdentifier,
			})
			continue
		case seen[label]:
			errs = append(errs, &domain.ValidationError{
				Key:    typ.Name() + "." + sf.Name,
				Reason: fmt.Sprintf("label %q declared twice", label),
				Err:    domain.ErrDuplicateIdentifier,
			})
			continue
		}
		seen[label] = true
		s.fields = append(s.fields, &Field{name: label, kind: kind, v: rec.Field(i)})
	}

	if len(errs) > 0 {
		return nil, domain.Join(errs)
	}
	if len(s.fields) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyGroup, typ)
	}
	return s, nil
}

// NewScalar builds single-field storage over ptr, labelled name.
func NewScalar(name string, ptr any) (*Storage, error) {
	if !domain.ValidIdentifier(name) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidIdentifier, name)
	}
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, fmt.Errorf("%w: scalar must be a non-nil pointer, got %T", domain.ErrUnsupportedType, ptr)
	}
	kind := domain.KindOf(v.Elem().Type())
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s is not an integer or floating-point type", domain.ErrUnsupportedType, v.Elem().Type())
	}
	return &Storage{
		ptr:    v,
		fields: []*Field{{name: name, kind: kind, v: v.Elem()}},
	}, nil
}

// Interface returns the pointer the storage was built over.
func (s *Storage) Interface() any {
	return s.ptr.Interface()
}

// Type returns the type of the stored record or scalar.
func (s *Storage) Type() reflect.Type {
	return s.ptr.Type().Elem()
}

// Fields returns the variables in declaration order.
func (s *Storage) Fields() []*Field {
	return s.fields
}

// Field returns the variable with the given label.
func (s *Storage) Field(label string) (*Field, bool) {
	for _, f := range s.fields {
		if f.name == label {
			return f, true
		}
	}
	return nil, false
}

// Labels returns the field labels in declaration order.
func (s *Storage) Labels() []string {
	labels := make([]string, len(s.fields))
	for i, f := range s.fields {
		labels[i] = f.name
	}
	return labels
}

// Name returns the label shown next to the field's control.
func (f *Field) Name() string {
	return f.name
}

// Kind returns the numeric kind of the field.
func (f *Field) Kind() domain.Kind {
	return f.kind
}

// Float64 returns the current value.
func (f *Field) Float64() float64 {
	switch {
	case f.kind.IsSigned():
		return float64(f.v.Int())
	case f.kind.IsUnsigned():
		return float64(f.v.Uint())
	default:
		return f.v.Float()
	}
}

// SetFloat64 stores x rounded and clamped to the field's kind. NaN is ignored.
func (f *Field) SetFloat64(x float64) {
	x, ok := f.kind.Clamp(x)
	if !ok {
		return
	}
	switch {
	case f.kind.IsSigned():
		// 2^63 is not representable as int64; the clamp lands on it for 64-bit kinds.
		if x >= math.MaxInt64 {
			f.v.SetInt(math.MaxInt64)
			return
		}
		f.v.SetInt(int64(x))
	case f.kind.IsUnsigned():
		if x >= math.MaxUint64 {
			f.v.SetUint(math.MaxUint64)
			return
		}
		f.v.SetUint(uint64(x))
	default:
		f.v.SetFloat(x)
	}
}

// SetLiteral stores a Go literal ("42", "0x10", "1.5") parsed directly as the
// field's kind, so 64-bit integers keep every digit.
func (f *Field) SetLiteral(s string) error {
	s = strings.TrimSpace(s)
	bits := f.kind.Bits()
	switch {
	case f.kind.IsSigned():
		n, err := strconv.ParseInt(s, 0, bits)
		if err != nil {
			return fmt.Errorf("%w: %q does not fit %s", domain.ErrInvalidLiteral, s, f.kind)
		}
		f.v.SetInt(n)
	case f.kind.IsUnsigned():
		n, err := strconv.ParseUint(s, 0, bits)
		if err != nil {
			return fmt.Errorf("%w: %q does not fit %s", domain.ErrInvalidLiteral, s, f.kind)
		}
		f.v.SetUint(n)
	default:
		x, err := strconv.ParseFloat(s, bits)
		if err != nil || math.IsInf(x, 0) || math.IsNaN(x) {
			return fmt.Errorf("%w: %q does not fit %s", domain.ErrInvalidLiteral, s, f.kind)
		}
		f.v.SetFloat(x)
	}
	return nil
}

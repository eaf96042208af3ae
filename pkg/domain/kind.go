package domain

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Numeric is the set of Go types a tweak variable may hold.
// uintptr satisfies the constraint but is rejected at declaration time.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// Kind identifies the numeric kind of a tweak variable.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindInt:     "int",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint:    "uint",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

// shortKinds maps the short spellings accepted in declaration files.
var shortKinds = map[string]Kind{
	"isize": KindInt,
	"i8":    KindInt8,
	"i16":   KindInt16,
	"i32":   KindInt32,
	"i64":   KindInt64,
	"usize": KindUint,
	"u8":    KindUint8,
	"u16":   KindUint16,
	"u32":   KindUint32,
	"u64":   KindUint64,
	"f32":   KindFloat32,
	"f64":   KindFloat64,
	"byte":  KindUint8,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText encodes the kind by its Go type name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts anything ParseKind accepts.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind resolves a Go type name ("float32") or a short name ("f32").
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if k, ok := shortKinds[s]; ok {
		return k, nil
	}
	for k, name := range kindNames {
		if k != int(KindInvalid) && name == s {
			return Kind(k), nil
		}
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
}

// KindOf maps a reflected type to its Kind, or KindInvalid.
func KindOf(t reflect.Type) Kind {
	if t == nil {
		return KindInvalid
	}
	switch t.Kind() {
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	}
	return KindInvalid
}

var kindTypes = [...]reflect.Type{
	KindInt:     reflect.TypeFor[int](),
	KindInt8:    reflect.TypeFor[int8](),
	KindInt16:   reflect.TypeFor[int16](),
	KindInt32:   reflect.TypeFor[int32](),
	KindInt64:   reflect.TypeFor[int64](),
	KindUint:    reflect.TypeFor[uint](),
	KindUint8:   reflect.TypeFor[uint8](),
	KindUint16:  reflect.TypeFor[uint16](),
	KindUint32:  reflect.TypeFor[uint32](),
	KindUint64:  reflect.TypeFor[uint64](),
	KindFloat32: reflect.TypeFor[float32](),
	KindFloat64: reflect.TypeFor[float64](),
}

// Type returns the Go type of k, or nil for an invalid kind.
func (k Kind) Type() reflect.Type {
	if !k.Valid() {
		return nil
	}
	return kindTypes[k]
}

// Valid reports whether k is a usable kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && k <= KindFloat64
}

// IsFloat reports whether k is a floating-point kind.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool {
	return k >= KindInt && k <= KindInt64
}

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool {
	return k >= KindUint && k <= KindUint64
}

// Bits returns the storage size of the kind.
func (k Kind) Bits() int {
	switch k {
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
	return 0
}

// Range returns the smallest and largest values representable by k.
func (k Kind) Range() (lo, hi float64) {
	bits := k.Bits()
	switch {
	case k.IsSigned():
		return -math.Ldexp(1, bits-1), math.Ldexp(1, bits-1) - 1
	case k.IsUnsigned():
		return 0, math.Ldexp(1, bits) - 1
	case k == KindFloat32:
		return -math.MaxFloat32, math.MaxFloat32
	case k == KindFloat64:
		return -math.MaxFloat64, math.MaxFloat64
	}
	return 0, 0
}

// Clamp converts f to the nearest value representable by k: integers are
// rounded half away from zero and every kind is clamped to its range.
// NaN is rejected with ok=false.
func (k Kind) Clamp(f float64) (v float64, ok bool) {
	if math.IsNaN(f) || !k.Valid() {
		return 0, false
	}
	if !k.IsFloat() {
		f = math.Round(f)
	}
	lo, hi := k.Range()
	return math.Max(lo, math.Min(hi, f)), true
}

// ParseLiteral parses a literal (Go syntax, including 0x and _ separators)
// and checks it fits k.
func (k Kind) ParseLiteral(s string) (float64, error) {
	lit, err := k.FormatLiteral(s)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(lit, 64)
}

// FormatLiteral checks s fits k and returns it in canonical Go form:
// decimal for integers, shortest round-tripping form for floats.
func (k Kind) FormatLiteral(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch {
	case k.IsSigned():
		n, err := strconv.ParseInt(s, 0, k.Bits())
		if err != nil {
			return "", fmt.Errorf("%w: %q does not fit %s", ErrInvalidLiteral, s, k)
		}
		return strconv.FormatInt(n, 10), nil
	case k.IsUnsigned():
		n, err := strconv.ParseUint(s, 0, k.Bits())
		if err != nil {
			return "", fmt.Errorf("%w: %q does not fit %s", ErrInvalidLiteral, s, k)
		}
		return strconv.FormatUint(n, 10), nil
	case k.IsFloat():
		f, err := strconv.ParseFloat(s, k.Bits())
		if err != nil {
			return "", fmt.Errorf("%w: %q does not fit %s", ErrInvalidLiteral, s, k)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "", fmt.Errorf("%w: %q is not finite", ErrInvalidLiteral, s)
		}
		return strconv.FormatFloat(f, 'g', -1, k.Bits()), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, k)
}

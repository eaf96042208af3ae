package domain

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"f32", KindFloat32},
		{"float64", KindFloat64},
		{" i16 ", KindInt16},
		{"usize", KindUint},
		{"u8", KindUint8},
		{"byte", KindUint8},
		{"int", KindInt},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseKind("string")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	_, err = ParseKind("invalid")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindFloat32, KindOf(reflect.TypeOf(float32(0))))
	assert.Equal(t, KindUint64, KindOf(reflect.TypeOf(uint64(0))))
	assert.Equal(t, KindInvalid, KindOf(reflect.TypeOf("")))
	assert.Equal(t, KindInvalid, KindOf(reflect.TypeOf(uintptr(0))))
	assert.Equal(t, KindInvalid, KindOf(nil))

	type meters float64
	assert.Equal(t, KindFloat64, KindOf(reflect.TypeOf(meters(0))), "named types use their underlying kind")
}

func TestKind_Clamp(t *testing.T) {
	v, ok := KindUint8.Clamp(300)
	assert.True(t, ok)
	assert.Equal(t, 255.0, v)

	v, _ = KindUint8.Clamp(-4)
	assert.Equal(t, 0.0, v)

	v, _ = KindInt8.Clamp(-200)
	assert.Equal(t, -128.0, v)

	v, _ = KindInt32.Clamp(2.5)
	assert.Equal(t, 3.0, v, "integers round half away from zero")

	v, _ = KindFloat64.Clamp(2.5)
	assert.Equal(t, 2.5, v)

	v, _ = KindFloat32.Clamp(math.Inf(1))
	assert.Equal(t, float64(math.MaxFloat32), v)

	_, ok = KindFloat32.Clamp(math.NaN())
	assert.False(t, ok)
}

func TestKind_ParseLiteral(t *testing.T) {
	f, err := KindFloat32.ParseLiteral("0.")
	require.NoError(t, err)
	assert.Equal(t, 0.0, f)

	f, err = KindInt.ParseLiteral("1_000")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, f)

	f, err = KindUint16.ParseLiteral("0xff")
	require.NoError(t, err)
	assert.Equal(t, 255.0, f)

	_, err = KindUint8.ParseLiteral("256")
	assert.Error(t, err)

	_, err = KindUint8.ParseLiteral("-1")
	assert.Error(t, err)

	_, err = KindInt32.ParseLiteral("1.5")
	assert.Error(t, err)

	_, err = KindFloat64.ParseLiteral("NaN")
	assert.ErrorIs(t, err, ErrInvalidLiteral)
}

func TestKind_FormatLiteral(t *testing.T) {
	tests := []struct {
		kind Kind
		in   string
		want string
	}{
		{KindFloat32, "0.0", "0"},
		{KindFloat32, "0.1", "0.1"},
		{KindFloat64, "1e21", "1e+21"},
		{KindInt64, "9007199254740993", "9007199254740993"},
		{KindUint8, "0xff", "255"},
		{KindInt, " -1_000 ", "-1000"},
	}
	for _, tt := range tests {
		got, err := tt.kind.FormatLiteral(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := KindFloat32.FormatLiteral("1e39")
	assert.ErrorIs(t, err, ErrInvalidLiteral)
	_, err = KindInvalid.FormatLiteral("1")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestKind_TextRoundTrip(t *testing.T) {
	text, err := KindInt16.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "int16", string(text))

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("f64")))
	assert.Equal(t, KindFloat64, k)
}

func TestKind_Type(t *testing.T) {
	for k := KindInt; k <= KindFloat64; k++ {
		assert.Equal(t, k, KindOf(k.Type()), k.String())
	}
	assert.Nil(t, KindInvalid.Type())
}

// Package dtypes defines the DType enum for the data types supported by the
// runtime, along with converters to/from Go native types and size helpers.
//
// The numeric values match the serialized graph schema, so they must not be
// reordered. Float16 is backed by github.com/x448/float16 on the Go side.
package dtypes

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// panicf panics with the formatted description.
//
// It is only used for "bugs in the code" -- when parameters don't follow the
// specifications. In principle, it should never happen -- the same way
// nil-pointer panics should never happen.
func panicf(format string, args ...any) {
	panic(errors.Errorf(format, args...))
}

// DType is an enum representing the data type of a tensor element.
//
// The values are fixed by the graph serialization schema.
type DType int32

const (
	// InvalidDType serves as the zero default; no tensor carries it.
	InvalidDType DType = 0

	// Float32 is IEEE-754 single precision, the default operator data type.
	Float32 DType = 1

	// Uint8 holds quantized 8-bit unsigned values.
	Uint8 DType = 2

	// Float16 is IEEE-754 half precision. CPU kernels are not built for it;
	// see the registry's downgrade rule.
	Float16 DType = 3

	// Int8 holds quantized 8-bit signed values.
	Int8 DType = 4

	// Int32 is used for index-like tensors.
	Int32 DType = 5

	// Float64 is IEEE-754 double precision.
	Float64 DType = 6

	// Bool is a two-state predicate.
	Bool DType = 7
)

// Short aliases, following the serialized schema's names.
const (
	Half  = Float16
	Float = Float32
)

// MapOfNames maps names (and aliases) to their dtypes.
// It is extended in init with the lower-case version of each name.
var MapOfNames = map[string]DType{
	"InvalidDType": InvalidDType,
	"Float32":      Float32,
	"Float":        Float32,
	"Uint8":        Uint8,
	"Float16":      Float16,
	"Half":         Float16,
	"Int8":         Int8,
	"Int32":        Int32,
	"Float64":      Float64,
	"Bool":         Bool,
}

func init() {
	// Add a mapping to the lower-case version of the names.
	keys := make([]string, 0, len(MapOfNames))
	for key := range MapOfNames {
		keys = append(keys, key)
	}
	for _, key := range keys {
		lowerKey := strings.ToLower(key)
		if lowerKey == key {
			continue
		}
		if _, found := MapOfNames[lowerKey]; found {
			continue
		}
		MapOfNames[lowerKey] = MapOfNames[key]
	}
}

// String implements fmt.Stringer. The returned names are the canonical ones
// used in dispatch keys, so they must stay stable.
func (dtype DType) String() string {
	switch dtype {
	case InvalidDType:
		return "InvalidDType"
	case Float32:
		return "Float32"
	case Uint8:
		return "Uint8"
	case Float16:
		return "Float16"
	case Int8:
		return "Int8"
	case Int32:
		return "Int32"
	case Float64:
		return "Float64"
	case Bool:
		return "Bool"
	}
	return "UnknownDType"
}

// Supported lists the Go types this package knows how to convert.
// Used as traits for generics.
type Supported interface {
	bool | float16.Float16 | float32 | float64 | uint8 | int8 | int32
}

// FromGenericsType returns the DType enum for the given Go type parameter.
func FromGenericsType[T Supported]() DType {
	var t T
	switch (any(t)).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case float16.Float16:
		return Float16
	case uint8:
		return Uint8
	case int8:
		return Int8
	case int32:
		return Int32
	case bool:
		return Bool
	}
	return InvalidDType
}

// Pre-generated reflect.Type for the non-native element type.
var float16Type = reflect.TypeOf(float16.Float16(0))

// FromGoType returns the DType for the given reflect.Type, or InvalidDType
// when the type has no corresponding dtype.
func FromGoType(t reflect.Type) DType {
	if t == float16Type {
		return Float16
	}
	switch t.Kind() {
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.Uint8:
		return Uint8
	case reflect.Int8:
		return Int8
	case reflect.Int32:
		return Int32
	case reflect.Bool:
		return Bool
	default:
		return InvalidDType
	}
}

// GoType returns the Go reflect.Type corresponding to the tensor DType.
// It panics for unknown DType values.
func (dtype DType) GoType() reflect.Type {
	switch dtype {
	case Float32:
		return reflect.TypeOf(float32(0))
	case Float64:
		return reflect.TypeOf(float64(0))
	case Float16:
		return float16Type
	case Uint8:
		return reflect.TypeOf(uint8(0))
	case Int8:
		return reflect.TypeOf(int8(0))
	case Int32:
		return reflect.TypeOf(int32(0))
	case Bool:
		return reflect.TypeOf(true)
	}
	panicf("unknown dtype %q (%d) in DType.GoType", dtype, int32(dtype))
	panic(nil)
}

// Size returns the number of bytes of one element of the given DType.
func (dtype DType) Size() int {
	return int(dtype.GoType().Size())
}

// IsFloat returns whether dtype is one of the floating-point types.
func (dtype DType) IsFloat() bool {
	return dtype == Float32 || dtype == Float64 || dtype == Float16
}

// IsQuantized returns whether dtype is one of the 8-bit quantized types.
func (dtype DType) IsQuantized() bool {
	return dtype == Uint8 || dtype == Int8
}

// IsSupported returns whether dtype is one of the types tensors can hold.
func (dtype DType) IsSupported() bool {
	return dtype == Float32 || dtype == Float64 || dtype == Float16 ||
		dtype == Uint8 || dtype == Int8 || dtype == Int32 || dtype == Bool
}

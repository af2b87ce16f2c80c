// Package shapes defines the Shape value type used for tensor dimensions.
//
// A Shape here is only the list of dimensions: the element data type lives
// separately in github.com/bairuiworld/mace/types/dtypes, since graph
// definitions declare output shapes and output data types independently.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a tensor.
//   - Axis: the index of a dimension. Axis 0 is the outermost.
//   - Dimension: the size of a tensor along one axis.
package shapes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
)

// Shape represents the dimensions of either a concrete tensor or the
// statically configured shape declared for an operator output.
//
// Use Make to create a new shape.
type Shape struct {
	Dimensions []int
}

// Make returns a Shape with the given dimensions.
// A dimension <= 0 is invalid and panics.
func Make(dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions)}
	for _, dim := range dimensions {
		if dim <= 0 {
			exceptions.Panicf("shapes.Make(%s): cannot create a shape with an axis with dimension <= 0", s)
		}
	}
	return s
}

// Scalar returns the rank-0 shape.
func Scalar() Shape { return Shape{} }

// Rank of the shape, that is, the number of dimensions.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape has no dimensions.
func (s Shape) IsScalar() bool { return s.Rank() == 0 }

// Dim returns the dimension of the given axis. axis can take negative
// numbers, in which case it counts from the end -- so axis=-1 refers to the
// last axis. It panics for an out-of-bound axis.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if axis < 0 {
		adjustedAxis = s.Rank() + axis
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		exceptions.Panicf("shape %s has no axis %d", s, axis)
	}
	return s.Dimensions[adjustedAxis]
}

// NumElements returns the number of elements a tensor of this shape holds,
// the product of all dimensions. A scalar holds one element.
func (s Shape) NumElements() int {
	size := 1
	for _, dim := range s.Dimensions {
		size *= dim
	}
	return size
}

// Clone makes a deep copy of the shape.
func (s Shape) Clone() Shape {
	return Shape{Dimensions: slices.Clone(s.Dimensions)}
}

// Eq compares two shapes for equality of rank and dimensions.
func (s Shape) Eq(other Shape) bool {
	return slices.Equal(s.Dimensions, other.Dimensions)
}

// String implements fmt.Stringer, e.g. "[2 3 4]".
func (s Shape) String() string {
	parts := make([]string, 0, s.Rank())
	for _, dim := range s.Dimensions {
		parts = append(parts, fmt.Sprintf("%d", dim))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

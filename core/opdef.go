// Package core implements the operator registration and dispatch engine: the
// resolution of a graph node's declarative definition to a concrete kernel
// factory selected by (operator type, device, data type), the device
// placement policy consulted before that choice, and the binding of the
// created operation to the live tensors it reads and writes.
//
// It deliberately stops there: it does not optimize graphs, schedule
// execution, or implement numeric kernels. Violated invariants -- duplicate
// registration keys, unregistered operator types, unsatisfiable dispatch
// keys, malformed graphs at bind time -- indicate programming errors or
// broken models and are reported by panic with a stack trace, following
// package github.com/gomlx/exceptions.
package core

import (
	"github.com/bairuiworld/mace/types/dtypes"
	"github.com/bairuiworld/mace/types/shapes"
)

// TypeArgName is the reserved attribute holding an operator's primary data
// type, as a dtypes.DType integer. Absent, it defaults to dtypes.Float32.
const TypeArgName = "T"

// Arg is one named attribute of an operator definition. Which of the value
// fields is meaningful is a convention between graph producer and kernel;
// the typed accessors on OperatorDef pick the matching field.
type Arg struct {
	Name   string
	I      int64
	F      float32
	S      string
	Ints   []int64
	Floats []float32
}

// OperatorDef is the declarative description of one computation-graph node,
// as produced by the graph loader.
//
// It is shared: several construct contexts may inspect the same definition
// while candidate devices are evaluated, before one is committed. Hold it by
// pointer. The registry may rewrite the "T" attribute in place when
// down-casting an unsupported data type for a chosen device, and that rewrite
// is visible to every holder.
type OperatorDef struct {
	Name string
	Type string

	// Input and Output are the ordered tensor names this operator reads and
	// writes.
	Input  []string
	Output []string

	// OutputType optionally declares one data type per output. Empty means
	// every output uses the operator's primary data type. A non-empty list
	// must match len(Output).
	OutputType []dtypes.DType

	// OutputShape optionally declares the statically configured shape of
	// each output, used by placement policies and advisory sizing.
	OutputShape []shapes.Shape

	Args []Arg
}

// Arg returns the named attribute and whether it is present.
func (def *OperatorDef) Arg(name string) (*Arg, bool) {
	for i := range def.Args {
		if def.Args[i].Name == name {
			return &def.Args[i], true
		}
	}
	return nil, false
}

// IntArg returns the integer value of the named attribute, or defaultValue
// when the attribute is absent.
func (def *OperatorDef) IntArg(name string, defaultValue int64) int64 {
	if arg, found := def.Arg(name); found {
		return arg.I
	}
	return defaultValue
}

// FloatArg returns the float value of the named attribute, or defaultValue
// when the attribute is absent.
func (def *OperatorDef) FloatArg(name string, defaultValue float32) float32 {
	if arg, found := def.Arg(name); found {
		return arg.F
	}
	return defaultValue
}

// StringArg returns the string value of the named attribute, or defaultValue
// when the attribute is absent.
func (def *OperatorDef) StringArg(name string, defaultValue string) string {
	if arg, found := def.Arg(name); found {
		return arg.S
	}
	return defaultValue
}

// SetIntArg rewrites the integer value of every existing attribute with the
// given name. Absent attributes are left absent: the caller keeps the
// "absent means default" semantics.
func (def *OperatorDef) SetIntArg(name string, value int64) {
	for i := range def.Args {
		if def.Args[i].Name == name {
			def.Args[i].I = value
		}
	}
}

// DataType resolves the operator's primary data type from the "T" attribute,
// defaulting to Float32 when absent.
func (def *OperatorDef) DataType() dtypes.DType {
	return dtypes.DType(def.IntArg(TypeArgName, int64(dtypes.Float32)))
}

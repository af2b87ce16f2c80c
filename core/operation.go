package core

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Operation is an instantiated operator: created by a registered factory,
// bound to its tensors exactly once via Init, then executable via Run for
// the lifetime of the graph.
//
// Kernel implementations embed BaseOperation, which provides the binding
// logic and the definition/tensor accessors.
type Operation interface {
	// Init resolves the operator's declared input and output names against
	// the workspace. A missing input or an inconsistent output declaration
	// means the graph is malformed and panics; the returned error is nil on
	// the only reachable outcome.
	Init(ctx *InitContext) error

	// Run executes the kernel on its bound tensors.
	Run(ctx *RunContext) error
}

// BaseOperation holds the state every operation shares: its definition and,
// after Init, the resolved input and output tensors.
type BaseOperation struct {
	def     *OperatorDef
	inputs  []*Tensor
	outputs []*Tensor
}

// NewBaseOperation captures the pending definition from the construct
// context. Factories call this first and embed the result.
func NewBaseOperation(ctx *ConstructContext) BaseOperation {
	return BaseOperation{def: ctx.OperatorDef()}
}

// Def returns the definition this operation was created from.
func (op *BaseOperation) Def() *OperatorDef { return op.def }

// Input returns the i-th bound input tensor. Only valid after Init.
func (op *BaseOperation) Input(i int) *Tensor { return op.inputs[i] }

// Inputs returns all bound input tensors. Only valid after Init.
func (op *BaseOperation) Inputs() []*Tensor { return op.inputs }

// Output returns the i-th bound output tensor. Only valid after Init.
func (op *BaseOperation) Output(i int) *Tensor { return op.outputs[i] }

// Outputs returns all bound output tensors. Only valid after Init.
func (op *BaseOperation) Outputs() []*Tensor { return op.outputs }

// Init binds the operation to live tensors:
//
//   - every declared input must already exist in the workspace;
//   - outputs are reused when the name exists (shared outputs, preloaded
//     weights), otherwise created through the device's allocator with the
//     declared per-output data type, falling back to the operator's primary
//     data type;
//   - a declared output shape is recorded on the tensor as its configured
//     shape, advisory sizing distinct from the runtime shape.
func (op *BaseOperation) Init(ctx *InitContext) error {
	ws := ctx.Workspace()
	for _, inputName := range op.def.Input {
		tensor := ws.GetTensor(inputName)
		if tensor == nil {
			exceptions.Panicf("op %s: encountered a non-existing input tensor: %s",
				op.def.Type, inputName)
		}
		op.inputs = append(op.inputs, tensor)
	}
	for i, outputName := range op.def.Output {
		if ws.HasTensor(outputName) {
			op.outputs = append(op.outputs, ws.GetTensor(outputName))
		} else {
			if len(op.def.OutputType) != 0 && len(op.def.Output) != len(op.def.OutputType) {
				exceptions.Panicf("op %s: operator output size %d != operator output type size %d",
					op.def.Type, len(op.def.Output), len(op.def.OutputType))
			}
			outputType := op.def.DataType()
			if i < len(op.def.OutputType) {
				outputType = op.def.OutputType[i]
			}
			tensor := ws.CreateTensor(outputName, ctx.Device().Allocator(), outputType)
			if tensor == nil {
				exceptions.Panicf("op %s: workspace failed to create output tensor: %s",
					op.def.Type, outputName)
			}
			op.outputs = append(op.outputs, tensor)
		}
		if i < len(op.def.OutputShape) {
			ws.GetTensor(outputName).SetShapeConfigured(op.def.OutputShape[i].Clone())
		}
	}
	return nil
}

// Run rejects execution: kernels embedding BaseOperation must provide their
// own Run.
func (op *BaseOperation) Run(_ *RunContext) error {
	return errors.Errorf("op %s (%s) does not implement Run", op.def.Name, op.def.Type)
}

package core

import (
	"github.com/gomlx/exceptions"

	"github.com/bairuiworld/mace/devices"
	"github.com/bairuiworld/mace/types/dtypes"
	"github.com/bairuiworld/mace/types/shapes"
)

// TensorShapeMap looks up the statically known shape of a tensor by name.
// Placement policies that depend on input shapes consult it.
type TensorShapeMap map[string]shapes.Shape

// ConstructContext carries the negotiation state for instantiating one
// operator: the pending definition, the workspace, the tentatively assigned
// device, and the per-input memory/data type overrides the graph builder may
// inject before the factory runs.
//
// A context is single-use and single-owner; it must not be shared across
// concurrently evaluated placements.
type ConstructContext struct {
	def    *OperatorDef
	ws     Workspace
	device devices.Device

	// outputMemType is the memory type used for operator outputs, and, by
	// inheritance, for every input without an explicit override.
	outputMemType devices.MemoryType

	// inputMemTypes and inputDataTypes stay nil until the first SetInputInfo:
	// for the common all-defaults case no per-input slice is allocated.
	inputMemTypes  []devices.MemoryType
	inputDataTypes []dtypes.DType

	tensorShapeInfo TensorShapeMap
}

// NewConstructContext returns a context bound to the given workspace. The
// operator definition is supplied later via SetOperatorDef.
func NewConstructContext(ws Workspace) *ConstructContext {
	return &ConstructContext{ws: ws}
}

// NewConstructContextWithShapes also attaches a tensor shape lookup for
// shape-dependent placement policies.
func NewConstructContextWithShapes(ws Workspace, info TensorShapeMap) *ConstructContext {
	return &ConstructContext{ws: ws, tensorShapeInfo: info}
}

// SetOperatorDef replaces the pending operator definition. Any per-input
// data types materialized for the previous definition are dropped, since
// they derived from its "T" attribute.
func (c *ConstructContext) SetOperatorDef(def *OperatorDef) {
	c.def = def
	c.inputDataTypes = nil
}

// OperatorDef returns the pending operator definition.
func (c *ConstructContext) OperatorDef() *OperatorDef { return c.def }

// Workspace returns the tensor namespace this context binds against.
func (c *ConstructContext) Workspace() Workspace { return c.ws }

// SetDevice assigns the device this operator is (tentatively) placed on.
func (c *ConstructContext) SetDevice(device devices.Device) { c.device = device }

// Device returns the assigned device, nil before placement.
func (c *ConstructContext) Device() devices.Device { return c.device }

// SetOutputMemType sets the memory type operator outputs will use. Inputs
// without an explicit override inherit it, so previously materialized
// per-input memory types are dropped. An operator definition must already be
// set.
func (c *ConstructContext) SetOutputMemType(memType devices.MemoryType) {
	if c.def == nil {
		exceptions.Panicf("SetOutputMemType called before SetOperatorDef")
	}
	c.outputMemType = memType
	c.inputMemTypes = nil
}

// OutputMemType returns the memory type operator outputs will use.
func (c *ConstructContext) OutputMemType() devices.MemoryType { return c.outputMemType }

// SetInputInfo overrides the memory type and data type of one input. On the
// first call both per-input tables are materialized to the operator's input
// count, filled with the context-wide defaults.
func (c *ConstructContext) SetInputInfo(idx int, memType devices.MemoryType, dt dtypes.DType) {
	if c.inputMemTypes == nil {
		// The default inputs' memory types are the same as the output memory type.
		c.inputMemTypes = make([]devices.MemoryType, len(c.def.Input))
		for i := range c.inputMemTypes {
			c.inputMemTypes[i] = c.outputMemType
		}
	}
	if c.inputDataTypes == nil {
		// The default inputs' data types are the same as the operation's data type.
		opDataType := c.def.DataType()
		c.inputDataTypes = make([]dtypes.DType, len(c.def.Input))
		for i := range c.inputDataTypes {
			c.inputDataTypes[i] = opDataType
		}
	}
	if idx >= len(c.inputMemTypes) || idx >= len(c.inputDataTypes) {
		exceptions.Panicf("SetInputInfo: input index %d out of range, operator %s has %d inputs",
			idx, c.def.Type, len(c.def.Input))
	}
	c.inputMemTypes[idx] = memType
	c.inputDataTypes[idx] = dt
}

// GetInputMemType returns the memory type the given input should assume.
// Before any SetInputInfo the context-wide default applies uniformly, to any
// index; afterwards the index must be within the operator's input count.
func (c *ConstructContext) GetInputMemType(idx int) devices.MemoryType {
	if c.inputMemTypes == nil {
		return c.outputMemType
	}
	if idx >= len(c.inputMemTypes) {
		exceptions.Panicf("GetInputMemType: input index %d out of range, %d inputs materialized",
			idx, len(c.inputMemTypes))
	}
	return c.inputMemTypes[idx]
}

// GetInputDataType returns the data type the given input should assume, with
// the same defaulting and bounds rules as GetInputMemType.
func (c *ConstructContext) GetInputDataType(idx int) dtypes.DType {
	if c.inputDataTypes == nil {
		// The default inputs' data types are the same as the operation's data type.
		return c.def.DataType()
	}
	if idx >= len(c.inputDataTypes) {
		exceptions.Panicf("GetInputDataType: input index %d out of range, %d inputs materialized",
			idx, len(c.inputDataTypes))
	}
	return c.inputDataTypes[idx]
}

// TensorShapeInfo returns the optional shape lookup, nil when none was given.
func (c *ConstructContext) TensorShapeInfo() TensorShapeMap { return c.tensorShapeInfo }

// InitContext carries what the bind phase needs: the workspace and the
// finally chosen device. Keeping it separate from ConstructContext decouples
// binding from construction-time negotiation state.
type InitContext struct {
	ws     Workspace
	device devices.Device
}

// NewInitContext returns an InitContext for binding operations.
func NewInitContext(ws Workspace, device devices.Device) *InitContext {
	return &InitContext{ws: ws, device: device}
}

// Workspace returns the tensor namespace to bind against.
func (c *InitContext) Workspace() Workspace { return c.ws }

// Device returns the device the operation was placed on.
func (c *InitContext) Device() devices.Device { return c.device }

// RunContext carries the execution-phase collaborators of an operation.
// Execution itself is outside this package; kernels receive this at Run.
type RunContext struct {
	ws     Workspace
	device devices.Device
}

// NewRunContext returns a RunContext for executing bound operations.
func NewRunContext(ws Workspace, device devices.Device) *RunContext {
	return &RunContext{ws: ws, device: device}
}

// Workspace returns the tensor namespace of the executing graph.
func (c *RunContext) Workspace() Workspace { return c.ws }

// Device returns the device the operation runs on.
func (c *RunContext) Device() devices.Device { return c.device }

package ops

import (
	"github.com/pkg/errors"

	"github.com/bairuiworld/mace/core"
	"github.com/bairuiworld/mace/devices"
	"github.com/bairuiworld/mace/types/dtypes"
)

// IdentityOp copies its single input tensor to its single output unchanged.
// It is the simplest complete kernel: every graph format has one (pass-through,
// stop-gradient and alias nodes lower to it).
type IdentityOp struct {
	core.BaseOperation
}

func newIdentity(ctx *core.ConstructContext) core.Operation {
	return &IdentityOp{BaseOperation: core.NewBaseOperation(ctx)}
}

// Run resizes the output to the input's runtime shape and copies the raw
// bytes across.
func (op *IdentityOp) Run(_ *core.RunContext) error {
	input := op.Input(0)
	output := op.Output(0)
	if err := output.Resize(input.Shape()); err != nil {
		return errors.WithMessagef(err, "running op %s", op.Def().Name)
	}
	copy(output.Bytes(), input.Bytes())
	return nil
}

func registerIdentity(r *core.Registry) {
	// No CPU half variant: the registry downgrades Float16 to Float32 on CPU
	// before dispatch.
	r.Register("Identity", devices.CPU, dtypes.Float32, newIdentity)
	r.Register("Identity", devices.GPU, dtypes.Float32, newIdentity)
	r.Register("Identity", devices.GPU, dtypes.Float16, newIdentity)
}

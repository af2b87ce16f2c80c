package core

import (
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/bairuiworld/mace/devices"
	"github.com/bairuiworld/mace/types/dtypes"
	"github.com/bairuiworld/mace/types/shapes"
)

// Tensor is a named, typed buffer living in a workspace.
//
// Two shapes are tracked: the runtime shape, set by Resize when a kernel
// computes its actual output size, and the configured shape, the advisory
// size declared in the graph definition. They may disagree; the configured
// shape is informational only.
type Tensor struct {
	name      string
	dtype     dtypes.DType
	allocator devices.Allocator

	shape           shapes.Shape
	shapeConfigured shapes.Shape

	data []byte
}

// NewTensor creates an empty tensor. Storage is only acquired on Resize.
func NewTensor(name string, allocator devices.Allocator, dtype dtypes.DType) *Tensor {
	return &Tensor{name: name, allocator: allocator, dtype: dtype}
}

// Name returns the tensor's workspace name.
func (t *Tensor) Name() string { return t.name }

// DType returns the element data type.
func (t *Tensor) DType() dtypes.DType { return t.dtype }

// Shape returns the runtime shape, set by the last Resize.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// SetShapeConfigured records the statically declared shape from the graph
// definition. It does not allocate.
func (t *Tensor) SetShapeConfigured(shape shapes.Shape) {
	t.shapeConfigured = shape
}

// ShapeConfigured returns the statically declared shape, which is the zero
// Shape when the graph declared none.
func (t *Tensor) ShapeConfigured() shapes.Shape { return t.shapeConfigured }

// Resize sets the runtime shape, growing the underlying storage through the
// tensor's allocator when the current capacity does not fit.
func (t *Tensor) Resize(shape shapes.Shape) error {
	t.shape = shape
	nbytes := shape.NumElements() * t.dtype.Size()
	if nbytes <= cap(t.data) {
		t.data = t.data[:nbytes]
		return nil
	}
	klog.V(3).Infof("Tensor %s: allocating %s for shape %s<%s>",
		t.name, humanize.IBytes(uint64(nbytes)), shape, t.dtype)
	data, err := t.allocator.New(nbytes)
	if err != nil {
		return errors.WithMessagef(err, "resizing tensor %s to %s", t.name, shape)
	}
	t.data = data
	return nil
}

// Bytes exposes the raw storage. Valid until the next Resize that grows the
// tensor.
func (t *Tensor) Bytes() []byte { return t.data }

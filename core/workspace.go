package core

import (
	"sync"

	"github.com/bairuiworld/mace/devices"
	"github.com/bairuiworld/mace/types/dtypes"
)

// Workspace is the tensor namespace operators are bound against. Operation
// binding only consumes this interface; the concrete container usually also
// holds the loaded model weights.
//
// Implementations must allow concurrent lookups and concurrent creation of
// distinct names: different operations sharing a workspace may be bound in
// parallel.
type Workspace interface {
	// HasTensor returns whether a tensor with that name exists.
	HasTensor(name string) bool

	// GetTensor returns the named tensor, or nil when absent.
	GetTensor(name string) *Tensor

	// CreateTensor creates an empty tensor under the given name using the
	// given allocator and data type. When the name already exists, the
	// existing tensor is returned unchanged.
	CreateTensor(name string, allocator devices.Allocator, dt dtypes.DType) *Tensor
}

// SimpleWorkspace is a map-backed Workspace.
type SimpleWorkspace struct {
	mu      sync.RWMutex
	tensors map[string]*Tensor
}

// Compile-time check that SimpleWorkspace implements Workspace.
var _ Workspace = &SimpleWorkspace{}

// NewWorkspace returns an empty SimpleWorkspace.
func NewWorkspace() *SimpleWorkspace {
	return &SimpleWorkspace{tensors: make(map[string]*Tensor)}
}

// HasTensor returns whether a tensor with that name exists.
func (ws *SimpleWorkspace) HasTensor(name string) bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	_, found := ws.tensors[name]
	return found
}

// GetTensor returns the named tensor, or nil when absent.
func (ws *SimpleWorkspace) GetTensor(name string) *Tensor {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.tensors[name]
}

// CreateTensor creates an empty tensor under the given name, or returns the
// existing one when the name is already taken.
func (ws *SimpleWorkspace) CreateTensor(name string, allocator devices.Allocator, dt dtypes.DType) *Tensor {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if tensor, found := ws.tensors[name]; found {
		return tensor
	}
	tensor := NewTensor(name, allocator, dt)
	ws.tensors[name] = tensor
	return tensor
}

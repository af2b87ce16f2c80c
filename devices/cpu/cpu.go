// Package cpu implements the pure-Go host device.
//
// It is the device every build carries: importing it registers a "cpu"
// constructor in the devices registry.
package cpu

import (
	"github.com/pkg/errors"

	"github.com/bairuiworld/mace/devices"
)

// DeviceName to be used in MACE_DEVICE to select this device.
const DeviceName = "cpu"

func init() {
	devices.Register(DeviceName, New)
}

// New constructs the CPU device.
// There are no configurations, the string is simply ignored.
func New(_ string) devices.Device {
	return &Device{allocator: &cpuAllocator{}}
}

// Device implements devices.Device for the host CPU.
type Device struct {
	allocator devices.Allocator
}

// Compile-time check that cpu.Device implements devices.Device.
var _ devices.Device = &Device{}

// Type returns devices.CPU.
func (d *Device) Type() devices.Type { return devices.CPU }

// Allocator returns the host-memory allocator.
func (d *Device) Allocator() devices.Allocator { return d.allocator }

// DefaultMemoryType returns devices.CPUBuffer.
func (d *Device) DefaultMemoryType() devices.MemoryType { return devices.CPUBuffer }

type cpuAllocator struct{}

// New allocates zeroed host memory.
func (a *cpuAllocator) New(nbytes int) ([]byte, error) {
	if nbytes < 0 {
		return nil, errors.Errorf("cpu allocator: invalid allocation of %d bytes", nbytes)
	}
	return make([]byte, nbytes), nil
}

// Package devices defines the compute-device abstraction the runtime
// dispatches operators onto: the DeviceType and MemoryType enums, the Device
// and Allocator interfaces a backend must implement, and a registry of
// device constructors selected by name.
//
// To simplify error handling, failures to construct or locate a device are
// reported by panic with a stack trace. See package github.com/gomlx/exceptions.
package devices

import (
	"os"
	"strings"

	"github.com/gomlx/exceptions"
)

// Type identifies a compute backend target.
//
// The numeric values are fixed by the graph serialization schema and are part
// of the operator dispatch keys, so they must not be reordered.
type Type int

const (
	// CPU is the general-purpose host device, always available.
	CPU Type = 0

	// GPU is an accelerator operating on image/buffer memory.
	GPU Type = 2

	// HTA is a dedicated tensor accelerator.
	HTA Type = 3
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case CPU:
		return "CPU"
	case GPU:
		return "GPU"
	case HTA:
		return "HTA"
	}
	return "UnknownDevice"
}

// MapOfNames maps device names to their Type.
var MapOfNames = map[string]Type{
	"CPU": CPU, "cpu": CPU,
	"GPU": GPU, "gpu": GPU,
	"HTA": HTA, "hta": HTA,
}

// MemoryType classifies the memory space a tensor's backing storage lives in.
// It is distinct from the tensor's data type: the same Float16 tensor may be
// held in a plain buffer or in a GPU texture image.
type MemoryType int

const (
	// CPUBuffer is plain host memory.
	CPUBuffer MemoryType = iota

	// GPUBuffer is device-global linear memory.
	GPUBuffer

	// GPUImage is texture/image memory, used by kernels that sample.
	GPUImage
)

// String implements fmt.Stringer.
func (m MemoryType) String() string {
	switch m {
	case CPUBuffer:
		return "CPUBuffer"
	case GPUBuffer:
		return "GPUBuffer"
	case GPUImage:
		return "GPUImage"
	}
	return "UnknownMemoryType"
}

// Allocator hands out backing storage for tensors of its device.
type Allocator interface {
	// New allocates nbytes of zeroed storage.
	New(nbytes int) ([]byte, error)
}

// Device is the API a compute backend must implement to receive operators.
type Device interface {
	// Type returns which backend target this device is.
	Type() Type

	// Allocator returns the allocator tensors on this device use.
	Allocator() Allocator

	// DefaultMemoryType is the memory type operator outputs use on this
	// device unless negotiated otherwise.
	DefaultMemoryType() MemoryType
}

// Constructor takes a device-specific config string (optionally empty) and
// returns a Device.
type Constructor func(config string) Device

var (
	registeredConstructors = make(map[string]Constructor)
	firstRegistered        string
)

// Register a device constructor under the given name, to be selected by New.
//
// To be safe, call Register during initialization of a package.
func Register(name string, constructor Constructor) {
	if len(registeredConstructors) == 0 {
		firstRegistered = name
	}
	registeredConstructors[name] = constructor
}

// DefaultConfig is the device configuration to use if none is given by the
// environment. See NewWithConfig for the format.
var DefaultConfig string

// MACE_DEVICE is the environment variable with the default device
// configuration to use.
//
// The format of config is "<device_name>:<device_configuration>".
// The "<device_name>" is the name of a registered device (e.g.: "cpu") and
// "<device_configuration>" is device specific.
const MACE_DEVICE = "MACE_DEVICE"

// New returns a new default Device.
//
// The default is:
//
// 1. The environment MACE_DEVICE is used as a configuration if defined.
// 2. Next the variable DefaultConfig is used as a configuration if defined.
// 3. The first registered device is used with an empty configuration.
//
// It panics if no device was registered.
func New() Device {
	config, found := os.LookupEnv(MACE_DEVICE)
	if found {
		return NewWithConfig(config)
	}
	if DefaultConfig != "" {
		return NewWithConfig(DefaultConfig)
	}
	return NewWithConfig("")
}

// NewWithConfig creates the device selected by config, formatted as
// "<device_name>:<device_configuration>".
func NewWithConfig(config string) Device {
	if len(registeredConstructors) == 0 {
		exceptions.Panicf(`no registered devices -- maybe import the default CPU one with import _ "github.com/bairuiworld/mace/devices/cpu"?`)
	}
	deviceName := firstRegistered
	deviceConfig := config
	if idx := strings.Index(config, ":"); idx != -1 {
		deviceName = config[:idx]
		deviceConfig = config[idx+1:]
	}
	constructor, found := registeredConstructors[deviceName]
	if !found {
		exceptions.Panicf("can't find device %q for configuration %q given", deviceName, config)
	}
	return constructor(deviceConfig)
}

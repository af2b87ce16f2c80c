package core

import (
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/bairuiworld/mace/devices"
	"github.com/bairuiworld/mace/types/dtypes"
)

// typeConstraintOrder fixes the canonical order type constraints appear in a
// dispatch key. Only "T" exists today; extend here when more are added.
var typeConstraintOrder = []string{TypeArgName}

// opKeyBuilder encodes an (operator type, device, type constraints) triple
// into the canonical dispatch key. The encoding is the registry's contract:
// equal triples must produce byte-identical keys.
type opKeyBuilder struct {
	opName         string
	deviceType     devices.Type
	typeConstraint map[string]dtypes.DType
}

func newOpKeyBuilder(opName string) *opKeyBuilder {
	return &opKeyBuilder{
		opName:         opName,
		typeConstraint: make(map[string]dtypes.DType),
	}
}

func (b *opKeyBuilder) Device(deviceType devices.Type) *opKeyBuilder {
	b.deviceType = deviceType
	return b
}

func (b *opKeyBuilder) TypeConstraint(attrName string, allowed dtypes.DType) *opKeyBuilder {
	b.typeConstraint[attrName] = allowed
	return b
}

func (b *opKeyBuilder) Build() string {
	var sb strings.Builder
	sb.WriteString(b.opName)
	sb.WriteString(strconv.Itoa(int(b.deviceType)))
	for _, name := range typeConstraintOrder {
		// An unset constraint serializes the zero DType, deterministically.
		sb.WriteString(name)
		sb.WriteString("_")
		sb.WriteString(b.typeConstraint[name].String())
	}
	return sb.String()
}

// OpCreator is a factory producing a new, not yet bound Operation from the
// construct context.
type OpCreator func(ctx *ConstructContext) Operation

// DevicePlacer decides which devices are eligible to execute one operator
// instance, given its construct context.
type DevicePlacer interface {
	PlaceDevices(ctx *ConstructContext) devices.Set
}

// DevicePlacerFunc adapts a plain function into a DevicePlacer.
type DevicePlacerFunc func(ctx *ConstructContext) devices.Set

// PlaceDevices implements DevicePlacer.
func (f DevicePlacerFunc) PlaceDevices(ctx *ConstructContext) devices.Set {
	return f(ctx)
}

// defaultPlacer implements the built-in placement rule over the registration
// info's declared device set.
type defaultPlacer struct {
	info *OpRegistrationInfo
}

// PlaceDevices restricts placement to the CPU when the operator supports it,
// every declared output carries a configured shape, and the first output's
// shape is not 4-D: accelerator kernels assume 4-D (NHWC) tensors, so a
// non-4-D output is conclusive evidence the op must run on the host.
// Otherwise the full declared device set applies.
func (p *defaultPlacer) PlaceDevices(ctx *ConstructContext) devices.Set {
	def := ctx.OperatorDef()
	if p.info.devices.Has(devices.CPU) &&
		len(def.OutputShape) == len(def.Output) &&
		def.OutputShape[0].Rank() != 4 {
		return devices.NewSet(devices.CPU)
	}
	return p.info.devices.Clone()
}

// OpRegistrationInfo is the per-operator-type record of the registry: which
// devices the type supports, the placement policy, and the factory for each
// dispatch key.
type OpRegistrationInfo struct {
	devices  devices.Set
	placer   DevicePlacer
	creators map[string]OpCreator
}

func newOpRegistrationInfo() *OpRegistrationInfo {
	info := &OpRegistrationInfo{
		devices:  devices.NewSet(),
		creators: make(map[string]OpCreator),
	}
	info.placer = &defaultPlacer{info: info}
	return info
}

// AddDevice records that the operator type supports the device. Idempotent.
func (info *OpRegistrationInfo) AddDevice(device devices.Type) {
	info.devices.Insert(device)
}

// Register installs the creator under the dispatch key. A duplicate key is a
// registration-time programming error and panics.
func (info *OpRegistrationInfo) Register(key string, creator OpCreator) {
	klog.V(3).Infof("Registering: %s", key)
	if _, found := info.creators[key]; found {
		exceptions.Panicf("key already registered: %s", key)
	}
	info.creators[key] = creator
}

// OpConditionBuilder declares, at registration time, a custom device
// placement policy for one operator type, replacing the default rule.
type OpConditionBuilder struct {
	opType string
	placer DevicePlacer
}

// NewOpConditionBuilder returns a builder for the given operator type.
func NewOpConditionBuilder(opType string) *OpConditionBuilder {
	return &OpConditionBuilder{opType: opType}
}

// Type returns the operator type the builder targets.
func (b *OpConditionBuilder) Type() string { return b.opType }

// SetDevicePlacerFunc sets the policy that will replace the default placer.
func (b *OpConditionBuilder) SetDevicePlacerFunc(placer DevicePlacerFunc) *OpConditionBuilder {
	b.placer = placer
	return b
}

// Finalize applies the override to info. It is a no-op unless both info and
// a policy are present.
func (b *OpConditionBuilder) Finalize(info *OpRegistrationInfo) {
	if info != nil && b.placer != nil {
		info.placer = b.placer
	}
}

// Registry maps operator-type names to their registration info. It is built
// once during startup -- each operator package registers into it from an
// explicit bootstrap step -- and treated as read-only during dispatch, so
// lookups need no locking.
type Registry struct {
	registry map[string]*OpRegistrationInfo
}

// NewRegistry returns an empty operator registry.
func NewRegistry() *Registry {
	return &Registry{registry: make(map[string]*OpRegistrationInfo)}
}

func (r *Registry) infoFor(opType string) *OpRegistrationInfo {
	info, found := r.registry[opType]
	if !found {
		info = newOpRegistrationInfo()
		r.registry[opType] = info
	}
	return info
}

// Register installs creator as the factory for (opType, device, dt). The
// device is recorded as supported by the type. Registering the same triple
// twice panics.
func (r *Registry) Register(opType string, device devices.Type, dt dtypes.DType, creator OpCreator) {
	info := r.infoFor(opType)
	info.AddDevice(device)

	opKey := newOpKeyBuilder(opType).
		Device(device).
		TypeConstraint(TypeArgName, dt).
		Build()
	info.Register(opKey, creator)
}

// RegisterCondition applies the builder's placement override to its operator
// type, creating the registration info on first sight.
func (r *Registry) RegisterCondition(builder *OpConditionBuilder) {
	builder.Finalize(r.infoFor(builder.Type()))
}

// AvailableDevices returns the devices eligible to run the pending operator,
// as decided by the type's current placement policy. This is the sole entry
// point for placement decisions. An unregistered operator type panics.
func (r *Registry) AvailableDevices(opType string, ctx *ConstructContext) devices.Set {
	info, found := r.registry[opType]
	if !found {
		exceptions.Panicf("%s operation is not registered", opType)
	}
	return info.placer.PlaceDevices(ctx)
}

// CreateOperation resolves the pending operator's data type, builds the
// dispatch key for the chosen device, and invokes the matching factory. The
// returned Operation is not yet bound.
//
// When the chosen device is the CPU and the resolved data type is Float16,
// the definition's "T" attribute is rewritten in place to Float32 and
// dispatch proceeds with Float32: CPU kernels carry no half-precision
// variants. The rewrite is visible to every holder of the shared definition.
//
// A missing factory for the resolved key means the graph is unsatisfiable on
// this device/type combination and panics.
func (r *Registry) CreateOperation(ctx *ConstructContext, deviceType devices.Type) Operation {
	def := ctx.OperatorDef()
	dtype := def.DataType()
	if deviceType == devices.CPU && dtype == dtypes.Float16 {
		def.SetIntArg(TypeArgName, int64(dtypes.Float32))
		dtype = dtypes.Float32
	}
	klog.V(1).Infof("Creating operator %s(%s<%s>) on %s", def.Name, def.Type, dtype, deviceType)

	opType := def.Type
	info, found := r.registry[opType]
	if !found {
		exceptions.Panicf("%s operation is not registered", opType)
	}

	key := newOpKeyBuilder(opType).
		Device(deviceType).
		TypeConstraint(TypeArgName, dtype).
		Build()
	creator, found := info.creators[key]
	if !found {
		exceptions.Panicf("key not registered: %s", key)
	}
	return creator(ctx)
}

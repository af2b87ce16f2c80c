package devices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	config string
}

func (d *fakeDevice) Type() Type                    { return CPU }
func (d *fakeDevice) Allocator() Allocator          { return nil }
func (d *fakeDevice) DefaultMemoryType() MemoryType { return CPUBuffer }

func TestRegisterAndNewWithConfig(t *testing.T) {
	saved := registeredConstructors
	savedFirst := firstRegistered
	registeredConstructors = make(map[string]Constructor)
	firstRegistered = ""
	defer func() {
		registeredConstructors = saved
		firstRegistered = savedFirst
	}()

	require.Panics(t, func() { NewWithConfig("") }, "no devices registered yet")

	Register("fake", func(config string) Device { return &fakeDevice{config: config} })

	d := NewWithConfig("")
	assert.Equal(t, "", d.(*fakeDevice).config)

	d = NewWithConfig("fake:opt=1")
	assert.Equal(t, "opt=1", d.(*fakeDevice).config)

	require.Panics(t, func() { NewWithConfig("bogus:") })
}

func TestNewFromEnv(t *testing.T) {
	saved := registeredConstructors
	savedFirst := firstRegistered
	registeredConstructors = make(map[string]Constructor)
	firstRegistered = ""
	defer func() {
		registeredConstructors = saved
		firstRegistered = savedFirst
	}()
	Register("fake", func(config string) Device { return &fakeDevice{config: config} })

	t.Setenv(MACE_DEVICE, "fake:from-env")
	d := New()
	assert.Equal(t, "from-env", d.(*fakeDevice).config)
}

func TestSet(t *testing.T) {
	s := NewSet(GPU, CPU)
	assert.True(t, s.Has(CPU))
	assert.True(t, s.Has(GPU))
	assert.False(t, s.Has(HTA))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Type{CPU, GPU}, s.Slice())
	assert.Equal(t, "{CPU, GPU}", s.String())

	s.Insert(CPU) // idempotent
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Equal(NewSet(CPU, GPU)))
	assert.False(t, s.Equal(NewSet(CPU)))
	assert.False(t, s.Equal(NewSet(CPU, HTA)))

	clone := s.Clone()
	clone.Insert(HTA)
	assert.False(t, s.Has(HTA))
}

func TestTypeAndMemoryTypeStrings(t *testing.T) {
	assert.Equal(t, "CPU", CPU.String())
	assert.Equal(t, "GPU", GPU.String())
	assert.Equal(t, "GPUImage", GPUImage.String())
	assert.Equal(t, CPU, MapOfNames["cpu"])
	assert.Equal(t, GPU, MapOfNames["GPU"])
}

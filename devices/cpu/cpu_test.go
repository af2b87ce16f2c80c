package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bairuiworld/mace/devices"
)

func TestNew(t *testing.T) {
	d := New("")
	assert.Equal(t, devices.CPU, d.Type())
	assert.Equal(t, devices.CPUBuffer, d.DefaultMemoryType())
	require.NotNil(t, d.Allocator())
}

func TestAllocator(t *testing.T) {
	a := New("").Allocator()

	data, err := a.New(16)
	require.NoError(t, err)
	assert.Len(t, data, 16)
	for _, b := range data {
		assert.Zero(t, b)
	}

	_, err = a.New(-1)
	require.Error(t, err)
}

func TestRegistered(t *testing.T) {
	d := devices.NewWithConfig(DeviceName + ":")
	assert.Equal(t, devices.CPU, d.Type())
}

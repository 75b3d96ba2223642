//go:build linux

package cpufreq

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_DisableEnable(t *testing.T) {
	k := newFakeKernel(t, 4)
	m := newTestManager(t, k)

	online, err := m.OnlineCPUs()
	require.NoError(t, err)
	for _, cpu := range online.List() {
		if cpu == 0 {
			continue
		}
		require.NoError(t, m.Disable(CPUs(cpu)))
		now, err := m.OnlineCPUs()
		require.NoError(t, err)
		assert.False(t, now.Contains(cpu), "cpu%d still online", cpu)

		require.NoError(t, m.Enable(CPUs(cpu)))
		now, err = m.OnlineCPUs()
		require.NoError(t, err)
		assert.True(t, now.Contains(cpu), "cpu%d not back online", cpu)
	}

	require.NoError(t, m.Disable(CPUs(1, 2, 3)))
	now, err := m.OnlineCPUs()
	require.NoError(t, err)
	assert.Equal(t, []int{0}, now.List())

	require.NoError(t, m.EnableAll())
	now, err = m.OnlineCPUs()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, now.List())
}

func TestManager_EnableDisable_NoOps(t *testing.T) {
	k := newFakeKernel(t, 4)
	m := newTestManager(t, k)
	k.setOffline(2)
	k.resetWrites()

	t.Run("enable_online_core", func(t *testing.T) {
		require.NoError(t, m.Enable(CPUs(0, 1)))
		assert.Empty(t, k.writes)
	})
	t.Run("disable_offline_core", func(t *testing.T) {
		require.NoError(t, m.Disable(CPUs(2)))
		assert.Empty(t, k.writes)
	})
	t.Run("enable_not_present", func(t *testing.T) {
		require.NoError(t, m.Enable(CPUs(42)))
		assert.Empty(t, k.writes)
	})
}

func TestManager_DisableBootCPU_SurfacesIOError(t *testing.T) {
	k := newFakeKernel(t, 4)
	m := newTestManager(t, k)

	err := m.Disable(CPUs(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var be *BatchError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 0, be.CPU)
	assert.Equal(t, 0, be.Done)
}

func TestManager_DisableHyperthread(t *testing.T) {
	k := newFakeKernel(t, 8)
	m := newTestManager(t, k)

	disabled, err := m.DisableHyperthread()
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6, 7}, disabled.List())

	online, err := m.OnlineCPUs()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, online.List())

	k.resetWrites()
	again, err := m.DisableHyperthread()
	require.NoError(t, err)
	assert.True(t, again.IsEmpty())
	assert.Empty(t, k.writes, "second run must not disable anything")
}

func TestManager_DisableHyperthread_KeepsLowestOnlineSibling(t *testing.T) {
	k := newFakeKernel(t, 4)
	m := newTestManager(t, k)
	// Siblings {1,3}: with 1 already offline, 3 is the representative.
	k.setOffline(1)

	disabled, err := m.DisableHyperthread()
	require.NoError(t, err)
	assert.Equal(t, []int{2}, disabled.List())

	online, err := m.OnlineCPUs()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, online.List())
}

func TestManager_DisableHyperthread_ReadsBeforeWriting(t *testing.T) {
	k := newFakeKernel(t, 4)
	m := newTestManager(t, k)
	delete(k.attrs, siblingsAttr(3))

	_, err := m.DisableHyperthread()
	require.ErrorIs(t, err, ErrIO)
	assert.Empty(t, k.writes, "a sibling read failure must abort before any write")
}

func TestManager_Reset(t *testing.T) {
	k := newFakeKernel(t, 4)
	m := newTestManager(t, k)

	require.NoError(t, m.SetGovernors("userspace", AllCPUs()))
	require.NoError(t, m.SetMinFrequencies(1200000, AllCPUs()))
	require.NoError(t, m.SetMaxFrequencies(1600000, AllCPUs()))
	_, err := m.DisableHyperthread()
	require.NoError(t, err)

	require.NoError(t, m.Reset(AllCPUs()))

	online, err := m.OnlineCPUs()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, online.List())

	states, err := m.CoreStates(AllCPUs())
	require.NoError(t, err)
	require.Len(t, states, 4)
	for cpu, s := range states {
		assert.Equal(t, m.ResetGovernor(), s.Governor, "cpu%d", cpu)
		assert.Equal(t, m.Capabilities().MinFrequency(), s.Min, "cpu%d", cpu)
		assert.Equal(t, m.Capabilities().MaxFrequency(), s.Max, "cpu%d", cpu)
	}
}

func TestManager_Reset_ExplicitTarget(t *testing.T) {
	k := newFakeKernel(t, 4)
	m := newTestManager(t, k)
	require.NoError(t, m.SetMaxFrequencies(1200000, AllCPUs()))
	k.setOffline(3)

	require.NoError(t, m.Reset(CPUs(1, 3)))

	online, err := m.OnlineCPUs()
	require.NoError(t, err)
	assert.True(t, online.Contains(3))
	assert.Equal(t, 2000000, k.freq(1, attrMaxFreq))
	assert.Equal(t, 2000000, k.freq(3, attrMaxFreq))
	assert.Equal(t, 1200000, k.freq(0, attrMaxFreq), "untargeted core kept its limit")
	assert.Equal(t, "performance", k.attrs[freqAttr(2, attrGovernor)])
}

func TestManager_Reset_PartialFailure(t *testing.T) {
	k := newFakeKernel(t, 4)
	m := newTestManager(t, k)
	k.failWrite[freqAttr(1, attrMaxFreq)] = fs.ErrPermission

	err := m.Reset(AllCPUs())
	var be *BatchError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "reset", be.Op)
	assert.Equal(t, 1, be.CPU)
	assert.Equal(t, 1, be.Done)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

package types

import (
	"fmt"
	"math/rand"
)

// Controller ids an NVMe-oF target may hand out to connecting initiators.
// The protocol reserves ids outside this window.
const (
	MinControllerID uint16 = 1
	MaxControllerID uint16 = 0xffef
)

// NvmfControllerIdRange is an inclusive range of NVMe controller ids.
type NvmfControllerIdRange struct {
	start uint16
	end   uint16
}

// NewNvmfControllerIdRange validates and builds a controller id range.
// Both bounds must lie within [MinControllerID, MaxControllerID] and
// start must be strictly below end.
func NewNvmfControllerIdRange(start, end uint16) (NvmfControllerIdRange, error) {
	if start >= MinControllerID && start <= MaxControllerID &&
		end >= MinControllerID && end <= MaxControllerID &&
		start < end {
		return NvmfControllerIdRange{start: start, end: end}, nil
	}
	return NvmfControllerIdRange{}, InvalidArgument(ResourceKindNexus,
		"nvmf_controller_id_range",
		fmt.Sprintf("%d, %d values don't fall in controller id range", start, end))
}

// DefaultNvmfControllerIdRange returns the full protocol-defined range.
func DefaultNvmfControllerIdRange() NvmfControllerIdRange {
	return NvmfControllerIdRange{start: MinControllerID, end: MaxControllerID}
}

// NvmfControllerIdRangeWithRandomMin returns a range with a randomised
// minimum, used to avoid controller id collisions between nexuses that
// share reservation state.
func NvmfControllerIdRangeWithRandomMin() NvmfControllerIdRange {
	min := uint16(rand.Intn(int(MaxControllerID))) + MinControllerID
	if min > MaxControllerID {
		min = MaxControllerID
	}
	return NvmfControllerIdRange{start: min, end: MaxControllerID}
}

// Min returns the minimum controller id of the range.
func (r NvmfControllerIdRange) Min() uint16 {
	if r.start == 0 {
		return MinControllerID
	}
	return r.start
}

// Max returns the maximum controller id of the range.
func (r NvmfControllerIdRange) Max() uint16 {
	if r.end == 0 {
		return MaxControllerID
	}
	return r.end
}

// NexusNvmfConfig is the NVMe-oF target configuration of a nexus: the
// controller id window plus the persistent reservation keys used for
// fencing and preemption.
type NexusNvmfConfig struct {
	ControllerIDRange NvmfControllerIdRange
	ReservationKey    uint64
	// PreemptReservationKey, when set, is the key this nexus preempts.
	PreemptReservationKey *uint64
}

// NewNexusNvmfConfig builds a config from its parts.
func NewNexusNvmfConfig(r NvmfControllerIdRange, resvKey uint64, preemptKey *uint64) NexusNvmfConfig {
	return NexusNvmfConfig{
		ControllerIDRange:     r,
		ReservationKey:        resvKey,
		PreemptReservationKey: preemptKey,
	}
}

// DefaultNexusNvmfConfig returns the full controller range with reservation
// key 1 and no preemption.
func DefaultNexusNvmfConfig() NexusNvmfConfig {
	return NexusNvmfConfig{
		ControllerIDRange: DefaultNvmfControllerIdRange(),
		ReservationKey:    1,
	}
}

// MinCntlID returns the minimum controller id the target may allocate.
func (c *NexusNvmfConfig) MinCntlID() uint16 {
	return c.ControllerIDRange.Min()
}

// MaxCntlID returns the maximum controller id the target may allocate.
func (c *NexusNvmfConfig) MaxCntlID() uint16 {
	return c.ControllerIDRange.Max()
}

// PreemptKey returns the reservation key to preempt, or zero when unset.
func (c *NexusNvmfConfig) PreemptKey() uint64 {
	if c.PreemptReservationKey == nil {
		return 0
	}
	return *c.PreemptReservationKey
}

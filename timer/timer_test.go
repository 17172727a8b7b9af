package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tambler/gbcore/addr"
)

func TestTimerOverflowSetsIRQAndReloadsTMA(t *testing.T) {
	tm := New()
	irqCount := 0
	tm.RequestInterrupt = func() { irqCount++ }

	tm.Write(addr.TMA, 0x10)
	tm.Write(addr.TAC, 0x05) // enable, freq code 1 -> 16 cycles/step

	tm.Tick(16)
	assert.Equal(t, uint8(1), tm.Read(addr.TIMA), "after 16 cycles")
	assert.Zero(t, irqCount, "IRQ should not fire yet")

	// TIMA is at 1; needs 254 more steps (254*16 cycles) to reach 0xFF, then
	// one more step (16 cycles) to overflow.
	tm.Tick(254 * 16)
	assert.Equal(t, uint8(0xFF), tm.Read(addr.TIMA))

	tm.Tick(16)
	assert.Equal(t, uint8(0x10), tm.Read(addr.TIMA), "TIMA after overflow should reload from TMA")
	assert.Equal(t, 1, irqCount)
}

func TestDIVIsClockHighByte(t *testing.T) {
	tm := New()
	tm.Tick(256)
	assert.Equal(t, uint8(1), tm.Read(addr.DIV))
}

func TestWriteDIVResetsClock(t *testing.T) {
	tm := New()
	tm.Tick(1000)
	tm.Write(addr.DIV, 0xFF) // any value resets
	assert.Zero(t, tm.Read(addr.DIV))
}

func TestTACReadReflectsEnableBit(t *testing.T) {
	tm := New()
	tm.Write(addr.TAC, 0x02) // disabled, freq code 2
	assert.Equal(t, uint8(0x02), tm.Read(addr.TAC))

	tm.Write(addr.TAC, 0x06) // enabled, freq code 2
	assert.Equal(t, uint8(0x06), tm.Read(addr.TAC))
}

func TestDisabledTimerDoesNotAdvanceTIMA(t *testing.T) {
	tm := New()
	tm.Write(addr.TAC, 0x01) // disabled
	tm.Tick(10000)
	assert.Zero(t, tm.Read(addr.TIMA))
}

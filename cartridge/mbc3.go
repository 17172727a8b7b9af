package cartridge

import "time"

// rtc register-select codes written to 0x4000-0x5FFF route RAM-window
// access to one of the five latched clock registers instead of RAM.
const (
	rtcSeconds uint8 = 0x08
	rtcMinutes uint8 = 0x09
	rtcHours   uint8 = 0x0A
	rtcDayLow  uint8 = 0x0B
	rtcDayHigh uint8 = 0x0C
)

const (
	dayHighHaltBit     = 1 << 6
	dayHighCarryBit    = 1 << 7
	dayHighDayBit8Mask = 0x01
)

// mbc3 implements the MBC3 chip: 7-bit ROM bank select, RAM bank or RTC
// register select at 0x4000-0x5FFF, and a real-time clock latched into
// S/M/H/DL/DH on a 0x00->0x01 write to 0x6000-0x7FFF.
type mbc3 struct {
	rom []byte
	ram []byte

	ramRTCEnable bool
	romBank      uint8 // 7 bits
	selector     uint8 // 0x00-0x07 RAM bank, 0x08-0x0C RTC register
	lastLatch    uint8

	hasRTC bool
	now    func() time.Time

	// base is the wall-clock instant the live clock is counting from;
	// accumulated holds frozen elapsed time while halted.
	base        time.Time
	accumulated time.Duration
	halted      bool

	// latched is the snapshot presented to reads after a latch sequence.
	latched [5]uint8
}

func newMBC3(rom []byte, ramBanks int, hasRTC bool, now func() time.Time) *mbc3 {
	if now == nil {
		now = time.Now
	}
	m := &mbc3{
		rom:     rom,
		ram:     make([]byte, ramBanks*0x2000),
		romBank: 1,
		hasRTC:  hasRTC,
		now:     now,
		base:    now(),
	}
	return m
}

func (m *mbc3) ReadByte(a uint16) uint8 {
	switch {
	case a <= 0x3FFF:
		return m.romAt(0, a)
	case a >= 0x4000 && a <= 0x7FFF:
		return m.romAt(uint32(m.romBank), a-0x4000)
	case a >= 0xA000 && a <= 0xBFFF:
		if !m.ramRTCEnable {
			return 0xFF
		}
		if m.hasRTC && m.selector >= rtcSeconds && m.selector <= rtcDayHigh {
			return m.latched[m.selector-rtcSeconds]
		}
		if m.selector <= 0x07 && len(m.ram) > 0 {
			off := uint32(m.selector) * 0x2000
			off %= uint32(len(m.ram))
			return m.ram[off+uint32(a-0xA000)]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *mbc3) WriteByte(a uint16, v uint8) {
	switch {
	case a <= 0x1FFF:
		m.ramRTCEnable = v&0x0F == 0x0A
	case a >= 0x2000 && a <= 0x3FFF:
		bank := v & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case a >= 0x4000 && a <= 0x5FFF:
		m.selector = v
	case a >= 0x6000 && a <= 0x7FFF:
		if m.lastLatch == 0x00 && v == 0x01 {
			m.latch()
		}
		m.lastLatch = v
	case a >= 0xA000 && a <= 0xBFFF:
		if !m.ramRTCEnable {
			return
		}
		if m.hasRTC && m.selector >= rtcSeconds && m.selector <= rtcDayHigh {
			m.writeRTCRegister(m.selector-rtcSeconds, v)
			return
		}
		if m.selector <= 0x07 && len(m.ram) > 0 {
			off := uint32(m.selector) * 0x2000
			off %= uint32(len(m.ram))
			m.ram[off+uint32(a-0xA000)] = v
		}
	}
}

// elapsed returns the total seconds the clock has been counting, honoring
// the halt flag.
func (m *mbc3) elapsed() time.Duration {
	if m.halted {
		return m.accumulated
	}
	return m.accumulated + m.now().Sub(m.base)
}

// latch freezes the current elapsed time into the five RTC registers.
func (m *mbc3) latch() {
	total := int64(m.elapsed() / time.Second)
	days := total / 86400
	rem := total % 86400

	m.latched[0] = uint8(rem % 60)
	m.latched[1] = uint8((rem / 60) % 60)
	m.latched[2] = uint8((rem / 3600) % 24)
	m.latched[3] = uint8(days & 0xFF)

	dh := uint8(days>>8) & dayHighDayBit8Mask
	if m.halted {
		dh |= dayHighHaltBit
	}
	if days > 0x1FF {
		dh |= dayHighCarryBit
	}
	m.latched[4] = dh
}

// writeRTCRegister updates one live clock register (index 0=S .. 4=DH).
// Writing rebuilds `base`/`accumulated` so future reads reflect the new
// value, and toggling DH's halt bit freezes or resumes the live clock.
func (m *mbc3) writeRTCRegister(index uint8, v uint8) {
	total := int64(m.elapsed() / time.Second)
	days := total / 86400
	secs := total % 60
	mins := (total / 60) % 60
	hours := (total / 3600) % 24

	switch index {
	case 0:
		secs = int64(v % 60)
	case 1:
		mins = int64(v % 60)
	case 2:
		hours = int64(v % 24)
	case 3:
		days = (days & 0x100) | int64(v)
	case 4:
		// DH only carries one day bit plus halt/carry; writing it redefines
		// the full 9-bit day count from DL's current low byte and this bit,
		// which is what actually clears a stuck overflow flag (unlike
		// leaving higher bits from a days value that had already wrapped
		// past the 9-bit range untouched).
		days = (days & 0xFF) | int64(v&dayHighDayBit8Mask)<<8
		m.halted = v&dayHighHaltBit != 0
	}

	m.accumulated = time.Duration(days*86400+hours*3600+mins*60+secs) * time.Second
	m.base = m.now()
}

func (m *mbc3) romAt(bank uint32, offset uint16) uint8 {
	idx := bank*0x4000 + uint32(offset)
	if int(idx) >= len(m.rom) {
		if len(m.rom) == 0 {
			return 0xFF
		}
		idx %= uint32(len(m.rom))
	}
	return m.rom[idx]
}

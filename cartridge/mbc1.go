package cartridge

// bankingMode selects what the 0x4000-0x5FFF register drives in MBC1.
type bankingMode uint8

const (
	simpleMode   bankingMode = 0
	advancedMode bankingMode = 1
)

// mbc1 implements the MBC1 chip: 5-bit ROM bank select, 2-bit RAM bank
// select (which also supplies the upper ROM bank bits in advanced mode),
// and a banking-mode latch.
type mbc1 struct {
	rom []byte
	ram []byte

	ramEnable bool
	romBank   uint8 // 5 bits
	ramBank   uint8 // 2 bits
	mode      bankingMode
}

func newMBC1(rom []byte, ramBanks int) *mbc1 {
	return &mbc1{
		rom:     rom,
		ram:     make([]byte, ramBanks*0x2000),
		romBank: 1,
	}
}

func (m *mbc1) ReadByte(a uint16) uint8 {
	switch {
	case a <= 0x3FFF:
		return m.romAt(0, a)
	case a >= 0x4000 && a <= 0x7FFF:
		bank := m.effectiveROMBank()
		return m.romAt(bank, a-0x4000)
	case a >= 0xA000 && a <= 0xBFFF:
		if !m.ramEnable || len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[m.ramOffset()+uint32(a-0xA000)]
	default:
		return 0xFF
	}
}

func (m *mbc1) WriteByte(a uint16, v uint8) {
	switch {
	case a <= 0x1FFF:
		m.ramEnable = v&0x0F == 0x0A
	case a >= 0x2000 && a <= 0x3FFF:
		bank := v & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case a >= 0x4000 && a <= 0x5FFF:
		m.ramBank = v & 0x03
	case a >= 0x6000 && a <= 0x7FFF:
		if v&1 == 0 {
			m.mode = simpleMode
		} else {
			m.mode = advancedMode
		}
	case a >= 0xA000 && a <= 0xBFFF:
		if !m.ramEnable || len(m.ram) == 0 {
			return
		}
		m.ram[m.ramOffset()+uint32(a-0xA000)] = v
	}
}

// effectiveROMBank folds the upper RAM-bank-select bits into the ROM bank
// number when in advanced mode, matching real MBC1 wiring.
func (m *mbc1) effectiveROMBank() uint32 {
	bank := uint32(m.romBank)
	if m.mode == advancedMode {
		bank |= uint32(m.ramBank) << 5
	}
	return bank
}

func (m *mbc1) ramOffset() uint32 {
	if m.mode == advancedMode {
		return uint32(m.ramBank) * 0x2000
	}
	return 0
}

func (m *mbc1) romAt(bank uint32, offset uint16) uint8 {
	idx := bank*0x4000 + uint32(offset)
	if int(idx) >= len(m.rom) {
		if len(m.rom) == 0 {
			return 0xFF
		}
		idx %= uint32(len(m.rom))
	}
	return m.rom[idx]
}

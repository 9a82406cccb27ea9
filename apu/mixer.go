package apu

// Precomputed non-linear mixer tables, per the NES's actual DAC
// response curve (nesdev.org/wiki/APU_Mixer). pulseTable is indexed by
// pulse1+pulse2 (0-30); tndTable is indexed by 3*triangle+2*noise+dmc
// (0-202).
var pulseTable [31]float32
var tndTable [203]float32

func init() {
	for n := range pulseTable {
		if n == 0 {
			continue
		}
		pulseTable[n] = 95.52 / (8128.0/float32(n) + 100.0)
	}
	for n := range tndTable {
		if n == 0 {
			continue
		}
		tndTable[n] = 163.67 / (24329.0/float32(n) + 100.0)
	}
}

func mix(pulse1, pulse2, triangle, noise, dmc uint8) float32 {
	p := pulseTable[pulse1+pulse2]
	t := tndTable[3*uint16(triangle)+2*uint16(noise)+uint16(dmc)]
	return p + t
}

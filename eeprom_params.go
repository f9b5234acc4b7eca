package eebridge

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

type eepromParams struct {
	name string

	capacity int // bytes
	pageSize int // bytes per page write buffer
	tWC      time.Duration
}

var knownEEPROM = map[string]eepromParams{
	// [24AA512|1.0 Electrical Characteristics]
	// tWC: Write cycle time (byte or page), 5 ms max
	// Page write buffer: 128 bytes
	"24AA512": {
		name:     "Microchip 24AA512 512Kb",
		capacity: 64 << 10,
		pageSize: 128,
		tWC:      5 * time.Millisecond,
	},
	"24LC512": {
		name:     "Microchip 24LC512 512Kb",
		capacity: 64 << 10,
		pageSize: 128,
		tWC:      5 * time.Millisecond,
	},
	"24FC512": {
		name:     "Microchip 24FC512 512Kb",
		capacity: 64 << 10,
		pageSize: 128,
		tWC:      5 * time.Millisecond,
	},
}

// lookupEEPROM returns the parameters of a supported chip. Names are matched
// case-insensitively.
func lookupEEPROM(chip string) (eepromParams, bool) {
	p, ok := knownEEPROM[strings.ToUpper(strings.TrimSpace(chip))]
	return p, ok
}

// SupportedChips lists the chip names accepted by Configure and by the mode
// selector.
func SupportedChips() []string {
	names := make([]string, 0, len(knownEEPROM))
	for name := range knownEEPROM {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// paramOrMax returns the configured parameter, or the most conservative
// value across all known parts.
func paramOrMax[T cmp.Ordered](e *EEPROM, get func(*eepromParams) T) T {
	// get parameter if configured
	if e.pr != nil {
		return get(e.pr)
	}

	// fall back to the most conservative value from all known parts
	var pmax T
	for _, param := range knownEEPROM {
		pmax = max(pmax, get(&param))
	}
	return pmax
}

// MinPageSize is the smallest page write buffer among the supported chips.
// A chunk no larger than it fits in one page of any of them.
func MinPageSize() int {
	pmin := 0
	for _, param := range knownEEPROM {
		if pmin == 0 || param.pageSize < pmin {
			pmin = param.pageSize
		}
	}
	return pmin
}

func (e *EEPROM) tWC() time.Duration {
	return paramOrMax(e, func(p *eepromParams) time.Duration { return p.tWC })
}

// Capacity returns the size of the memory array in bytes.
func (e *EEPROM) Capacity() int {
	return paramOrMax(e, func(p *eepromParams) int { return p.capacity })
}

// PageSize returns the size of the page write buffer. Without a configured
// chip it is the smallest known page so writes never roll over.
func (e *EEPROM) PageSize() int {
	if e.pr != nil {
		return e.pr.pageSize
	}
	return MinPageSize()
}

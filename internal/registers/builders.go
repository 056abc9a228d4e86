// internal/registers/builders.go
package registers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrDecimalPlaces = errors.New("registers: malformed decimal places")

// errSkip makes the compiler drop the anchor row without failing.
var errSkip = errors.New("registers: row skipped")

const maxWords = 4

func buildInteger(w *Window) (Register, error) {
	return anchorRegister(w, Integer)
}

func buildDecimal(w *Window) (Register, error) {
	reg, err := anchorRegister(w, Decimal)
	if err != nil {
		return Register{}, err
	}

	typ := w.Cell(FieldType)
	tokens := strings.Fields(typ)
	if len(tokens) < 2 {
		return Register{}, fmt.Errorf("%w: %q has no place count", ErrDecimalPlaces, typ)
	}
	places, err := strconv.Atoi(tokens[1])
	if err != nil || places < 0 {
		return Register{}, fmt.Errorf("%w: %q", ErrDecimalPlaces, typ)
	}
	reg.Places = places
	return reg, nil
}

func buildValueMap(w *Window) (Register, error) {
	reg, err := anchorRegister(w, ValueMap)
	if err != nil {
		return Register{}, err
	}

	cols := w.Columns()
	reg.Map = map[int64]int64{}

	for {
		row, ok := w.Next()
		if !ok {
			break
		}
		raw := firstNonEmpty(cols.Cell(row, FieldValue), cols.Cell(row, FieldMin), cols.Cell(row, FieldMax))
		if raw == "" {
			w.Logger().Warn().Int("line", w.Line()).Int("register", reg.Number).Msg("map row skipped (no value)")
			continue
		}
		key, err := parseInt(raw)
		if err != nil {
			return Register{}, fmt.Errorf("%w: map value %q: %v", ErrBadCell, raw, err)
		}
		mappedRaw := firstNonEmpty(cols.Cell(row, FieldTag), raw)
		mapped, err := parseInt(mappedRaw)
		if err != nil {
			return Register{}, fmt.Errorf("%w: mapped value %q: %v", ErrBadCell, mappedRaw, err)
		}
		w.Logger().Debug().
			Int("register", reg.Number).
			Int64("value", key).
			Int64("mapped", mapped).
			Str("description", cols.Cell(row, FieldDescription)).
			Msg("value mapped")
		reg.Map[key] = mapped
	}

	return reg, nil
}

func buildBitMask(w *Window) (Register, error) {
	reg, err := anchorBase(w, BitMask)
	if err != nil {
		return Register{}, err
	}

	cols := w.Columns()

	for {
		row, ok := w.Next()
		if !ok {
			break
		}
		tag := cols.Cell(row, FieldTag)
		if tag == "" {
			w.Logger().Debug().Int("line", w.Line()).Msg("bit row skipped (no tag)")
			continue
		}
		raw := firstNonEmpty(cols.Cell(row, FieldMin), cols.Cell(row, FieldMax))
		if raw == "" {
			w.Logger().Warn().Int("line", w.Line()).Str("tag", tag).Msg("bit row skipped (no value)")
			continue
		}
		value, err := parseInt(raw)
		if err != nil {
			return Register{}, fmt.Errorf("%w: bit value %q: %v", ErrBadCell, raw, err)
		}
		if _, _, ok := SplitTag(tag); !ok {
			w.Logger().Warn().Int("line", w.Line()).Str("tag", tag).Msg("bit row skipped (tag needs exactly one '.')")
			continue
		}
		if value <= 0 || value&(value-1) != 0 {
			w.Logger().Warn().Int("line", w.Line()).Int64("bit", value).Str("tag", tag).Msg("bit value is not a power of two")
		}
		reg.Bits = setBit(reg.Bits, Bit{
			Value:       value,
			Tag:         tag,
			Description: cols.Cell(row, FieldDescription),
		})
	}

	return reg, nil
}

// setBit replaces an entry with the same bit value in place, or appends.
func setBit(bits []Bit, b Bit) []Bit {
	for i := range bits {
		if bits[i].Value == b.Value {
			bits[i] = b
			return bits
		}
	}
	return append(bits, b)
}

// anchorRegister reads the common fields plus a tag of the anchor row.
func anchorRegister(w *Window, kind Kind) (Register, error) {
	reg, err := anchorBase(w, kind)
	if err != nil {
		return Register{}, err
	}
	reg.Tag = w.Cell(FieldTag)
	reg.Description = w.Cell(FieldDescription)

	if _, _, ok := SplitTag(reg.Tag); !ok {
		w.Logger().Warn().
			Int("line", w.Line()).
			Int("register", reg.Number).
			Str("tag", reg.Tag).
			Msg("register skipped (tag needs exactly one '.')")
		return Register{}, errSkip
	}
	return reg, nil
}

func anchorBase(w *Window, kind Kind) (Register, error) {
	number, err := positiveInt(w.Cell(FieldNumber), "register number")
	if err != nil {
		return Register{}, err
	}
	size, err := positiveInt(w.Cell(FieldSize), "register size")
	if err != nil {
		return Register{}, err
	}
	if size > maxWords {
		return Register{}, fmt.Errorf("%w: register %d size %d exceeds %d words", ErrBadCell, number, size, maxWords)
	}

	reg := Register{
		Kind:   kind,
		Number: number,
		Size:   size,
		Group:  w.Cell(FieldGroup),
	}

	if s := w.Cell(FieldInterval); s != "" {
		secs, err := strconv.Atoi(s)
		if err != nil || secs < 0 {
			return Register{}, fmt.Errorf("%w: register %d interval %q", ErrBadCell, number, s)
		}
		reg.Interval = time.Duration(secs) * time.Second
	}

	return reg, nil
}

func positiveInt(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s %q", ErrBadCell, what, s)
	}
	return n, nil
}

// parseInt accepts decimal and 0x-prefixed hexadecimal integers.
func parseInt(s string) (int64, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return strconv.ParseInt(s[2:], 16, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

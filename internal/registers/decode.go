// internal/registers/decode.go
package registers

import "math"

// Decode converts the raw integer read for reg into tag values.
// Pure. Never fails.
func Decode(reg Register, raw int64) []TagValue {
	switch reg.Kind {
	case Integer:
		return []TagValue{{Tag: reg.Tag, Description: reg.Description, Value: raw}}

	case Decimal:
		return []TagValue{{
			Tag:         reg.Tag,
			Description: reg.Description,
			Value:       float64(raw) / math.Pow10(reg.Places),
		}}

	case ValueMap:
		var v any
		if mapped, ok := reg.Map[raw]; ok {
			v = mapped
		}
		return []TagValue{{Tag: reg.Tag, Description: reg.Description, Value: v}}

	case BitMask:
		var out []TagValue
		for _, b := range reg.Bits {
			if raw&b.Value != 0 {
				out = append(out, TagValue{Tag: b.Tag, Description: b.Description, Value: true})
			}
		}
		return out
	}
	return nil
}

// Int folds big-endian words into one signed integer.
// 1, 2 and 4 words are int16, int32 and int64; 3 words are a signed 48-bit value.
func Int(words []uint16) int64 {
	var u uint64
	for _, w := range words {
		u = u<<16 | uint64(w)
	}
	bits := uint(16 * len(words))
	if bits == 0 || bits >= 64 {
		return int64(u)
	}
	// sign-extend
	shift := 64 - bits
	return int64(u<<shift) >> shift
}

// internal/writer/format.go
package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tamzrod/modbus-gateway/internal/registers"
)

// timeKey is written first in every payload and is reserved.
const timeKey = "time"

// Topic derives the measurement topic of a group.
func Topic(root, device, group string) string {
	return root + "/device/" + device + "///m/" + group
}

type field struct {
	key   string
	value any
}

// object keeps second-level keys in first-appearance order.
type object struct {
	key    string
	fields []field
}

func (o *object) set(key string, value any) {
	for i := range o.fields {
		if o.fields[i].key == key {
			o.fields[i].value = value
			return
		}
	}
	o.fields = append(o.fields, field{key: key, value: value})
}

// Format folds tag values into one measurement message.
//
// Each tag is split into exactly two levels; tags that do not split, and
// tags whose first level is "time", are dropped. Key order follows the
// order of values. Later duplicates overwrite earlier ones in place.
func Format(ts time.Time, root, device, group string, values []registers.TagValue) (Message, error) {
	var objects []*object
	index := make(map[string]*object)

	for _, tv := range values {
		l0, l1, ok := registers.SplitTag(tv.Tag)
		if !ok || l0 == timeKey {
			continue
		}
		o := index[l0]
		if o == nil {
			o = &object{key: l0}
			index[l0] = o
			objects = append(objects, o)
		}
		o.set(l1, tv.Value)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, timeKey, ts.UTC().Truncate(time.Second).Format(time.RFC3339)); err != nil {
		return Message{}, err
	}

	for _, o := range objects {
		buf.WriteByte(',')
		if err := writeKey(&buf, o.key); err != nil {
			return Message{}, err
		}
		buf.WriteByte('{')
		for i, f := range o.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeMember(&buf, f.key, f.value); err != nil {
				return Message{}, fmt.Errorf("writer: %s.%s: %w", o.key, f.key, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	return Message{
		Topic:   Topic(root, device, group),
		Payload: buf.Bytes(),
	}, nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	if err := writeKey(buf, key); err != nil {
		return err
	}
	if f, ok := value.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1e21 {
		// decimals stay floats on the wire: 10.0, not 10
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		buf.WriteString(".0")
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

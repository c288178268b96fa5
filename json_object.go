package fintrack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// object collects the members of a JSON object in the order they are set.
// Its zero value is an empty object.
type object struct {
	members []member
	err     error
}

type member struct {
	key   string
	value json.RawMessage
}

// set adds key with value encoded by json.Marshal. The first encoding error
// is kept and returned by MarshalJSON.
func (o *object) set(key string, value any) {
	if o.err != nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return
	}
	o.members = append(o.members, member{key, raw})
}

// setNonZero adds key only when value is not zero. Types with an IsZero
// method (Money, dates) decide for themselves.
func (o *object) setNonZero(key string, value any) {
	if isZero(value) {
		return
	}
	o.set(key, value)
}

func isZero(value any) bool {
	if z, ok := value.(interface{ IsZero() bool }); ok {
		return z.IsZero()
	}
	v := reflect.ValueOf(value)
	return !v.IsValid() || v.IsZero()
}

// MarshalJSON implements json.Marshaler.
func (o *object) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(m.key)
		b.Write(key)
		b.WriteByte(':')
		b.Write(m.value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

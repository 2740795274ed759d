package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

type optionalState uint8

const (
	optionalAbsent optionalState = iota
	optionalNull
	optionalValue
)

// Optional は 未指定 / 明示的なnull / 値 の3状態を持つ。
// 未指定のフィールドは MarshalPartial で出力から落とす。
type Optional[T any] struct {
	state optionalState
	value T
}

func Absent[T any]() Optional[T] { return Optional[T]{} }

func Null[T any]() Optional[T] { return Optional[T]{state: optionalNull} }

func Some[T any](v T) Optional[T] { return Optional[T]{state: optionalValue, value: v} }

func (o Optional[T]) IsAbsent() bool { return o.state == optionalAbsent }
func (o Optional[T]) IsNull() bool   { return o.state == optionalNull }

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == optionalValue
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != optionalValue {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

type absentChecker interface {
	IsAbsent() bool
}

// MarshalPartial は Optional が未指定のフィールドを省いてJSONにする。
func MarshalPartial(v any) ([]byte, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	rt := rv.Type()

	out := make(map[string]json.RawMessage, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" {
			name = tag
		}
		fv := rv.Field(i)
		if ac, ok := fv.Interface().(absentChecker); ok && ac.IsAbsent() {
			continue
		}
		raw, err := json.Marshal(fv.Interface())
		if err != nil {
			return nil, err
		}
		out[name] = raw
	}
	return json.Marshal(out)
}

func (p AdminUserUpdatePayload) MarshalJSON() ([]byte, error) {
	type plain AdminUserUpdatePayload
	return MarshalPartial(plain(p))
}

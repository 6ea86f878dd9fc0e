package dashpages

import (
	"fmt"
	"reflect"
)

// depRegistry holds the dependencies handed to Load, keyed by their type.
type depRegistry map[reflect.Type]reflect.Value

func (deps depRegistry) add(v any) error {
	if v == nil {
		return nil
	}
	typ := reflect.TypeOf(v)
	if _, ok := deps[typ]; ok {
		return fmt.Errorf("duplicate dependency of type %s", typ)
	}
	deps[typ] = reflect.ValueOf(v)
	return nil
}

// get finds a dependency assignable to typ. An exact type match wins over an
// interface match; among interface matches the result is unspecified.
func (deps depRegistry) get(typ reflect.Type) (reflect.Value, bool) {
	if v, ok := deps[typ]; ok {
		return v, true
	}
	if typ.Kind() != reflect.Ptr {
		if v, ok := deps[reflect.PointerTo(typ)]; ok && !v.IsNil() {
			return v.Elem(), true
		}
	}
	for t, v := range deps {
		if t.AssignableTo(typ) {
			return v, true
		}
	}
	return reflect.Value{}, false
}

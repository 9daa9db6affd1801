package restmodel

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct
// field's external key used during marshalling.
// Priority: restmodel:"name=..." > json tag name > field name; "-" disables
// the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("restmodel"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// extract reads key from source using the by-key accessor for mappings and
// the by-attribute accessor (struct field, then property-style getter method)
// for objects. The boolean reports whether the key was present at all;
// marshalling treats absent and nil alike, but callers may care.
func extract(source any, key string) (any, bool) {
	if source == nil {
		return nil, false
	}
	switch s := source.(type) {
	case map[string]any:
		v, ok := s[key]
		return v, ok
	case map[string]string:
		v, ok := s[key]
		if !ok {
			return nil, false
		}
		return v, true
	case *OrderedMap:
		return s.Get(key)
	case OrderedMap:
		return s.Get(key)
	}

	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if !sf.IsExported() {
				continue
			}
			if ResolveStructKey(sf) == key {
				return rv.Field(i).Interface(), true
			}
		}
		if v, ok := callGetter(reflect.ValueOf(source), key); ok {
			return v, true
		}
		if v, ok := callGetter(rv, key); ok {
			return v, true
		}
	}
	return nil, false
}

// callGetter supports property-style attributes: an exported niladic method
// whose name is the exported form of key, returning a single value.
func callGetter(rv reflect.Value, key string) (any, bool) {
	m := rv.MethodByName(exportedName(key))
	if !m.IsValid() {
		return nil, false
	}
	mt := m.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 {
		return nil, false
	}
	return m.Call(nil)[0].Interface(), true
}

func exportedName(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

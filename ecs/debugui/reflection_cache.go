package debugui

import (
	"reflect"
	"sync"
)

// fieldInfo describes one exported struct field for the inspector.
type fieldInfo struct {
	Name      string
	Index     int
	IsPointer bool
}

// reflectionCache memoizes the exported-field layout of component types so
// the inspector does not re-walk struct types every frame.
type reflectionCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]fieldInfo
}

func (rc *reflectionCache) GetFields(t reflect.Type) []fieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fields[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, ok := rc.fields[t]; ok {
		return cached
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			fields = append(fields, fieldInfo{
				Name:      field.Name,
				Index:     i,
				IsPointer: field.Type.Kind() == reflect.Ptr,
			})
		}
	}

	rc.fields[t] = fields
	return fields
}

var globalReflectionCache = &reflectionCache{fields: make(map[reflect.Type][]fieldInfo)}

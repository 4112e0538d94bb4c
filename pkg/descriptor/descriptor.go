package descriptor

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies how a value is generated.
type Kind int

const (
	// KindUnsupported marks values the engine cannot generate
	// (functions, channels, bare interfaces).
	KindUnsupported Kind = iota

	// KindPrimitive covers numbers, strings, booleans, times, durations,
	// UUIDs, and byte sequences.
	KindPrimitive

	// KindEnum covers types with an explicitly registered legal value set.
	KindEnum

	// KindStruct covers nested structured types, populated recursively.
	KindStruct

	// KindCollection covers slices, arrays, and maps of supported kinds.
	KindCollection
)

// String returns a short name for the kind, used in logs and skip reasons.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindCollection:
		return "collection"
	default:
		return "unsupported"
	}
}

// Property describes one settable member of an entity type.
type Property struct {
	// Name is the exported field name, unique within its type.
	Name string

	// Index is the field's index within the struct.
	Index int

	// Type is the property's Go type.
	Type reflect.Type

	// Kind is the generation classification of Type.
	Kind Kind

	// Settable reports whether the engine may assign the property.
	// Only exported fields are settable.
	Settable bool

	// EnumValues holds the legal value set when Kind is KindEnum.
	EnumValues []reflect.Value
}

// Eligible reports whether the property participates in random population.
func (p *Property) Eligible() bool {
	return p.Settable && p.Kind != KindUnsupported
}

// Type describes an entity type: its identity, whether a zero value can be
// constructed for it, and its properties in declaration order.
type Type struct {
	// GoType is the described type, with any pointer indirection removed.
	GoType reflect.Type


	// Properties lists all exported fields in declaration order.
	Properties []Property
}

// Property returns the named property, or nil if the type has none by that name.
func (t *Type) Property(name string) *Property {
	for i := range t.Properties {
		if t.Properties[i].Name == name {
			return &t.Properties[i]
		}
	}
	return nil
}

// IDProperty returns the property conventionally identified as the entity's
// identifier: a field named "ID" or "Id", or "<TypeName>ID". Returns nil when
// no such property exists.
func (t *Type) IDProperty() *Property {
	typeName := t.GoType.Name()
	for i := range t.Properties {
		name := t.Properties[i].Name
		if name == "ID" || name == "Id" {
			return &t.Properties[i]
		}
		if typeName != "" && strings.EqualFold(name, typeName+"ID") {
			return &t.Properties[i]
		}
	}
	return nil
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
)

// isPrimitive reports whether t is generated as a single primitive value.
func isPrimitive(t reflect.Type) bool {
	switch t {
	case timeType, durationType, uuidType:
		return true
	}
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		// Byte sequences are primitive blobs, not collections.
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// indirect strips one level of pointer indirection.
func indirect(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// errNotStruct is returned by Describe for non-struct types.
func errNotStruct(t reflect.Type) error {
	return fmt.Errorf("descriptor: %s is not a struct type", t)
}

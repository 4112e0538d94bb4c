package builder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/getfixtr/fixtr/pkg/constraint"
	"github.com/getfixtr/fixtr/pkg/descriptor"
)

// Engine assigns random values to every eligible property of an entity,
// recursing into nested structured properties with a depth budget and a
// cycle guard, and applying constraint rules after the base assignment.
//
// The engine holds no per-call state; a recursion context is created per
// Populate call, so one engine serves concurrent callers.
type Engine struct {
	cfg      Config
	registry *Registry
}

// recursion tracks the chain of entity types currently being populated.
// Depth is the chain length; a type appearing twice would mean a cycle.
type recursion struct {
	chain []reflect.Type
}

func (rc *recursion) depth() int { return len(rc.chain) }

func (rc *recursion) contains(t reflect.Type) bool {
	for _, c := range rc.chain {
		if c == t {
			return true
		}
	}
	return false
}

func (rc *recursion) push(t reflect.Type) { rc.chain = append(rc.chain, t) }
func (rc *recursion) pop()                { rc.chain = rc.chain[:len(rc.chain)-1] }

// errRedrawUnavailable signals that a constraint redraw could not produce a
// fresh value (the underlying generation was itself skipped).
var errRedrawUnavailable = errors.New("builder: redraw unavailable")

// Populate assigns random values to every eligible property of target, which
// must be a non-nil pointer (possibly chained) to a struct. It never fails
// for per-property conditions; the returned report lists everything skipped.
func (e *Engine) Populate(target any) *Report {
	report := &Report{}

	v := reflect.ValueOf(target)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			report.add("", ReasonUnsupported, fmt.Errorf("builder: populate target is a nil %s", v.Type()))
			return report
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct || !v.CanSet() {
		report.add("", ReasonUnsupported, fmt.Errorf("builder: populate target must be a settable struct, got %s", v.Type()))
		return report
	}

	e.populateStruct(v, &recursion{}, report, "")
	return report
}

// populateStruct fills every eligible property of the addressable struct v.
func (e *Engine) populateStruct(v reflect.Value, rc *recursion, report *Report, path string) {
	t := v.Type()
	desc, err := e.cfg.Descriptors.Describe(t)
	if err != nil {
		report.add(path, ReasonUnsupported, err)
		return
	}

	rc.push(t)
	defer rc.pop()

	for i := range desc.Properties {
		prop := &desc.Properties[i]
		propPath := joinPath(path, prop.Name)
		if !prop.Eligible() {
			report.add(propPath, ReasonUnsupported, nil)
			e.cfg.Logger.Debug("property skipped", "property", propPath, "reason", ReasonUnsupported)
			continue
		}
		e.populateProperty(v, t, prop, rc, report, propPath)
	}
}

// populateProperty draws a base random value, runs the property's constraint
// rules in declaration order, and assigns the result. Assignment rejections
// are recovered here so one incompatible property cannot abort the entity.
func (e *Engine) populateProperty(owner reflect.Value, ownerType reflect.Type, prop *descriptor.Property, rc *recursion, report *Report, path string) {
	base, ok := e.valueFor(prop.Type, prop, rc, report, path)
	if !ok {
		return // reason already recorded
	}
	drawn := base.Interface()

	if rules := e.cfg.Constraints.Rules(ownerType, prop.Name); len(rules) > 0 {
		redraw := func() (any, error) {
			v, ok := e.valueFor(prop.Type, prop, rc, report, path)
			if !ok {
				return nil, errRedrawUnavailable
			}
			return v.Interface(), nil
		}
		drawn = e.applyRules(rules, ownerType, prop, drawn, redraw, report, path)
	}

	if err := e.assign(owner, prop, drawn); err != nil {
		report.add(path, ReasonAssignment, err)
		e.cfg.Logger.Debug("property assignment rejected", "property", path, "error", err)
	}
}

// applyRules runs the property's compute-or-veto rules in declaration order.
// A veto redraws the base value and restarts the list from the first rule, so
// every rule holds for the value finally assigned; the redraw budget is
// shared across the rules. Rule errors and exhausted budgets both degrade to
// keeping the last drawn value; both are observable through the log and (for
// budgets) the report.
func (e *Engine) applyRules(rules []constraint.Rule, ownerType reflect.Type, prop *descriptor.Property, drawn any, redraw func() (any, error), report *Report, path string) any {
	attempt := 0
	for {
		value := drawn
		vetoed := false
		for _, rule := range rules {
			out, err := rule.Apply(&constraint.Context{
				EntityType: ownerType,
				Property:   prop,
				Drawn:      value,
				Attempt:    attempt,
				Redraw:     redraw,
				Tracker:    e.cfg.Tracker,
				Source:     e.cfg.Source,
			})
			if err != nil {
				e.cfg.Logger.Debug("constraint rule error", "property", path, "rule", rule.Name(), "error", err)
				continue
			}
			if out.Veto {
				if attempt >= e.cfg.RetryCap {
					report.add(path, ReasonRetries, nil)
					e.cfg.Logger.Debug("constraint retries exhausted", "property", path, "rule", rule.Name())
					return value
				}
				vetoed = true
				break
			}
			value = out.Value
		}
		if !vetoed {
			return value
		}
		attempt++
		next, err := redraw()
		if err != nil {
			return value
		}
		drawn = next
	}
}

// valueFor produces a random value of type t. prop is non-nil when the value
// is being generated for a property directly (it carries the name used for
// domain heuristics and the registered enum values); it is nil for collection
// elements and map keys. Returns ok=false when the value must be skipped,
// with the reason already recorded in the report.
func (e *Engine) valueFor(t reflect.Type, prop *descriptor.Property, rc *recursion, report *Report, path string) (reflect.Value, bool) {
	switch e.cfg.Descriptors.Classify(t) {
	case descriptor.KindPrimitive:
		name := ""
		if prop != nil {
			name = prop.Name
		}
		if t.Kind() == reflect.Pointer {
			ptr := reflect.New(t.Elem())
			ptr.Elem().Set(e.primitive(t.Elem(), name))
			return ptr, true
		}
		return e.primitive(t, name), true

	case descriptor.KindEnum:
		elem := t
		if elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		values := e.enumValues(elem, prop)
		if len(values) == 0 {
			report.add(path, ReasonUnsupported, fmt.Errorf("builder: enum %s has no registered values", elem))
			return reflect.Value{}, false
		}
		picked := e.convert(values[e.pickIndex(len(values))], elem)
		if t.Kind() == reflect.Pointer {
			ptr := reflect.New(elem)
			ptr.Elem().Set(picked)
			return ptr, true
		}
		return picked, true

	case descriptor.KindStruct:
		return e.nested(t, rc, report, path)

	case descriptor.KindCollection:
		return e.collection(t, rc, report, path)

	default:
		report.add(path, ReasonUnsupported, nil)
		return reflect.Value{}, false
	}
}

// nested builds and populates a nested structured value, honoring the depth
// budget and cycle guard. Deeply nested and self-referential graphs are
// common; hitting a guard is a silent skip, not an error.
func (e *Engine) nested(t reflect.Type, rc *recursion, report *Report, path string) (reflect.Value, bool) {
	isPtr := t.Kind() == reflect.Pointer
	elem := t
	if isPtr {
		elem = t.Elem()
	}

	if rc.depth() >= e.cfg.MaxDepth {
		report.add(path, ReasonDepth, nil)
		return reflect.Value{}, false
	}
	if rc.contains(elem) {
		report.add(path, ReasonCycle, nil)
		return reflect.Value{}, false
	}

	res, err := e.registry.resolveType(elem)
	if err != nil {
		report.add(path, ReasonConstruction, err)
		return reflect.Value{}, false
	}
	ptr, err := res.construct()
	if err != nil {
		report.add(path, ReasonConstruction, err)
		return reflect.Value{}, false
	}

	e.populateStruct(ptr.Elem(), rc, report, path)

	if isPtr {
		return ptr, true
	}
	return ptr.Elem(), true
}

// collection generates a small random-length slice or map, or fills an
// array, using the same recursive rules per element. An element that must be
// skipped skips the whole collection property.
func (e *Engine) collection(t reflect.Type, rc *recursion, report *Report, path string) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.Slice:
		n := e.cfg.Source.Int(1, e.cfg.MaxCollectionLen)
		out := reflect.MakeSlice(t, 0, n)
		for i := 0; i < n; i++ {
			ev, ok := e.valueFor(t.Elem(), nil, rc, report, elemPath(path, i))
			if !ok {
				return reflect.Value{}, false
			}
			out = reflect.Append(out, ev)
		}
		return out, true

	case reflect.Array:
		out := reflect.New(t).Elem()
		for i := 0; i < t.Len(); i++ {
			ev, ok := e.valueFor(t.Elem(), nil, rc, report, elemPath(path, i))
			if !ok {
				return reflect.Value{}, false
			}
			out.Index(i).Set(ev)
		}
		return out, true

	case reflect.Map:
		n := e.cfg.Source.Int(1, e.cfg.MaxCollectionLen)
		out := reflect.MakeMapWithSize(t, n)
		for i := 0; i < n; i++ {
			kv, ok := e.valueFor(t.Key(), nil, rc, report, elemPath(path, i))
			if !ok {
				return reflect.Value{}, false
			}
			vv, ok := e.valueFor(t.Elem(), nil, rc, report, elemPath(path, i))
			if !ok {
				return reflect.Value{}, false
			}
			out.SetMapIndex(kv, vv)
		}
		return out, true

	default:
		report.add(path, ReasonUnsupported, nil)
		return reflect.Value{}, false
	}
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// primitive draws a primitive value of type t, using the property name for
// domain-shaped string heuristics where one applies.
func (e *Engine) primitive(t reflect.Type, propName string) reflect.Value {
	src := e.cfg.Source

	switch t {
	case timeType:
		return reflect.ValueOf(src.Date(time.Time{}, time.Time{}))
	case durationType:
		return reflect.ValueOf(src.Duration(0))
	case uuidType:
		if parsed, err := uuid.Parse(src.UUID()); err == nil {
			return reflect.ValueOf(parsed)
		}
		return reflect.ValueOf(uuid.New())
	}

	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return e.convert(reflect.ValueOf(src.Bytes(0)), t)
	}

	var raw any
	switch t.Kind() {
	case reflect.Bool:
		raw = src.Bool()
	case reflect.String:
		raw = e.domainString(propName)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		raw = src.Int64(0, int64(smallIntMax(t.Kind())))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		raw = src.Int64(0, int64(smallIntMax(t.Kind())))
	case reflect.Float32, reflect.Float64:
		raw = src.Float64(0, 0)
	default:
		raw = ""
	}
	return e.convert(reflect.ValueOf(raw), t)
}

// smallIntMax narrows the default integer range for small integer kinds so
// the conversion cannot overflow.
func smallIntMax(k reflect.Kind) int {
	switch k {
	case reflect.Int8, reflect.Uint8:
		return 127
	case reflect.Int16, reflect.Uint16:
		return 32767
	default:
		return 1000
	}
}

// domainString maps common property names to realistic values, the same
// heuristic the mock-response world applies to schema property names.
func (e *Engine) domainString(propName string) string {
	src := e.cfg.Source
	lower := strings.ToLower(propName)

	switch {
	case strings.HasSuffix(lower, "email"):
		return src.Email()
	case lower == "url" || lower == "uri" || lower == "href" || lower == "link" || lower == "website":
		return src.URL()
	case lower == "host" || lower == "hostname" || lower == "domain":
		return src.Hostname()
	case lower == "filename" || lower == "file" || strings.HasSuffix(lower, "path"):
		return src.Filename()
	case lower == "version":
		return src.Version()
	case lower == "name" || strings.HasSuffix(lower, "name"):
		return src.Name()
	case lower == "description" || lower == "bio" || lower == "summary" || lower == "about":
		return src.Words(0)
	case lower == "id" || lower == "uuid" || lower == "guid" || strings.HasSuffix(lower, "uuid"):
		return src.UUID()
	case lower == "ulid" || strings.HasSuffix(lower, "ulid"):
		return src.ULID()
	case lower == "token" || lower == "nonce" || lower == "shortid":
		return src.ShortID()
	default:
		return src.Text(0, 0)
	}
}

// enumValues prefers the values already captured on the property descriptor,
// falling back to the registry for collection elements.
func (e *Engine) enumValues(t reflect.Type, prop *descriptor.Property) []reflect.Value {
	if prop != nil && len(prop.EnumValues) > 0 && prop.Type == t {
		return prop.EnumValues
	}
	return e.cfg.Descriptors.EnumValues(t)
}

// pickIndex draws a uniform index in [0, n).
func (e *Engine) pickIndex(n int) int {
	if n <= 1 {
		return 0
	}
	return e.cfg.Source.Int(0, n-1)
}

// convert adapts v to type t, so named primitive types (type Status string)
// receive values of their own type.
func (e *Engine) convert(v reflect.Value, t reflect.Type) reflect.Value {
	if !v.IsValid() {
		return reflect.Zero(t)
	}
	if v.Type() == t {
		return v
	}
	if v.Type().ConvertibleTo(t) {
		return v.Convert(t)
	}
	return reflect.Zero(t)
}

// assign writes value to the property, preferring a validating setter method
// (Set<Name>, optionally returning error) when the entity declares one.
// Panics from setters or reflective sets are recovered and reported as
// rejections so population continues with the next property.
func (e *Engine) assign(owner reflect.Value, prop *descriptor.Property, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("builder: assignment panicked: %v", r)
		}
	}()

	rv := reflect.ValueOf(value)
	field := owner.Field(prop.Index)

	if setter := owner.Addr().MethodByName("Set" + prop.Name); setter.IsValid() {
		st := setter.Type()
		if st.NumIn() == 1 && (st.NumOut() == 0 || (st.NumOut() == 1 && st.Out(0) == errorType)) {
			arg := e.convert(rv, st.In(0))
			out := setter.Call([]reflect.Value{arg})
			if len(out) == 1 && !out[0].IsNil() {
				return fmt.Errorf("builder: setter Set%s rejected value: %w", prop.Name, out[0].Interface().(error))
			}
			return nil
		}
	}

	if !rv.IsValid() {
		field.SetZero()
		return nil
	}
	if rv.Type() != field.Type() {
		if !rv.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("builder: %s is not assignable to %s", rv.Type(), field.Type())
		}
		rv = rv.Convert(field.Type())
	}
	field.Set(rv)
	return nil
}

// standalone generates a value of type t outside any entity, for the facade's
// primitive fast path. Struct types are rejected; they go through Resolve.
func (e *Engine) standalone(t reflect.Type) (any, error) {
	if e.cfg.Descriptors.Classify(t) == descriptor.KindStruct {
		return nil, fmt.Errorf("builder: %s is a structured type; resolve a builder for it", t)
	}
	report := &Report{}
	v, ok := e.valueFor(t, nil, &recursion{}, report, t.String())
	if !ok {
		err := fmt.Errorf("builder: cannot generate %s", t)
		if len(report.Skipped) > 0 && report.Skipped[0].Err != nil {
			err = fmt.Errorf("builder: cannot generate %s: %w", t, report.Skipped[0].Err)
		}
		return nil, err
	}
	return v.Interface(), nil
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func elemPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

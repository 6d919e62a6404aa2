package bscmp

import (
	"fmt"
	"strconv"
	"strings"
)

// StateSlot declares one named, URL-serializable piece of component state.
//
// Slots are declared once per widget type and shared by all instances; the
// per-instance values live in the component's State.
type StateSlot interface {
	Name() string
	Default() any
	// Load decodes a URL parameter. Malformed input fails with ErrBadParam.
	Load(raw string) (any, error)
	// Dump encodes a value. Values of the wrong type fail with ErrSlotType.
	Dump(v any) (string, error)
}

// Slot is a typed StateSlot.
type Slot[T any] struct {
	name string
	def  T
	load func(string) (T, error)
	dump func(T) string
}

// NewSlot declares a slot with custom conversions. dump must be the inverse
// of load for every value load can produce.
func NewSlot[T any](name string, def T, load func(string) (T, error), dump func(T) string) *Slot[T] {
	return &Slot[T]{name: name, def: def, load: load, dump: dump}
}

// IntSlot declares a base-10 integer slot.
func IntSlot(name string, def int) *Slot[int] {
	return NewSlot(name, def, strconv.Atoi, strconv.Itoa)
}

// BoolSlot declares a boolean slot encoded as "1" or "0".
func BoolSlot(name string, def bool) *Slot[bool] {
	return NewSlot(name, def, parseBool, func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	})
}

// StringSlot declares a slot holding the raw parameter string.
func StringSlot(name string, def string) *Slot[string] {
	return NewSlot(name, def, func(s string) (string, error) { return s, nil }, func(s string) string { return s })
}

func parseBool(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, fmt.Errorf("want 1 or 0")
}

func (s *Slot[T]) Name() string {
	return s.name
}

func (s *Slot[T]) Default() any {
	return s.def
}

func (s *Slot[T]) Load(raw string) (any, error) {
	v, err := s.load(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q: %v", ErrBadParam, s.name, raw, err)
	}
	return v, nil
}

func (s *Slot[T]) Dump(v any) (string, error) {
	tv, ok := v.(T)
	if !ok {
		return "", fmt.Errorf("%w: %s got %T", ErrSlotType, s.name, v)
	}
	return s.dump(tv), nil
}

// Get returns the slot's current value on c.
// It panics if c does not declare the slot.
func (s *Slot[T]) Get(c Stateful) T {
	st := c.State()
	if st == nil {
		panic(fmt.Sprintf("bscmp: slot %q read on a component without state", s.name))
	}
	v, ok := st.Value(s.name)
	if !ok {
		panic(fmt.Sprintf("bscmp: slot %q not declared", s.name))
	}
	return v.(T)
}

// Set stores v on c and marks the slot changed.
// It panics if c does not declare the slot.
func (s *Slot[T]) Set(c Stateful, v T) {
	st := c.State()
	if st == nil {
		panic(fmt.Sprintf("bscmp: slot %q written on a component without state", s.name))
	}
	if err := st.SetValue(s.name, v); err != nil {
		panic(err.Error())
	}
}

// Slots is the ordered slot list of a widget type.
type Slots struct {
	list []StateSlot
}

// NewSlots builds a slot list. It panics on empty or duplicate names and on
// names containing the "__" parameter separator.
func NewSlots(slots ...StateSlot) Slots {
	return Slots{}.Extend(slots...)
}

// Extend returns a new list with more slots appended, for widget types that
// build on another type's state.
func (s Slots) Extend(more ...StateSlot) Slots {
	list := make([]StateSlot, 0, len(s.list)+len(more))
	list = append(list, s.list...)
	for _, slot := range more {
		name := slot.Name()
		if name == "" {
			panic("bscmp: state slot without a name")
		}
		if strings.Contains(name, separator) {
			panic(fmt.Sprintf("bscmp: state slot name %q contains %q", name, separator))
		}
		for _, existing := range list {
			if existing.Name() == name {
				panic(fmt.Sprintf("bscmp: duplicate state slot %q", name))
			}
		}
		list = append(list, slot)
	}
	return Slots{list: list}
}

// Lookup finds a slot by name.
func (s Slots) Lookup(name string) (StateSlot, bool) {
	for _, slot := range s.list {
		if slot.Name() == name {
			return slot, true
		}
	}
	return nil, false
}

// All returns the slots in declaration order.
func (s Slots) All() []StateSlot {
	return append([]StateSlot(nil), s.list...)
}

// Len returns the number of slots.
func (s Slots) Len() int {
	return len(s.list)
}

// FromKV picks the entries of kv that name a declared slot, skipping nil
// values. The result is suitable for WithDefaults.
func (s Slots) FromKV(kv map[string]any) map[string]any {
	res := make(map[string]any)
	for _, slot := range s.list {
		if v, ok := kv[slot.Name()]; ok && v != nil {
			res[slot.Name()] = v
		}
	}
	return res
}

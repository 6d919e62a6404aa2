package bscmp

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// State holds the slot values of one interactive component.
//
// A slot is "changed" when its value came from the request or from an
// explicit Set. Only changed slots are written into regenerated URLs;
// everything else falls back to its default on the next request.
type State struct {
	owner   *Component
	prefix  string
	slots   Slots
	values  map[string]any
	changed map[string]bool
}

// newState hydrates a state from the request's query parameters.
//
// For each slot the parameter <prefix>__<slot> wins, then the caller
// supplied default (which does not mark the slot changed), then the slot's
// own default.
func newState(owner *Component, slots Slots, prefix string, defaults map[string]any) (*State, error) {
	s := &State{
		owner:   owner,
		prefix:  prefix,
		slots:   slots,
		values:  make(map[string]any, slots.Len()),
		changed: make(map[string]bool),
	}

	query := owner.ctx.Query()
	for _, slot := range slots.list {
		name := slot.Name()
		if raw, ok := query[s.ParamName(name)]; ok && len(raw) > 0 {
			v, err := slot.Load(raw[0])
			if err != nil {
				owner.ctx.logger.Debug("bscmp: malformed state parameter",
					"param", s.ParamName(name), "value", raw[0], "error", err)
				owner.ctx.metrics.badParam()
				return nil, err
			}
			s.set(name, v)
			continue
		}
		if v, ok := defaults[name]; ok {
			if _, err := slot.Dump(v); err != nil {
				return nil, err
			}
			s.values[name] = v
			continue
		}
		s.values[name] = slot.Default()
	}
	return s, nil
}

// Prefix returns the parameter namespace of the state.
func (s *State) Prefix() string {
	return s.prefix
}

// Slots returns the declared slots.
func (s *State) Slots() Slots {
	return s.slots
}

// ParamName returns the URL parameter carrying slot name.
func (s *State) ParamName(name string) string {
	return s.prefix + separator + name
}

// Value returns the current value of a declared slot.
func (s *State) Value(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Changed reports whether the slot was supplied by the request or set.
func (s *State) Changed(name string) bool {
	return s.changed[name]
}

// ChangedSlots returns the names of changed slots in declaration order.
func (s *State) ChangedSlots() []string {
	var names []string
	for _, slot := range s.slots.list {
		if s.changed[slot.Name()] {
			names = append(names, slot.Name())
		}
	}
	return names
}

// SetValue overwrites a slot and marks it changed.
func (s *State) SetValue(name string, v any) error {
	slot, ok := s.slots.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
	if _, err := slot.Dump(v); err != nil {
		return err
	}
	s.set(name, v)
	return nil
}

func (s *State) set(name string, v any) {
	s.values[name] = v
	if len(s.changed) == 0 {
		s.owner.ctx.tracker.MarkChanged(s)
	}
	s.changed[name] = true
}

// writeParams encodes the state into args.
func (s *State) writeParams(args url.Values, overrides map[string]any) error {
	for _, slot := range s.slots.list {
		name := slot.Name()
		v, ok := overrides[name]
		if !ok {
			if !s.changed[name] {
				continue
			}
			v = s.values[name]
		}
		raw, err := slot.Dump(v)
		if err != nil {
			return err
		}
		args.Set(s.ParamName(name), raw)
	}
	return nil
}

func (s *State) checkOverrides(overrides map[string]any) error {
	var unknown []string
	for name := range overrides {
		if _, ok := s.slots.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s", ErrUnknownSlot, strings.Join(unknown, ", "))
	}
	return nil
}

package variables

import "fmt"

// Getter computes a variable's current value instead of reading storage.
type Getter func() Value

// Setter is called with the coerced value before it is stored.
// Returning an error rejects the write: nothing is stored and no event is emitted.
type Setter func(Value) error

// Slot is storage owned by someone else, e.g. a field of a settings struct.
type Slot interface {
	Kind() Kind
	Load() Value
	Store(Value)
}

type stringSlot struct{ p *string }

func (s stringSlot) Kind() Kind    { return KindString }
func (s stringSlot) Load() Value   { return StringValue(*s.p) }
func (s stringSlot) Store(v Value) { *s.p = v.Str }

type intSlot struct{ p *int64 }

func (s intSlot) Kind() Kind    { return KindInt }
func (s intSlot) Load() Value   { return IntValue(*s.p) }
func (s intSlot) Store(v Value) { *s.p = v.Int }

type floatSlot struct{ p *float64 }

func (s floatSlot) Kind() Kind    { return KindFloat }
func (s floatSlot) Load() Value   { return FloatValue(*s.p) }
func (s floatSlot) Store(v Value) { *s.p = v.Float }

// StringSlot binds a variable to an external string.
func StringSlot(p *string) Slot { return stringSlot{p: p} }

// IntSlot binds a variable to an external int64.
func IntSlot(p *int64) Slot { return intSlot{p: p} }

// FloatSlot binds a variable to an external float64.
func FloatSlot(p *float64) Slot { return floatSlot{p: p} }

// Definition describes a builtin variable at registration time.
type Definition struct {
	Name     string
	Kind     Kind
	Initial  Value
	Constant bool
	Slot     Slot
	Get      Getter
	Set      Setter
}

func (d Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("variable name cannot be empty")
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("variable %s: unknown kind %s", d.Name, d.Kind)
	}
	if d.Slot != nil && d.Slot.Kind() != d.Kind {
		return fmt.Errorf("variable %s: slot kind %s does not match %s", d.Name, d.Slot.Kind(), d.Kind)
	}
	if d.Constant && d.Set != nil {
		return fmt.Errorf("variable %s: constants cannot have a setter", d.Name)
	}
	if d.Initial.Kind != d.Kind && !d.Initial.IsZero() {
		return fmt.Errorf("variable %s: initial value kind %s does not match %s", d.Name, d.Initial.Kind, d.Kind)
	}
	return nil
}

// Variable is one entry of the registry.
type Variable struct {
	name     string
	kind     Kind
	constant bool
	builtin  bool
	value    Value
	slot     Slot
	get      Getter
	set      Setter
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Kind returns the declared kind.
func (v *Variable) Kind() Kind { return v.kind }

// Constant reports whether writes are ignored.
func (v *Variable) Constant() bool { return v.constant }

// Builtin reports whether the variable was defined at startup rather than by a user.
func (v *Variable) Builtin() bool { return v.builtin }

// Value returns the current value, consulting the getter hook and bound slot first.
func (v *Variable) Value() Value {
	if v.get != nil {
		return v.get()
	}
	if v.slot != nil {
		return v.slot.Load()
	}
	return v.value
}

func (v *Variable) store(val Value) {
	if v.slot != nil {
		v.slot.Store(val)
	}
	v.value = val
}

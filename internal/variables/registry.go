package variables

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"webshell/internal/logger"
)

// EventVariableSet is emitted after every successful write.
const EventVariableSet = "VARIABLE_SET"

// Emitter receives VARIABLE_SET notifications.
type Emitter interface {
	Emit(name string, fields ...string)
}

// Registry maps variable names to typed storage.
// It is owned by the control loop and is not safe for concurrent use.
type Registry struct {
	vars    map[string]*Variable
	emitter Emitter
	logger  *log.Logger
}

// NewRegistry creates an empty registry that reports writes to emitter (which may be nil).
func NewRegistry(emitter Emitter) *Registry {
	return &Registry{
		vars:    make(map[string]*Variable),
		emitter: emitter,
		logger:  logger.NewStyledLogger("Variables"),
	}
}

// Define registers a builtin variable. Definitions are validated here so that a bad
// table fails at startup rather than on first use.
func (r *Registry) Define(def Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	if _, exists := r.vars[def.Name]; exists {
		return fmt.Errorf("variable %s already defined", def.Name)
	}

	v := &Variable{
		name:     def.Name,
		kind:     def.Kind,
		constant: def.Constant,
		builtin:  true,
		value:    Zero(def.Kind),
		slot:     def.Slot,
		get:      def.Get,
		set:      def.Set,
	}
	if def.Initial.Kind == def.Kind && !def.Initial.IsZero() {
		v.store(def.Initial)
	}

	r.vars[def.Name] = v
	return nil
}

// Lookup returns the variable registered under name.
func (r *Registry) Lookup(name string) (*Variable, bool) {
	v, ok := r.vars[name]
	return v, ok
}

// Get returns the value of name, or the empty string value for unknown names.
func (r *Registry) Get(name string) Value {
	v, ok := r.vars[name]
	if !ok {
		return StringValue("")
	}
	return v.Value()
}

// GetString returns the canonical text of name; unknown names yield "".
func (r *Registry) GetString(name string) string {
	return r.Get(name).String()
}

// GetInt returns the integer value of name, or 0 when it is not an int.
func (r *Registry) GetInt(name string) int64 {
	v := r.Get(name)
	if v.Kind != KindInt {
		return 0
	}
	return v.Int
}

// GetFloat returns the float value of name, or 0 when it is not a float.
func (r *Registry) GetFloat(name string) float64 {
	v := r.Get(name)
	if v.Kind != KindFloat {
		return 0
	}
	return v.Float
}

// Set writes text to name, creating a user string variable if name is unknown.
// It reports whether the write took effect. Constants, unparsable numbers and
// setter rejections leave the variable untouched and emit nothing.
func (r *Registry) Set(name, text string) bool {
	if name == "" {
		return false
	}

	v, ok := r.vars[name]
	if !ok {
		v = &Variable{name: name, kind: KindString, value: StringValue("")}
		r.vars[name] = v
		r.logger.Debug("Created user variable", "variable", name)
	}

	if v.constant {
		r.logger.Debug("Ignoring write to constant", "variable", name)
		return false
	}

	val, err := ParseValue(v.kind, text)
	if err != nil {
		r.logger.Warn("Cannot set variable", "variable", name, "error", err)
		return false
	}

	return r.assign(v, val)
}

// SetValue writes an already typed value. The value is converted through its text form
// when kinds differ so that callers can pass any kind.
func (r *Registry) SetValue(name string, val Value) bool {
	v, ok := r.vars[name]
	if ok && v.kind != val.Kind {
		return r.Set(name, val.String())
	}
	if !ok {
		return r.Set(name, val.String())
	}
	if v.constant {
		return false
	}
	return r.assign(v, val)
}

func (r *Registry) assign(v *Variable, val Value) bool {
	if v.set != nil {
		if err := v.set(val); err != nil {
			r.logger.Warn("Setter rejected value", "variable", v.name, "error", err)
			return false
		}
	}
	v.store(val)

	logger.VariableOperation("set", v.name, val.String())
	if r.emitter != nil {
		r.emitter.Emit(EventVariableSet, v.name, v.kind.String(), val.EventString())
	}
	return true
}

// Names returns every variable name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.vars))
	for name := range r.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EmitAll emits a VARIABLE_SET event for every variable, in name order.
func (r *Registry) EmitAll() {
	if r.emitter == nil {
		return
	}
	for _, name := range r.Names() {
		v := r.vars[name]
		val := v.Value()
		r.emitter.Emit(EventVariableSet, name, v.kind.String(), val.EventString())
	}
}

package proxyinfra

import (
	"context"
	"reflect"

	"github.com/goliatone/go-lazy-proxy/proxy"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Plan is the dispatch table of a proxy type: the closed set of method names a
// proxy can forward, with their receiver-less signatures. It is computed once
// per factory configuration and shared, read-only, by every handle built from
// the same descriptor.
//
// The plan replaces open-ended reflective dispatch: a method outside the plan
// is a DispatchError, never a silent reflection miss.
type Plan struct {
	concrete   bool
	targetType reflect.Type // pointer type used for concrete dispatch, nil when interface-only
	methods    map[string]reflect.Type
}

// PlanFor computes the dispatch plan for a descriptor. Declared interface
// method sets are always included; the persistent type's exported methods are
// added when the type qualifies for concrete dispatch.
func PlanFor(desc proxy.Descriptor) (*Plan, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{methods: make(map[string]reflect.Type)}

	for _, iface := range desc.Interfaces {
		for i := 0; i < iface.NumMethod(); i++ {
			m := iface.Method(i)
			if existing, ok := plan.methods[m.Name]; ok && existing != m.Type {
				return nil, &proxy.ConfigError{
					Field:   "Interfaces",
					Message: "conflicting signatures for method " + m.Name,
				}
			}
			plan.methods[m.Name] = m.Type
		}
	}

	if desc.SupportsConcreteDispatch() {
		plan.concrete = true
		plan.targetType = pointerTo(desc.PersistentType)

		for i := 0; i < plan.targetType.NumMethod(); i++ {
			m := plan.targetType.Method(i)
			if !m.IsExported() {
				continue
			}
			if _, ok := plan.methods[m.Name]; ok {
				// Interface signature already recorded for this name; the
				// concrete method satisfies it by construction.
				continue
			}
			plan.methods[m.Name] = stripReceiver(m.Type)
		}
	}

	return plan, nil
}

// Concrete reports whether the plan dispatches against the persistent type's
// own method set in addition to the declared interfaces.
func (p *Plan) Concrete() bool {
	return p.concrete
}

// Names returns the method names the plan can route.
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.methods))
	for name := range p.methods {
		names = append(names, name)
	}
	return names
}

// Covers reports whether the plan routes the full method set of t. For an
// interface type every method must be present with a matching signature; for
// a non-interface type the plan must have concrete dispatch enabled for that
// exact persistent type.
func (p *Plan) Covers(t reflect.Type) bool {
	if t == nil {
		return false
	}

	if t.Kind() == reflect.Interface {
		for i := 0; i < t.NumMethod(); i++ {
			m := t.Method(i)
			sig, ok := p.methods[m.Name]
			if !ok || sig != m.Type {
				return false
			}
		}
		return true
	}

	if !p.concrete {
		return false
	}
	return pointerTo(t) == p.targetType
}

// Call forwards a method invocation to target by name. The method must be in
// the plan and implemented by target's runtime type. When the target method
// takes a leading context.Context that the caller did not supply, ctx is bound
// automatically.
//
// Result shaping: a trailing error return is split off and propagated
// unchanged; no remaining values yield nil, a single value is returned as is,
// multiple values are returned as []any.
func (p *Plan) Call(ctx context.Context, target any, method string, args []any) (any, error) {
	if _, ok := p.methods[method]; !ok {
		return nil, &proxy.DispatchError{Method: method, Message: "method is not part of the proxy dispatch plan"}
	}
	if target == nil {
		return nil, &proxy.DispatchError{Method: method, Message: "cannot forward to nil target"}
	}

	m := reflect.ValueOf(target).MethodByName(method)
	if !m.IsValid() {
		return nil, &proxy.DispatchError{Method: method, Message: "target type " + reflect.TypeOf(target).String() + " does not implement method"}
	}

	in, err := bindArgs(ctx, m.Type(), method, args)
	if err != nil {
		return nil, err
	}

	return shapeResults(m.Call(in))
}

// bindArgs converts the caller-supplied arguments to the method's parameter
// types, injecting ctx for a leading context parameter when absent from args.
func bindArgs(ctx context.Context, mt reflect.Type, method string, args []any) ([]reflect.Value, error) {
	numIn := mt.NumIn()

	if numIn > 0 && mt.In(0) == contextType {
		hasCtx := false
		if len(args) > 0 {
			_, hasCtx = args[0].(context.Context)
		}
		if !hasCtx {
			args = append([]any{ctx}, args...)
		}
	}

	if mt.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, &proxy.DispatchError{Method: method, Message: "not enough arguments for variadic method"}
		}
	} else if len(args) != numIn {
		return nil, &proxy.DispatchError{Method: method, Message: "argument count mismatch"}
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var paramType reflect.Type
		if mt.IsVariadic() && i >= numIn-1 {
			paramType = mt.In(numIn - 1).Elem()
		} else {
			paramType = mt.In(i)
		}

		if arg == nil {
			in[i] = reflect.Zero(paramType)
			continue
		}

		v := reflect.ValueOf(arg)
		switch {
		case v.Type().AssignableTo(paramType):
			in[i] = v
		case v.Type().ConvertibleTo(paramType):
			in[i] = v.Convert(paramType)
		default:
			return nil, &proxy.DispatchError{
				Method:  method,
				Message: "argument " + v.Type().String() + " is not assignable to " + paramType.String(),
			}
		}
	}

	return in, nil
}

// shapeResults splits a trailing error return and flattens the remainder.
func shapeResults(out []reflect.Value) (any, error) {
	var err error
	if n := len(out); n > 0 && out[n-1].Type().Implements(errorType) {
		if !out[n-1].IsNil() {
			err = out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	default:
		results := make([]any, len(out))
		for i, v := range out {
			results[i] = v.Interface()
		}
		return results, err
	}
}

// stripReceiver rebuilds a concrete method's type without its receiver so it
// compares equal to the matching interface method signature.
func stripReceiver(mt reflect.Type) reflect.Type {
	in := make([]reflect.Type, 0, mt.NumIn()-1)
	for i := 1; i < mt.NumIn(); i++ {
		in = append(in, mt.In(i))
	}
	out := make([]reflect.Type, 0, mt.NumOut())
	for i := 0; i < mt.NumOut(); i++ {
		out = append(out, mt.Out(i))
	}
	return reflect.FuncOf(in, out, mt.IsVariadic())
}

func pointerTo(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t
	}
	return reflect.PtrTo(t)
}

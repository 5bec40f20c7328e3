// Package container is a small constructor-injection container used to wire
// the pipeline in main. Bindings are registered as constructor functions;
// dependencies are resolved recursively by return type, with optional
// singleton scope and interface matching.
package container

import (
	"fmt"
	"reflect"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

type Container struct {
	mu         sync.RWMutex
	bindings   map[reflect.Type]binding
	singletons map[reflect.Type]reflect.Value
}

type binding struct {
	ctor      reflect.Value
	singleton bool
}

func New() *Container {
	return &Container{
		bindings:   make(map[reflect.Type]binding),
		singletons: make(map[reflect.Type]reflect.Value),
	}
}

// Provide registers a constructor for the type of its first return value.
// Constructors may take parameters, which are resolved from the container,
// and may return (T) or (T, error).
func (c *Container) Provide(constructor interface{}, singleton bool) error {
	ctor := reflect.ValueOf(constructor)
	if ctor.Kind() != reflect.Func {
		return fmt.Errorf("container: constructor must be a function")
	}

	t := ctor.Type()
	if t.NumOut() == 0 || t.NumOut() > 2 {
		return fmt.Errorf("container: constructor must return (T) or (T, error)")
	}
	if t.NumOut() == 2 && t.Out(1) != errType {
		return fmt.Errorf("container: second return value must be error")
	}

	out := t.Out(0)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.bindings[out]; exists {
		return fmt.Errorf("container: provider already exists for %v", out)
	}
	c.bindings[out] = binding{ctor: ctor, singleton: singleton}
	return nil
}

// Resolve populates the given pointer with an instance of the pointed-to
// type: var db *DB; c.Resolve(&db).
func (c *Container) Resolve(target interface{}) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return fmt.Errorf("container: target must be a non-nil pointer")
	}

	val, err := c.build(ptr.Elem().Type(), make(map[reflect.Type]bool))
	if err != nil {
		return err
	}
	ptr.Elem().Set(val)
	return nil
}

// Invoke calls fn with arguments resolved from the container. If the last
// return value is a non-nil error it is returned.
func (c *Container) Invoke(fn interface{}) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("container: Invoke requires a function")
	}

	t := v.Type()
	args := make([]reflect.Value, t.NumIn())
	seen := make(map[reflect.Type]bool)
	for i := 0; i < t.NumIn(); i++ {
		arg, err := c.build(t.In(i), seen)
		if err != nil {
			return err
		}
		args[i] = arg
	}

	outs := v.Call(args)
	if n := len(outs); n > 0 && outs[n-1].Type() == errType && !outs[n-1].IsNil() {
		return outs[n-1].Interface().(error)
	}
	return nil
}

func (c *Container) build(t reflect.Type, seen map[reflect.Type]bool) (reflect.Value, error) {
	c.mu.RLock()
	if v, ok := c.singletons[t]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	b, ok := c.bindings[t]
	if !ok && t.Kind() == reflect.Interface {
		// Fall back to any binding whose concrete type satisfies the
		// requested interface.
		for bt, cand := range c.bindings {
			if bt.Implements(t) {
				b, ok = cand, true
				break
			}
		}
	}
	c.mu.RUnlock()

	if !ok {
		return reflect.Value{}, fmt.Errorf("container: no provider for %v", t)
	}
	if seen[t] {
		return reflect.Value{}, fmt.Errorf("container: cyclic dependency for %v", t)
	}
	seen[t] = true

	ft := b.ctor.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		dep, err := c.build(ft.In(i), seen)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = dep
	}

	outs := b.ctor.Call(args)
	if len(outs) == 2 {
		if err, _ := outs[1].Interface().(error); err != nil {
			return reflect.Value{}, err
		}
	}

	result := outs[0]
	if b.singleton {
		c.mu.Lock()
		c.singletons[t] = result
		c.mu.Unlock()
	}
	return result, nil
}

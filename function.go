package asqlite

import (
	"context"
	"fmt"
)

// funcKey identifies a registered custom function by name and arity.
type funcKey struct {
	name  string
	arity int
}

// ScalarFunc is a caller-supplied scalar SQL function. It receives the
// call's arguments as Values and returns the result as a Value. The
// function is invoked synchronously on the connection's worker while a
// statement is stepping, so it must not call back into the same
// connection and should return quickly.
type ScalarFunc func(args []Value) (Value, error)

// RegisterScalar registers a scalar SQL function on this connection under
// the given name. An arity >= 0 fixes the number of arguments the
// function accepts; arity < 0 makes it variadic. Registering the same
// (name, arity) pair twice is a misuse error. This is an extension
// surface; the core query pipeline does not depend on it.
func (c *Conn) RegisterScalar(ctx context.Context, name string, arity int, fn ScalarFunc) error {
	if fn == nil {
		return newMisuseError("nil scalar function")
	}

	key := funcKey{name: name, arity: arity}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return newClosedError("register function")
	}
	if _, dup := c.funcs[key]; dup {
		c.mu.Unlock()
		return newMisuseError(fmt.Sprintf("function %q/%d already registered", name, arity))
	}
	c.funcs[key] = struct{}{}
	c.mu.Unlock()

	impl := func(raw ...interface{}) (interface{}, error) {
		if arity >= 0 && len(raw) != arity {
			return nil, fmt.Errorf("function %q expects %d argument(s), got %d", name, arity, len(raw))
		}
		args := make([]Value, len(raw))
		for i, rv := range raw {
			args[i] = fromDriver(rv)
		}
		out, err := fn(args)
		if err != nil {
			return nil, err
		}
		return out.anyValue(), nil
	}

	var err error
	if serr := c.submit(ctx, "register function", func() {
		if regErr := c.db.RegisterFunc(name, impl, false); regErr != nil {
			err = mapEngineError("register function", regErr)
		}
	}); serr != nil {
		err = serr
	}
	if err != nil {
		c.mu.Lock()
		delete(c.funcs, key)
		c.mu.Unlock()
		return err
	}
	return nil
}

// RegisterAggregate registers an aggregate SQL function on this
// connection. impl follows the engine binding's aggregator contract: a
// constructor returning a value with a Step method called once per input
// row and a Done method producing the aggregate result. Extension
// surface, like RegisterScalar.
func (c *Conn) RegisterAggregate(ctx context.Context, name string, impl interface{}) error {
	if impl == nil {
		return newMisuseError("nil aggregate implementation")
	}

	// Aggregates take a variable number of arguments as far as this
	// registry is concerned; the engine enforces the constructor's shape.
	key := funcKey{name: name, arity: -1}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return newClosedError("register aggregate")
	}
	if _, dup := c.funcs[key]; dup {
		c.mu.Unlock()
		return newMisuseError(fmt.Sprintf("aggregate %q already registered", name))
	}
	c.funcs[key] = struct{}{}
	c.mu.Unlock()

	var err error
	if serr := c.submit(ctx, "register aggregate", func() {
		if regErr := c.db.RegisterAggregator(name, impl, false); regErr != nil {
			err = mapEngineError("register aggregate", regErr)
		}
	}); serr != nil {
		err = serr
	}
	if err != nil {
		c.mu.Lock()
		delete(c.funcs, key)
		c.mu.Unlock()
		return err
	}
	return nil
}

// Package invoke turns an extracted method descriptor into the text sent to
// a REPL, e.g. `await $(UsersService).findOne(1)`.
package invoke

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/nestcall/internal/treesitter"
)

var (
	// ErrNoClass is returned when the source declares no class.
	ErrNoClass = errors.New("no class found")
	// ErrNoMethod is returned when no method matches the selection.
	ErrNoMethod = errors.New("no method found")
	// ErrAmbiguousMethod is returned when the selection covers several methods.
	ErrAmbiguousMethod = errors.New("selection covers more than one method")
	// ErrMissingArgument is returned when a required parameter has no value.
	ErrMissingArgument = errors.New("missing value for required parameter")
	// ErrTooManyArguments is returned when more values than parameters are given.
	ErrTooManyArguments = errors.New("too many argument values")
)

// DefaultAccessor wraps the class name to obtain an instance in the REPL.
const DefaultAccessor = "$"

// Options controls the shape of the produced invocation.
type Options struct {
	Accessor string // defaults to DefaultAccessor
	Assign   bool   // prefix with `let <method> = `
}

// Call is a fully resolved invocation.
type Call struct {
	Class  string
	Method treesitter.MethodInfo
	Values []string // literal argument values, positional
}

// PickClass returns the class to invoke on. When the file declares several
// classes the first one wins and a warning is logged.
func PickClass(classes []string) (string, error) {
	switch len(classes) {
	case 0:
		return "", ErrNoClass
	case 1:
		return classes[0], nil
	default:
		log.Warn().Strs("classes", classes).Str("picked", classes[0]).Msg("multiple classes in file, using the first")
		return classes[0], nil
	}
}

// PickMethod returns the single method covered by a selection. The error for
// an ambiguous selection names every candidate.
func PickMethod(methods []treesitter.MethodInfo) (treesitter.MethodInfo, error) {
	switch len(methods) {
	case 0:
		return treesitter.MethodInfo{}, ErrNoMethod
	case 1:
		return methods[0], nil
	default:
		names := make([]string, len(methods))
		for i, m := range methods {
			names[i] = m.Name
		}
		return treesitter.MethodInfo{}, fmt.Errorf("%w: %s", ErrAmbiguousMethod, strings.Join(names, ", "))
	}
}

// Label is the prompt label for one parameter, e.g. "id: number" or
// "filter?: string".
func Label(p treesitter.Parameter) string {
	if p.Optional {
		return p.Name + "?: " + p.Type
	}
	return p.Name + ": " + p.Type
}

// Bind checks values positionally against args. Trailing empty values of
// optional parameters are dropped so the REPL applies their defaults.
func Bind(args []treesitter.Parameter, values []string) ([]string, error) {
	if len(values) > len(args) {
		return nil, fmt.Errorf("%w: %d values for %d parameters", ErrTooManyArguments, len(values), len(args))
	}
	bound := make([]string, len(args))
	copy(bound, values)
	for i := range bound {
		bound[i] = strings.TrimSpace(bound[i])
	}

	n := len(bound)
	for n > 0 && bound[n-1] == "" && args[n-1].Optional {
		n--
	}
	bound = bound[:n]
	for i, v := range bound {
		if v != "" {
			continue
		}
		if !args[i].Optional {
			return nil, fmt.Errorf("%w: %s", ErrMissingArgument, Label(args[i]))
		}
		// A skipped optional parameter before a provided one.
		bound[i] = "undefined"
	}
	return bound, nil
}

// Format renders the invocation:
//
//	[let <method> = ][await ]<accessor>(<Class>).<method>(<v0>, <v1>, ...)
//
// `await` is emitted only for async methods.
func Format(c Call, opts Options) string {
	accessor := opts.Accessor
	if accessor == "" {
		accessor = DefaultAccessor
	}

	var b strings.Builder
	if opts.Assign {
		fmt.Fprintf(&b, "let %s = ", c.Method.Name)
	}
	if c.Method.Async {
		b.WriteString("await ")
	}
	fmt.Fprintf(&b, "%s(%s).%s(%s)", accessor, c.Class, c.Method.Name, strings.Join(c.Values, ", "))
	return b.String()
}

// Target picks class and method from an extraction. The returned Call has
// no values yet; see Call.Bind.
func Target(ex *treesitter.Extraction) (Call, error) {
	class, err := PickClass(ex.Classes)
	if err != nil {
		return Call{}, err
	}
	method, err := PickMethod(ex.Methods)
	if err != nil {
		return Call{}, err
	}
	return Call{Class: class, Method: method}, nil
}

// Bind returns a copy of c with values bound to its parameters.
func (c Call) Bind(values []string) (Call, error) {
	bound, err := Bind(c.Method.Args, values)
	if err != nil {
		return Call{}, err
	}
	c.Values = bound
	return c, nil
}

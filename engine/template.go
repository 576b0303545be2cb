package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/Drolfothesgnir/gohaa/runtime"
	"github.com/Drolfothesgnir/gohaa/script"
)

// RenderError is yielded when template code fails while rendering.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Exception returns the host exception raised by template code, if any.
func (e *RenderError) Exception() (*script.Exception, bool) {
	var exc *script.Exception
	ok := errors.As(e.Err, &exc)
	return exc, ok
}

// Template is a module ready to render, together with its linearized ancestors.
type Template struct {
	module *Module
	// chain starts with module itself.
	chain []*Module
}

func (t *Template) Name() string {
	return t.module.Name
}

// Module returns the compiled module of the template itself.
func (t *Template) Module() *Module {
	return t.module
}

// Linearization returns the names of the template and its ancestors in lookup order.
func (t *Template) Linearization() []string {
	names := make([]string, len(t.chain))
	for i, m := range t.chain {
		names[i] = m.Name
	}
	return names
}

// Render streams the output of the template, encoded in the module encoding.
// The first module of the linearization having a body is rendered; templates
// without any body render nothing. Arguments are passed to the body as
// "arguments" and "keywords".
//
// Rendering stops at the first error, which is yielded alone. Breaking out of
// the loop abandons the rendering. ctx is checked between output units.
func (t *Template) Render(ctx context.Context, args []script.Value, kwargs []script.Keyword) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		self := &instance{tmpl: t}
		body, ok := self.body(0)
		if !ok {
			return
		}

		out, err := body.Call(args, kwargs)
		if err != nil {
			yield(nil, &RenderError{Template: t.Name(), Err: err})
			return
		}

		var stack []script.Stepper
		defer func() {
			for _, s := range stack {
				if c, ok := s.(script.Closer); ok {
					c.Close()
				}
			}
		}()

		push := func(v script.Value) (more bool, err error) {
			switch v := v.(type) {
			case nil:
				return true, nil
			case script.Bytes:
				if len(v) == 0 {
					return true, nil
				}
				return yield([]byte(v), nil), nil
			case script.Stepper:
				stack = append(stack, v)
				return true, nil
			}
			enc, err := runtime.EncodeValue(v, true, t.module.Encoding)
			if err != nil {
				return false, err
			}
			if b, ok := enc.(script.Bytes); ok {
				return yield([]byte(b), nil), nil
			}
			stack = append(stack, enc.(script.Stepper))
			return true, nil
		}

		more, err := push(out)
		for more && err == nil && len(stack) > 0 {
			if err = ctx.Err(); err != nil {
				break
			}

			top := stack[len(stack)-1]
			var (
				v  script.Value
				ok bool
			)
			v, ok, err = top.Next()
			if err != nil {
				break
			}
			if !ok {
				stack = stack[:len(stack)-1]
				continue
			}
			more, err = push(v)
		}

		if err != nil {
			if ctx.Err() == nil || !errors.Is(err, ctx.Err()) {
				err = &RenderError{Template: t.Name(), Err: err}
			}
			yield(nil, err)
		}
	}
}

// RenderBytes renders the whole template into memory.
func (t *Template) RenderBytes(ctx context.Context, args []script.Value, kwargs []script.Keyword) ([]byte, error) {
	var buf bytes.Buffer
	for chunk, err := range t.Render(ctx, args, kwargs) {
		if err != nil {
			return nil, err
		}
		buf.Write(chunk)
	}
	return buf.Bytes(), nil
}

// RenderToString renders the whole template and decodes the output.
func (t *Template) RenderToString(ctx context.Context, args []script.Value, kwargs []script.Keyword) (string, error) {
	b, err := t.RenderBytes(ctx, args, kwargs)
	if err != nil {
		return "", err
	}
	return runtime.Decode(b, t.module.Encoding)
}

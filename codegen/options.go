// Package codegen lowers a parsed template tree into renderer source for the script package.
//
// The renderer is a module defining one generator function per partial and one for the
// template body. Static markup is precomputed and batched into as few yields as possible,
// dynamic tags call the runtime helpers, and jumps out of blocks are preceded by the
// closing markup of everything the jump leaves open.
package codegen

import (
	"github.com/google/uuid"
)

// Defaults used for zero fields of [Options].
const (
	DefaultIndent   = "    "
	DefaultNewline  = "\n"
	DefaultEncoding = "utf-8"
)

// Options control the generated source.
type Options struct {
	// IndentString is one level of indentation in the generated source.
	IndentString string

	// Newline terminates every generated line.
	Newline string

	// Encoding is the charset output bytes are produced in.
	Encoding string

	// TemplateName is stored in the renderer. Defaults to "!template_<uuid>".
	TemplateName string

	// TemplatePath is stored in the renderer; empty renders as None.
	TemplatePath string
}

func (o Options) withDefaults() Options {
	if o.IndentString == "" {
		o.IndentString = DefaultIndent
	}
	if o.Newline == "" {
		o.Newline = DefaultNewline
	}
	if o.Encoding == "" {
		o.Encoding = DefaultEncoding
	}
	if o.TemplateName == "" {
		o.TemplateName = "!template_" + uuid.NewString()
	}
	return o
}

// voidTags never have content and never close.
var voidTags = map[string]bool{
	"area":    true,
	"base":    true,
	"br":      true,
	"col":     true,
	"command": true,
	"embed":   true,
	"hr":      true,
	"img":     true,
	"input":   true,
	"keygen":  true,
	"link":    true,
	"meta":    true,
	"param":   true,
	"source":  true,
	"track":   true,
	"wbr":     true,
}

// Names the generated source relies on. The engine reads them back from the executed module.
const (
	PartialsVar    = "__partials__"
	InheritanceFn  = "__inheritance__"
	BodyFn         = "__body__"
	EncodingVar    = "encoding"
	NameVar        = "template_name"
	PathVar        = "template_path"
	tagNameStack   = "_ph_tag_name_stack"
	selfParam      = "self"
	parentParam    = "parent"
	bodyArgsParams = "*arguments, **keywords"
)

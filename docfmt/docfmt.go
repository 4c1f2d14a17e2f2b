package docfmt

import "strings"

// ErrorDoc documents one error a documented operation can raise.
type ErrorDoc struct {
	// Type is the error type name.
	Type string
	// Doc describes when the error occurs.
	Doc string
}

// ArgDoc documents one argument. Arguments render in declaration order.
type ArgDoc struct {
	// Name is the argument name.
	Name string
	// Doc describes the argument.
	Doc string
}

// DocString declares the parts of one operation's documentation.
type DocString struct {
	// Opening is the summary paragraph.
	Opening string
	// Args documents the arguments, in order.
	Args []ArgDoc
	// Defaults records default argument values so code and documentation
	// share one source. They are not rendered.
	Defaults map[string]string
	// Raises documents the errors the operation can surface.
	Raises []ErrorDoc
	// Returns documents the return values.
	Returns []string
}

// Default returns the recorded default value for an argument name, or the
// empty string.
func (d *DocString) Default(name string) string {
	return d.Defaults[name]
}

// APIDoc renders the full documentation: opening, arguments, errors, and
// returns.
func (d *DocString) APIDoc() string {
	parts := []string{strings.TrimSpace(d.Opening)}

	if len(d.Args) > 0 {
		parts = append(parts, "\nArgs:\n")
		for _, a := range d.Args {
			parts = append(parts, "  "+a.Name+": "+a.Doc)
		}
	}

	parts = append(parts, d.tailParts()...)
	return strings.Join(parts, "\n\n") + "\n"
}

// CLIDoc renders the CLI help form, which omits the argument section; flag
// help is rendered by the CLI framework itself.
func (d *DocString) CLIDoc() string {
	parts := []string{strings.TrimSpace(d.Opening)}
	parts = append(parts, d.tailParts()...)
	return strings.Join(parts, "\n\n") + "\n"
}

// tailParts renders the sections shared by both forms.
func (d *DocString) tailParts() []string {
	var parts []string

	if len(d.Raises) > 0 {
		parts = append(parts, "\nRaises:\n")
		for _, e := range d.Raises {
			parts = append(parts, "  "+e.Type+": "+e.Doc)
		}
	}

	if len(d.Returns) > 0 {
		parts = append(parts, "\nReturns:\n")
		for _, r := range d.Returns {
			parts = append(parts, "  "+r)
		}
	}

	return parts
}

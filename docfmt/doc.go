// Package docfmt builds help text shared between generated API reference
// documentation and CLI usage output.
//
// A DocString declares the parts of one command or function's documentation
// once; APIDoc renders the full form and CLIDoc a shorter form that omits
// argument descriptions, which CLI frameworks render themselves from flag
// definitions.
//
// It is a standalone text helper and carries no state from the rest of the
// module.
package docfmt

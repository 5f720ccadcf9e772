// Package schema describes structured output contracts and translates them
// into the response schema dialect understood by the Gemini API.
//
// A contract is declared as a Model: a root object Field plus optional named
// definitions that fields may reference. Translation happens in two passes:
//
//  1. Resolution flattens references, allOf composition and nullable anyOf
//     wrappers into a single tree of concrete fields. Reference cycles are
//     rejected during this pass.
//  2. Conversion maps each concrete field onto a genai.Schema, recording
//     property ordering and required lists explicitly so that generated output
//     is stable across calls.
//
// The resolved tree is also what incoming responses are validated against,
// which keeps the schema sent to the model and the checks applied to its
// answer in lockstep.
//
// Compiled schemas are immutable and may be shared freely; Cache memoizes them
// per Model.
package schema

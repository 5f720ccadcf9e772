package generation

import (
	"strings"

	"github.com/phrazzld/podscript/internal/schema"
)

// Instruction is the system-level guidance for a request. It is either a
// plain text (Direct) or a text bundled with the data model it implies
// (Templated).
type Instruction interface {
	// Text returns the instruction sent to the model.
	Text() string

	// DataModel returns the implied output model, or nil.
	DataModel() *schema.Model
}

// DirectInstruction is free-form guidance with no implied model.
type DirectInstruction struct {
	text string
}

// Direct wraps text as an Instruction.
func Direct(text string) DirectInstruction {
	return DirectInstruction{text: text}
}

// Text implements Instruction.
func (d DirectInstruction) Text() string { return d.text }

// DataModel implements Instruction.
func (d DirectInstruction) DataModel() *schema.Model { return nil }

// TemplatedInstruction is guidance written for a specific output model.
type TemplatedInstruction struct {
	text  string
	model *schema.Model
}

// Templated bundles text with the model its output must satisfy.
func Templated(text string, model *schema.Model) TemplatedInstruction {
	return TemplatedInstruction{text: text, model: model}
}

// Text implements Instruction.
func (t TemplatedInstruction) Text() string { return t.text }

// DataModel implements Instruction.
func (t TemplatedInstruction) DataModel() *schema.Model { return t.model }

// Request is a single structured generation call.
type Request struct {
	// Instruction is the system instruction. Required.
	Instruction Instruction

	// Payload is the input data: a string, []byte, json.RawMessage, or any
	// JSON-serializable value. See CanonicalizePayload.
	Payload any

	// Model overrides the data model implied by a templated instruction.
	Model *schema.Model

	// Options overrides the generator's defaults when non-nil.
	Options *Options

	// Overrides is applied on top of Options, or of the generator's defaults.
	Overrides Overrides
}

// Resolve returns the instruction text and the data model the request
// targets. An explicit Model wins over the one implied by the instruction.
func (r Request) Resolve() (string, *schema.Model, error) {
	if r.Instruction == nil {
		return "", nil, ErrMissingInstruction
	}

	text := r.Instruction.Text()
	if strings.TrimSpace(text) == "" {
		return "", nil, ErrMissingInstruction
	}

	model := r.Model
	if model == nil {
		model = r.Instruction.DataModel()
	}
	if model == nil {
		return "", nil, ErrMissingDataModel
	}

	return text, model, nil
}

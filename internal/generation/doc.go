// Package generation defines the port between the application and hosted
// LLM services that produce schema-constrained (structured) output.
//
// A Generator receives an Instruction, an input payload and a data model, and
// returns a Result that either wraps a validated object or explains why no
// object was produced. Exhausted retries and cancellation are reported through
// the Result so callers can treat them as ordinary outcomes; only
// configuration and schema translation problems are returned as errors.
//
// Concrete adapters live under internal/platform (see the gemini package).
package generation

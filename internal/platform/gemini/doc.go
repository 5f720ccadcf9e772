// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API for schema-constrained generation, plus a
// Speaker that turns dialogue lines into speech with the Gemini TTS models.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's domain logic to Google's external Gemini AI service.
//
// Key components:
//
// 1. Client:
//   - Implements the generation.Generator interface
//   - Translates the request's data model into a response schema (cached per model)
//   - Validates every response against the data model before returning it
//
// 2. Retry loop:
//   - Drives the pending/attempting/backoff state machine from the generation package
//   - Waits InitialBackoffSeconds^(k-1) seconds before attempt k
//   - Reports cancellation separately from exhausted retries
//
// 3. Speaker:
//   - Implements the audio.Synthesizer port with prebuilt Gemini voices
//   - Returns raw 16-bit PCM for each utterance
//
// The package depends on the google.golang.org/genai client library for
// communicating with the Gemini API.
package gemini

// Package audio renders a podcast script to a single WAV file.
//
// Speech itself comes from a Synthesizer (see the gemini package); this package
// only sequences the turns and writes the container.
package audio

// Package podcast turns source material into a multi-speaker podcast script.
//
// It owns the script data model, the catalog of prebuilt voices, and the
// system instruction given to the model. Service ties these to a
// generation.Generator and checks that what comes back is internally
// consistent before handing it out.
package podcast

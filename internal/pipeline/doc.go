// Package pipeline drives the four matching stages over an old and a new
// sequence set, in order, and collects their segments.
//
// Stages share the two shrinking sets. Between stages the driver checks the
// context and hands a StageReport to the caller's hook, which is where the
// unmatched report and the debug dumps are written.
package pipeline

// Package assets places pasted binary content into the mirrored assets tree.
//
// A note at "Notes/Trip.md" mirrors to "/<root>/Notes". Pasted payloads are
// written there as "pasted<n><name>" and referenced from the note with an
// embed token of the form ![[pasted<n><name>]].
package assets

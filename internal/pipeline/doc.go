// Package pipeline provides a framework for executing crawl steps in sequence.
//
// A scan is a discovery step that fills the list of session ids followed
// by a crawl step that appends one session per id to the document. Each
// step receives the shared Run and may modify it. The pipeline logs each
// step and stops on the first error, leaving whatever the Run holds so the
// caller can still write a partial document.
package pipeline

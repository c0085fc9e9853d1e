// Package observable provides the change-notification primitives shared by the
// circuit model and its consumers.
//
// Property holds a single value and calls its listeners synchronously, in
// subscription order, whenever Set changes that value. Model objects register
// their own listeners first, so dependent quantities are already up to date
// when listeners added later (meters, views) run.
//
// Stream fans values out to buffered channels without ever blocking the
// publisher. It carries per-frame snapshots from the single-threaded model to
// recorders running in other goroutines.
package observable

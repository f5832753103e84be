// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the background jobs of the client as one unit.
package workers

// Worker is a background job. Run starts it and returns at once; Stop
// cancels it and waits until it has exited.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc }
//
//	func (w *MyWorker) Run()  { /* start a goroutine */ }
//	func (w *MyWorker) Stop() { w.cancel() }
type Worker interface {
	Run()
	Stop()
}

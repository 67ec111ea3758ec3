// Package pipeline runs a batch of independent operations on a fixed pool
// of workers and collects exactly one outcome per operation.
//
// The only contract to implement is Processor. Workspace is the production
// processor; tests swap in fakes.
package pipeline

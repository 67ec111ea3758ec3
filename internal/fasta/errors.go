package fasta

import "errors"

// Error kinds shared by the index, the store and the catalog. Callers match
// them with errors.Is; the wrapped message carries the path and position.
var (
	ErrNotFound      = errors.New("not found")
	ErrFormat        = errors.New("malformed FASTA")
	ErrOutOfRange    = errors.New("position out of range")
	ErrBoundaryWrite = errors.New("write would overwrite a line terminator")
	ErrReadOnly      = errors.New("sequence is read-only")
)

func isTerminator(b byte) bool { return b == '\n' || b == '\r' }

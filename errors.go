package ogrescript

import "errors"

var (
	// ErrGrammar indicates a fatal grammar failure in a material chunk:
	// the chunk does not start with a material declaration, or a pass body
	// remains brace-imbalanced after trailing-brace trimming.
	ErrGrammar = errors.New("grammar error")

	// ErrProgram indicates a malformed program declaration chunk.
	ErrProgram = errors.New("program error")
)

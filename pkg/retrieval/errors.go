package retrieval

import "errors"

var (
	// ErrLexicalIndex marks a failed lexical candidate fetch. The lexical
	// signal is the baseline, so this is fatal to the whole search.
	ErrLexicalIndex = errors.New("lexical index unavailable")

	// ErrProvider marks an embedding/vector-store failure. The vector branch
	// fails open: the search continues with lexical scores only.
	ErrProvider = errors.New("embedding provider unavailable")
)

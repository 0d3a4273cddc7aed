package retrieval

import "errors"

// ErrDimensionMismatch is returned when vectors of inconsistent dimension are
// passed to BuildIndex or Search. Indexing never proceeds past the first
// mismatch; mixing dimensions would silently corrupt the distance math.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

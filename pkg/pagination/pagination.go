package pagination

const (
	// SearchDefaultLimit is the page size for free-text search when none is given.
	SearchDefaultLimit = 20
	// SearchMaxLimit caps how many rows a search may return.
	SearchMaxLimit = 100

	// ListDefaultLimit is the page size for full listings when none is given.
	ListDefaultLimit = 100
	// ListMaxLimit caps how many rows a listing may return.
	ListMaxLimit = 500
)

// Offset holds skip/limit pagination inputs from controllers or services.
type Offset struct {
	Skip  int
	Limit int
}

// ClampLimit forces limit into [1, maxLimit].
func ClampLimit(limit, maxLimit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// ClampSkip forces skip to be non-negative.
func ClampSkip(skip int) int {
	if skip < 0 {
		return 0
	}
	return skip
}

// Search normalizes a search limit.
func Search(limit int) int {
	return ClampLimit(limit, SearchMaxLimit)
}

// List normalizes listing pagination.
func List(skip, limit int) Offset {
	return Offset{Skip: ClampSkip(skip), Limit: ClampLimit(limit, ListMaxLimit)}
}

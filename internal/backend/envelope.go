package backend

// CodeOK is the only result code the backend uses for success.
const CodeOK = 200

// Result is the status block carried by every backend response.
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OK reports whether the result signals success.
func (r Result) OK() bool { return r.Code == CodeOK }

// Envelope is the uniform wrapper around every backend payload. Paged
// endpoints also fill TotalCount, PageSize and CurrentPage.
type Envelope[T any] struct {
	Result      Result `json:"result"`
	Data        T      `json:"data"`
	TotalCount  int    `json:"totalCount,omitempty"`
	PageSize    int    `json:"pageSize,omitempty"`
	CurrentPage int    `json:"currentPage,omitempty"`
}

// Page is one decoded page of a list endpoint.
type Page[T any] struct {
	Items       []T
	TotalCount  int
	PageSize    int
	CurrentPage int
}

// Outcome describes a successful mutation: the id the backend reported (when
// it reported one) and its message.
type Outcome struct {
	ID      int64
	Message string
}

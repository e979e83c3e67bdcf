package ports

// ErrorKinder is implemented by transport errors that carry a stable
// classified failure kind (e.g. "rate_limited", "invalid_model"). The
// orchestrator persists the kind in failure markers without depending on
// any concrete transport package.
type ErrorKinder interface {
	ErrorKind() string
}

package coach

// Result carries a gateway answer together with how it was produced. Every
// gateway call yields a usable Value; Cause is non-nil when that value is a
// canned fallback rather than a model response.
type Result[T any] struct {
	Value T
	Cause error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Fallback[T any](v T, cause error) Result[T] {
	if cause == nil {
		cause = ErrEmptyResponse
	}
	return Result[T]{Value: v, Cause: cause}
}

func (r Result[T]) IsFallback() bool {
	return r.Cause != nil
}

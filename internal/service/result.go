package service

// Result is the uniform outcome of every public storefront operation.
// Operations never return Go errors past their boundary: adapter
// failures, not-found conditions and transport errors all collapse
// into an unsuccessful Result with a user-facing message.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}

// failWith carries data alongside a failure. Listing operations use it
// to hand callers an empty slice they can render regardless of outcome.
func failWith[T any](data T, msg string) Result[T] {
	return Result[T]{Data: data, Error: msg}
}

package shared

// Of is shorthand for New.
func Of[T any](value T) *Handle[T] { return New(value) }

// Ints wraps a slice over two or more integer literals:
//
//	xs := shared.Ints(1, 2, 3) // same type as shared.New([]int{1, 2, 3})
//
// It is a narrow helper for small integer literals, not a general variadic
// constructor; use New for anything else.
func Ints(first, second int, rest ...int) *Handle[[]int] {
	xs := make([]int, 0, 2+len(rest))
	xs = append(xs, first, second)
	xs = append(xs, rest...)
	return New(xs)
}

package shared_test

import (
	"fmt"

	"github.com/IvanBrykalov/sharedref/shared"
)

func Example() {
	a := shared.New(0)
	b := a.Clone()

	*b.Get() = 5
	fmt.Println(a.Load(), a.UseCount(), a.Equal(b))

	b.Release()
	fmt.Println(a.UseCount())
	a.Release()
	// Output:
	// 5 2 true
	// 1
}

func ExampleHandle_Equal() {
	a := shared.New(12)
	b := shared.New(12)
	fmt.Println(a.Equal(b), a.Load() == b.Load())
	// Output: false true
}

func ExampleInts() {
	xs := shared.Ints(1, 2, 3)
	fmt.Println(xs)
	// Output: Shared { data: [1 2 3] }
}

func ExampleNewWithOptions() {
	h := shared.NewWithOptions("conn", shared.Options[string]{
		OnDrop: func(v string) { fmt.Println("dropped", v) },
	})
	h2 := h.Clone()
	h.Release()
	fmt.Println("still alive:", h2.Load())
	h2.Release()
	// Output:
	// still alive: conn
	// dropped conn
}

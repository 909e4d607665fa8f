package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/dsp/buffer"
)

func ExampleFramer() {
	f, err := buffer.NewFramer(4, 2)
	if err != nil {
		panic(err)
	}

	f.Write([]int16{1, 2, 3, 4, 5, 6, 7})

	for w, ok := f.Next(); ok; w, ok = f.Next() {
		fmt.Println(f.Offset(), w)
	}

	// Output:
	// 0 [1 2 3 4]
	// 2 [3 4 5 6]
}

package lineio_test

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/awant/huge-file-sorting/lineio"
)

// ExampleSeq demonstrates iterating over the lines of a reader.
func ExampleSeq() {
	for line, err := range lineio.Seq(strings.NewReader("banana\napple\ncherry")) {
		if err != nil {
			fmt.Printf("Error reading line: %v\n", err)
			return
		}
		fmt.Println(line)
	}

	// Output:
	// banana
	// apple
	// cherry
}

// ExampleWriteLine shows that every written line is terminated.
func ExampleWriteLine() {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	for _, line := range []string{"apple", "banana"} {
		if _, err := lineio.WriteLine(w, line); err != nil {
			fmt.Printf("Error writing line: %v\n", err)
			return
		}
	}
	_ = w.Flush()

	fmt.Printf("%q\n", buf.String())

	// Output: "apple\nbanana\n"
}

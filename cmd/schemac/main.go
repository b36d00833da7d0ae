// Command schemac compiles .proto source files into a serialized
// FileDescriptorSet, reproducing the subset of protoc's
// --descriptor_set_out mode described by the library it wraps.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Cobra is told not to print errors, so every error is printed here.
		// For a failed compile, run()'s reporter has already printed the
		// individual diagnostics before this summary line.
		fmt.Fprintln(os.Stderr, err)
		if _, ok := err.(usageError); ok {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

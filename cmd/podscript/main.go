// Command podscript turns written material into a podcast script with Gemini
// structured generation, and optionally renders it to a WAV file.
package main

import (
	"context"
	"os"
)

func main() {
	root := newRootCmd()
	if err := Execute(context.Background(), root); err != nil {
		os.Exit(HandleError(root, err))
	}
}

// Package platform derives the report group label from the running
// toolchain and target, the moral equivalent of a compiler/platform
// identifier pair.
package platform

import (
	"fmt"
	"runtime"
)

// GroupLabel returns the label under which this host's timings are
// grouped, e.g. "Library Comparison with go1.25.0 on linux/amd64".
// Runs with the same label accumulate into the same comparison table.
func GroupLabel() string {
	return fmt.Sprintf("Library Comparison with %s on %s/%s",
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Command banditprefetch-demo wires a synthetic (or host-CPU-backed)
// cache and CPU into a bandit prefetch controller and runs it for a
// configurable number of ticks, printing a final summary. It exists to
// exercise the prefetch package end-to-end; it is not part of the
// library.
package main

import "github.com/sarchlab/banditprefetch/cmd/banditprefetch-demo/cmd"

func main() {
	cmd.Execute()
}

// Command rnd estimates risk-neutral densities from option chains.
//
// Usage:
//
//	rnd [--config rnd.yaml] [--log-level debug] <command> [flags]
//
// Examples:
//
//	rnd synth --model heston --maturities 0.25,0.5 --out chain.csv
//	rnd estimate --input chain.csv --method mixture --plot
//	rnd iv --input chain.json
//	rnd methods
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

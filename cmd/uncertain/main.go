// cmd/uncertain — command line front end for gouncertain
//
// Usage:
//
//	uncertain fmt 1234.5 0.12          # 1234.50(12)
//	uncertain parse "6.62607015(81)e-34"
//	uncertain eval measurement.yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

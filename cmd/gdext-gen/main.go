// Command gdext-gen emits property registration code for structs carrying
// //godot:class and //godot:export directives. Run it from go:generate:
//
//	//go:generate go run github.com/mardigontoler/gdext/cmd/gdext-gen
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the tracklogic CLI.
package main

import "tracklogic.dev/pkg/tracklogic/cmd"

func main() {
	cmd.Execute()
}

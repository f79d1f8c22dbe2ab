// Package main provides the margins CLI.
package main

import "github.com/mesh-intelligence/margins/internal/cli"

func main() {
	cli.Execute()
}

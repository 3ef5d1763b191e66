// Package main provides the backlog CLI.
package main

import "github.com/mesh-intelligence/backlog/internal/cli"

func main() {
	cli.Execute()
}

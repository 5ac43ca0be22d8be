// Package main provides the CLI entrypoint for syntheme.
package main

func main() {
	Execute()
}

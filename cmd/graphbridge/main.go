// Command graphbridge serves property-store contacts as Graph-style JSON.
package main

import "github.com/mesh-intelligence/graphbridge/internal/cli"

func main() {
	cli.Execute()
}

// Command kanban manages boards, lists, and cards from the command line.
package main

import "github.com/mesh-intelligence/kanbanwave/internal/cli"

func main() {
	cli.Execute()
}

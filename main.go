package main

import "github.com/BrewMyTech/grok-mcp/cmd"

func main() {
	cmd.Execute()
}

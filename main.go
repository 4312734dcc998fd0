package main

import "github.com/slidekit/spv/cmd"

func main() {
	cmd.Execute()
}

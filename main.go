package main

import "github.com/nelsonhumberto/debug-tool/internal/cmd"

func main() {
	cmd.Execute()
}

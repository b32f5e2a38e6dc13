// Command cligue is the CLI for analyzing videos and chatting about them.
package main

import "github.com/raphaelgruber/cligue-go/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/vietddude/docqueue/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/bytebasket/backend/internal/cli"

func main() {
	cli.Execute()
}

package main

import (
	"med-diagnosis-api/internal/cli"
)

func main() {
	cli.Execute()
}

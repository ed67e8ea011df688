package main

import (
	"github.com/depbump/depbump/pkg/cmd"
)

func main() {
	cmd.Execute()
}

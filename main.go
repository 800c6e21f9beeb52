package main

import (
	"github.com/voidovo/imgtoss-sub000/cmd"
)

func main() {
	cmd.Execute()
}

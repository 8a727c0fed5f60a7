package main

import "github.com/typebridge/typebridge/cmd"

func main() {
	cmd.Execute()
}

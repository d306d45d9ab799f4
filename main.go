package main

import "github.com/acervo/autorctl/cmd"

func main() {
	cmd.Execute()
}

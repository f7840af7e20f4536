package main

import "github.com/insightdelivered/titulos-converter/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/eslsoft/ankigen/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/airscript-lang/airscript/pkg/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/zostay/go-cef/tools/pm/cmd"

func main() {
	cmd.Execute()
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-cef/cmd/cef/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}

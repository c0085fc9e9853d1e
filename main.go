package main

import (
	"fmt"
	"os"

	"github.com/phetsims/capacitor-lab-basics-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

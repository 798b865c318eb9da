package main

import (
	"fmt"
	"os"
)

func helper() {
	os.Exit(2)
}

func main() {
	fmt.Println("starting")
	defer func() {
		os.Exit(3)
	}()
	os.Exit(1) // want "direct os.Exit call in main.main"
}

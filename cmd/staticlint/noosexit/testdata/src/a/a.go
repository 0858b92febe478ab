package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("exiting")
	os.Exit(1) // want "avoid using os.Exit in main.main"
}

func helper() {
	os.Exit(2)
}

package main

import "github.com/pders01/catalog-delta/cmd"

func main() {
	cmd.Execute()
}

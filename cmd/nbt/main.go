package main

import "github.com/nbt-build/nbt/cmd/nbt/internal"

func main() {
	internal.Execute()
}

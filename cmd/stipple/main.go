package main

import (
	"github.com/MeKo-Tech/stipple/cmd/stipple/cmd"
)

func main() {
	cmd.Execute()
}

package main

import (
	"github.com/MeKo-Tech/chipgauge/cmd/chipgauge/cmd"
)

func main() {
	cmd.Execute()
}

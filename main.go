package main

import (
	"github.com/pyneda/kansa/cmd"
	"github.com/pyneda/kansa/internal/config"
)

func main() {
	config.LoadConfig()
	cmd.Execute()
}

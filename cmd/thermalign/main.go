// cmd/thermalign/main.go
package main

import (
	"thermalign/internal/alignapp"
	"thermalign/internal/appshell"
)

func main() { appshell.Main(alignapp.RunContext) }

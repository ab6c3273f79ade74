// cmd/oligotm/main.go
package main

import (
	"thermalign/internal/appshell"
	"thermalign/internal/oligotmapp"
)

func main() { appshell.Main(oligotmapp.RunContext) }

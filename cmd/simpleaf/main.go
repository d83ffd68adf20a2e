// cmd/simpleaf/main.go
package main

import (
	"simpleaf/internal/app"
	"simpleaf/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}

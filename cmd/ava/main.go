// cmd/ava/main.go
package main

import (
	"ava/internal/app"
	"ava/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}

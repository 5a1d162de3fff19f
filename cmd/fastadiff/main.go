// cmd/fastadiff/main.go
package main

import (
	"fastadiff/internal/app"
	"fastadiff/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}

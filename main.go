package main

import (
	"os"

	"github.com/go-account-portal/go-account-portal/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}

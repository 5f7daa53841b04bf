package main

import (
	_ "github.com/go-sql-driver/mysql" // Register MySQL driver
)

func main() {
	// Bootstrap (Cobra handles CLI)
	Execute()
}

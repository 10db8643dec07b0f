package main

import "github.com/billableops/resource-management/cmd"

func main() {
	cmd.Execute()
}

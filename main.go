package main

import "erp-project/backend/cmd"

func main() {
	cmd.Execute()
}

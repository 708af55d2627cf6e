package main

import "moment-admin-backend/cmd"

func main() {
	cmd.Run()
}

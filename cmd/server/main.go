package main

import "staffhire/internal/app/server"

func main() {
	server.Run()
}

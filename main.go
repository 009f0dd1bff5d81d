package main

import (
	"github.com/JoshRaimo/Rent-a-Ride-sub000/app"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}

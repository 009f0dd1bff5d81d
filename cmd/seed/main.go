package main

import (
	"flag"
	"log"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/config"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/database"
)

// Seeds the database with the initial admin user, and optionally a demo car
// inventory. Safe to run repeatedly.
func main() {
	demoCars := flag.Bool("demo-cars", false, "also seed a demo car inventory")
	flag.Parse()

	if err := config.LoadENV(); err != nil {
		log.Fatal("Failed to load environment:", err)
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	seeder := database.NewSeeder(store.GetDB())

	if err := seeder.SeedAdminUser(); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}

	if *demoCars {
		if err := seeder.SeedDemoCars(); err != nil {
			log.Fatal("Failed to seed demo cars:", err)
		}
	}

	log.Println("Seeding complete")
}

// Command main runs the database seeder for DevHub.
package main

import (
	"flag"
	"log"

	"devhub/internal/config"
	"devhub/internal/database"
	"devhub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numGroups := flag.Int("groups", 10, "Number of groups to create")
	numContent := flag.Int("content", 200, "Number of content items to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d groups, %d content items, clean=%v\n",
		*numUsers, *numGroups, *numContent, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err = database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	groups, err := s.SeedGroups(users, *numGroups)
	if err != nil {
		log.Fatalf("Group seeding failed: %v", err)
	}
	contents, err := s.SeedContent(users, groups, *numContent)
	if err != nil {
		log.Fatalf("Content seeding failed: %v", err)
	}
	if err := s.SeedEngagement(users, contents); err != nil {
		log.Fatalf("Engagement seeding failed: %v", err)
	}

	log.Println("All done! The database is now populated with test data.")
	log.Println("All test users have the password: password123")
}

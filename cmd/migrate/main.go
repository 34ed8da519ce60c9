package main

import (
	"log"
	"os"

	"notefiber-sync/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	log.Println("Migrating notes collection...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	var count int64
	if err := db.Table("notes").Count(&count).Error; err != nil {
		log.Fatal("Error: Verification failed:", err)
	}
	log.Printf("Migration complete. notes holds %d records.", count)
}

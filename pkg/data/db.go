package data

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func PostgresFromEnvOrDie() *gorm.DB {
	pw := os.Getenv("PGPASSWORD")
	host := os.Getenv("PGHOST")
	port := os.Getenv("PGPORT")
	dsn := fmt.Sprintf("host=%s user=postgres password=%s dbname=wetide port=%s sslmode=disable TimeZone=America/Los_Angeles",
		host,
		pw,
		port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect to database")
	}
	db.AutoMigrate(&Profile{}, &FriendLink{}, &SurfSpot{}, &SurfSession{}, &StatusMessage{})
	return db
}

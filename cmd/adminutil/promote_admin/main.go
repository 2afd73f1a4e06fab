package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
)

func main() {
	email := flag.String("email", "", "Email of the user to promote to admin")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: go run cmd/adminutil/promote_admin/main.go -email user@example.com")
	}

	_ = godotenv.Load()

	// Initialize DB from environment variables
	db.Init()

	ct, err := db.Conn.Exec(context.Background(), `UPDATE users SET role = 'admin' WHERE email = $1`, *email)
	if err != nil {
		log.Fatalf("failed to promote user to admin: %v", err)
	}

	if ct.RowsAffected() == 0 {
		log.Fatalf("no user found with email: %s", *email)
	}

	fmt.Printf("User %s promoted to admin.\n", *email)
}

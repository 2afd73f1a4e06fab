package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/ledger"
)

// Batch royalty import. Reads a CSV of "email,amount,description" rows and
// appends one earning event per row. Rows that fail are reported and skipped,
// the rest are still committed.
func main() {
	file := flag.String("file", "", "CSV file with email,amount,description rows")
	flag.Parse()

	if *file == "" {
		log.Fatalf("usage: go run cmd/adminutil/credit_royalties/main.go -file royalties.csv")
	}

	_ = godotenv.Load()
	db.Init()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *file, err)
	}
	defer f.Close()

	svc := ledger.NewService(ledger.NewPGStore(db.Conn), ledger.Validator{}, ledger.NopNotifier{})

	ctx := context.Background()
	r := csv.NewReader(f)
	line, credited, failed := 0, 0, 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("line %d: bad record: %v", line, err)
			failed++
			continue
		}
		if len(record) < 2 {
			log.Printf("line %d: expected email,amount[,description]", line)
			failed++
			continue
		}

		email, rawAmount := record[0], record[1]
		description := "royalty import"
		if len(record) > 2 && record[2] != "" {
			description = record[2]
		}

		var accountID string
		if err := db.Conn.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&accountID); err != nil {
			log.Printf("line %d: no account for %s: %v", line, email, err)
			failed++
			continue
		}

		amount, rej := ledger.ParseAmount(rawAmount)
		if rej != nil {
			log.Printf("line %d: bad amount %q: %v", line, rawAmount, rej)
			failed++
			continue
		}

		if _, err := svc.CreditEarning(ctx, accountID, amount, description, nil); err != nil {
			log.Printf("line %d: credit failed for %s: %v", line, email, err)
			failed++
			continue
		}
		credited++
	}

	fmt.Printf("Credited %d earnings, %d rows failed.\n", credited, failed)
}

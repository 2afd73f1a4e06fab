package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Conn *pgxpool.Pool

// Init connects to Postgres
func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		)
	}

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	log.Println("Connected to Postgres successfully")

	// Idempotent schema setup; safe to run on every boot
	ensureUsersTable()
	ensureLedgerTables()
	ensureCatalogTables()
	ensureBillingTables()
	ensureNotificationsTable()
	ensureSettingsTable()
}

func ensureUsersTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'artist' CHECK (role IN ('artist','admin')),
            bio TEXT,
            avatar_url TEXT,
            default_destination TEXT,
            is_active BOOLEAN DEFAULT TRUE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
    `)
	if err != nil {
		log.Printf("failed to ensure users table: %v", err)
	}
}

// ensureLedgerTables creates the append-only earnings table and the
// withdrawals table. Earnings rows are never updated or deleted; withdrawal
// rows only ever change status, processed_at and note.
func ensureLedgerTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS earnings (
            id UUID PRIMARY KEY,
            account_id UUID NOT NULL REFERENCES users(id),
            amount BIGINT NOT NULL CHECK (amount <> 0),
            earned_at TIMESTAMP WITH TIME ZONE NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            source_release_id UUID NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_earnings_account ON earnings(account_id, earned_at);

        CREATE TABLE IF NOT EXISTS withdrawals (
            id UUID PRIMARY KEY,
            account_id UUID NOT NULL REFERENCES users(id),
            amount BIGINT NOT NULL CHECK (amount > 0),
            destination TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','declined')),
            requested_at TIMESTAMP WITH TIME ZONE NOT NULL,
            processed_at TIMESTAMP WITH TIME ZONE NULL,
            note TEXT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_withdrawals_account ON withdrawals(account_id, requested_at);
        CREATE INDEX IF NOT EXISTS idx_withdrawals_status ON withdrawals(status);
    `)
	if err != nil {
		log.Printf("failed to ensure ledger tables: %v", err)
	}
}

func ensureCatalogTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS releases (
            id UUID PRIMARY KEY,
            artist_id UUID NOT NULL REFERENCES users(id),
            title TEXT NOT NULL,
            genre TEXT NOT NULL DEFAULT '',
            audio_url TEXT NOT NULL,
            artwork_url TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'submitted' CHECK (status IN ('submitted','approved','rejected')),
            review_note TEXT NULL,
            submitted_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            reviewed_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_releases_artist ON releases(artist_id);
        CREATE INDEX IF NOT EXISTS idx_releases_status ON releases(status);
    `)
	if err != nil {
		log.Printf("failed to ensure catalog tables: %v", err)
	}
}

func ensureBillingTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS plans (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
            billing_interval TEXT NOT NULL DEFAULT 'yearly' CHECK (billing_interval IN ('monthly','yearly')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );

        CREATE TABLE IF NOT EXISTS subscriptions (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id),
            plan_id UUID NOT NULL REFERENCES plans(id),
            status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','cancelled','expired')),
            payment_reference TEXT,
            started_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            expires_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_subscriptions_user ON subscriptions(user_id);
    `)
	if err != nil {
		log.Printf("failed to ensure billing tables: %v", err)
	}
}

// ensureNotificationsTable creates notifications table if it doesn't exist
func ensureNotificationsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS notifications (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type TEXT NOT NULL,
            title TEXT NOT NULL,
            body TEXT,
            reference UUID NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id) WHERE read_at IS NULL;
    `)
	if err != nil {
		log.Printf("failed to create notifications table: %v", err)
	}
}

func ensureSettingsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS settings (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
    `)
	if err != nil {
		log.Printf("failed to ensure settings table: %v", err)
	}
}

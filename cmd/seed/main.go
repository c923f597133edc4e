// seed は法人アカウントとユーザーを 1 件ずつ登録する運用ツールです (PostgreSQL のみ)。
//
//	DATABASE_URL=postgres://... go run ./cmd/seed -tenant default -account acct-acme \
//	    -company "Acme Co" -email alice@acme.co -name Alice -role admin
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/password"

	"github.com/google/uuid"
	// _ はドライバの registration のためだけで、直接コード内で使わないため
	_ "github.com/lib/pq"
)

type seedInput struct {
	TenantID      string
	CorpAccountID string
	CompanyName   string
	Email         string
	Name          string
	Role          model.UserRole
	Password      string
}

func main() {
	var in seedInput
	var role string
	flag.StringVar(&in.TenantID, "tenant", "default", "tenant id")
	flag.StringVar(&in.CorpAccountID, "account", "", "corporate account id")
	flag.StringVar(&in.CompanyName, "company", "", "company name (used when the account is created)")
	flag.StringVar(&in.Email, "email", "", "user email")
	flag.StringVar(&in.Name, "name", "", "user display name")
	flag.StringVar(&role, "role", string(model.RoleBooker), "admin | booker")
	flag.StringVar(&in.Password, "password", "", "optional initial password; leave empty to onboard via login link")
	flag.Parse()
	in.Role = model.UserRole(role)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.CorpAccountID == "" || in.Email == "" || in.Name == "" {
		flag.Usage()
		os.Exit(2)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	userID, created, err := seed(ctx, db, in)
	if err != nil {
		log.Fatalf("Failed to seed corporate user: %v", err)
	}
	if created {
		fmt.Printf("Created user %s (%s) in account %s/%s\n", in.Email, userID, in.TenantID, in.CorpAccountID)
	} else {
		fmt.Printf("User %s already exists in tenant %s; nothing changed\n", in.Email, in.TenantID)
	}
}

// seed はアカウント (なければ作成) とユーザーを 1 トランザクションで登録する。
// 同じメールアドレスのユーザーが既にいれば何もしない。
func seed(ctx context.Context, db *sql.DB, in seedInput) (string, bool, error) {
	var hash sql.NullString
	status := model.UserStatusPending
	if in.Password != "" {
		if err := password.Validate(in.Password); err != nil {
			return "", false, err
		}
		h, err := password.NewHasher(password.DefaultCost).Hash(in.Password)
		if err != nil {
			return "", false, err
		}
		hash = sql.NullString{String: h, Valid: true}
		status = model.UserStatusActive
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO corporate_accounts (tenant_id, corp_account_id, company_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (tenant_id, corp_account_id) DO NOTHING`,
		in.TenantID, in.CorpAccountID, in.CompanyName, model.AccountStatusActive, now)
	if err != nil {
		return "", false, fmt.Errorf("insert corporate_accounts: %w", err)
	}

	var passwordSetAt sql.NullTime
	if hash.Valid {
		passwordSetAt = sql.NullTime{Time: now, Valid: true}
	}
	userID := uuid.NewString()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO corporate_users
			(tenant_id, corp_account_id, user_id, email, name, role, status, password_hash, password_set_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (tenant_id, email) DO NOTHING`,
		in.TenantID, in.CorpAccountID, userID, in.Email, in.Name, in.Role, status, hash, passwordSetAt, now)
	if err != nil {
		return "", false, fmt.Errorf("insert corporate_users: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", false, err
	}

	if err := tx.Commit(); err != nil {
		return "", false, err
	}
	return userID, n == 1, nil
}

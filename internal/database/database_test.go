package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"healthquery-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: users.email"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicate(tt.err); got != tt.want {
				t.Errorf("IsDuplicate(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open("sqlite://file:dbtest?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer Close(db)

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Ping(context.Background(), db); err != nil {
		t.Fatalf("ping: %v", err)
	}

	u, err := models.NewUser("dup@example.com", "Passw0rd", "A", "B", models.RolePatient)
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	u2, _ := models.NewUser("dup@example.com", "Passw0rd", "C", "D", models.RolePatient)
	err = db.Create(u2).Error
	if !IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

// cmd/seeduser/main.go — Cria/atualiza o usuario administrador de demonstracao.
// Uso: go run cmd/seeduser/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "pdv.db"
	}
	email := "admin@lanchonete.com"
	password := "1234"
	name := "Admin Demo"
	role := "ADMIN"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO users (id, email, name, password_hash, role, active)
		VALUES (?, ?, ?, ?, ?, true)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    name = EXCLUDED.name,
		    role = EXCLUDED.role,
		    active = true
	`, uuid.NewString(), email, name, string(hash), role)

	if result.Error != nil {
		log.Fatalf("insert error: %v", result.Error)
	}
	fmt.Printf("✅ Usuario '%s' criado/atualizado com senha '%s'\n", email, password)
}

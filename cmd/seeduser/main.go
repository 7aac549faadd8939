// cmd/seeduser/main.go — Crea/actualiza usuario de demo.
// Uso: go run cmd/seeduser/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"ventapos/internal/model"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	dbFile := os.Getenv("DATABASE_FILE")
	if dbFile == "" {
		dbFile = "./data/ventapos.db"
	}
	username := "admin"
	password := "1234"
	nombre := "Admin Demo"
	rol := "admin"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := db.AutoMigrate(&model.Usuario{}); err != nil {
		log.Fatalf("migrate error: %v", err)
	}

	ctx := context.Background()
	var existente model.Usuario
	err = db.WithContext(ctx).Where("username = ?", username).First(&existente).Error
	if err == nil {
		existente.PasswordHash = string(hash)
		existente.Nombre = nombre
		existente.Rol = rol
		existente.Activo = true
		if err := db.WithContext(ctx).Save(&existente).Error; err != nil {
			log.Fatalf("update error: %v", err)
		}
	} else {
		nuevo := model.Usuario{
			Username:     username,
			Nombre:       nombre,
			PasswordHash: string(hash),
			Rol:          rol,
			Activo:       true,
		}
		if err := db.WithContext(ctx).Create(&nuevo).Error; err != nil {
			log.Fatalf("insert error: %v", err)
		}
	}
	fmt.Printf("✅ Usuario '%s' creado/actualizado con password '%s'\n", username, password)
}

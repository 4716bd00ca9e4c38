package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"bookhive/internal/database"
	"bookhive/internal/domain"
	"bookhive/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	// wipe in FK order so the seed is repeatable
	for _, table := range []string{"notifications", "borrows", "book_requests", "books", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clearing %s: %v", table, err)
		}
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	books := repository.NewBookRepository(db)

	seedUsers := []struct {
		email     string
		password  string
		firstName string
		lastName  string
		role      domain.UserRole
	}{
		{"admin@bookhive.local", "admin123", "Alisher", "Nurpeisov", domain.RoleAdmin},
		{"librarian@bookhive.local", "librarian123", "Dana", "Serikova", domain.RoleLibrarian},
		{"member@bookhive.local", "member123", "Aruzhan", "Bekova", domain.RoleMember},
	}

	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		u := &domain.User{
			Email:        su.email,
			PasswordHash: string(hash),
			FirstName:    su.firstName,
			LastName:     su.lastName,
			Role:         su.role,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("seeding user %s: %v", su.email, err)
		}
		log.Printf("user %s (%s)", su.email, su.role)
	}

	seedBooks := []domain.Book{
		{Title: "The Go Programming Language", Author: "Alan Donovan, Brian Kernighan", ISBN: "978-0134190440", Quantity: 3, AvailableQuantity: 3, Category: "Programming"},
		{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", ISBN: "978-1449373320", Quantity: 2, AvailableQuantity: 2, Category: "Databases"},
		{Title: "Clean Architecture", Author: "Robert C. Martin", ISBN: "978-0134494166", Quantity: 2, AvailableQuantity: 2, Category: "Software Design"},
		{Title: "The Pragmatic Programmer", Author: "David Thomas, Andrew Hunt", ISBN: "978-0135957059", Quantity: 4, AvailableQuantity: 4, Category: "Software Design"},
		{Title: "Abai Zholy", Author: "Mukhtar Auezov", ISBN: "978-6010406778", Quantity: 5, AvailableQuantity: 5, Category: "Literature"},
	}

	for i := range seedBooks {
		if err := books.Create(ctx, &seedBooks[i]); err != nil {
			log.Fatalf("seeding book %s: %v", seedBooks[i].Title, err)
		}
		log.Printf("book %q (%d copies)", seedBooks[i].Title, seedBooks[i].Quantity)
	}

	log.Println("seed complete")
}

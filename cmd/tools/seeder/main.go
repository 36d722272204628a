package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/noah-isme/backend-academy/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	queries := store.New(pool)

	seedUsers(ctx, queries, pool)
	seedProducts(ctx, queries)
	seedCourses(ctx, queries)

	log.Println("seeding completed")
}

func seedUsers(ctx context.Context, q *store.Store, pool *pgxpool.Pool) {
	users := []struct {
		Name     string
		Email    string
		Password string
		Admin    bool
	}{
		{"Admin", "admin@academy.dev", "admin-password-1", true},
		{"Ayu Lestari", "ayu@example.com", "student-password-1", false},
		{"Bagus Putra", "bagus@example.com", "student-password-2", false},
		{"Citra Dewi", "citra@example.com", "student-password-3", false},
	}

	log.Println("seeding users")
	for _, u := range users {
		hash, err := argon2id.CreateHash(u.Password, argon2id.DefaultParams)
		if err != nil {
			log.Fatalf("hash password for %s: %v", u.Email, err)
		}
		created, err := q.CreateUser(ctx, store.CreateUserParams{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: hash,
		})
		if err != nil {
			log.Printf("skip user %s: %v", u.Email, err)
			continue
		}
		if u.Admin {
			_, err := pool.Exec(ctx, `UPDATE users SET roles = '{user,admin}' WHERE id = $1`, created.ID)
			if err != nil {
				log.Fatalf("promote admin %s: %v", u.Email, err)
			}
		}
	}
}

func seedProducts(ctx context.Context, q *store.Store) {
	products := []store.CreateProductParams{
		{Title: "Sticker Pack", Slug: "sticker-pack", Description: "A pack of 10 die-cut stickers.", Price: 50_000, Discount: 0, Stock: 200, Tags: []string{"merch", "stickers"}},
		{Title: "Academy T-Shirt", Slug: "academy-t-shirt", Description: "Soft cotton tee with the academy logo.", Price: 150_000, Discount: 10, Stock: 80, Tags: []string{"merch", "apparel"}},
		{Title: "Mechanical Keyboard", Slug: "mechanical-keyboard", Description: "Compact 65% board with hot-swap switches.", Price: 900_000, Discount: 0, Stock: 25, Tags: []string{"hardware"}},
		{Title: "Desk Mat", Slug: "desk-mat", Description: "900x400mm stitched-edge desk mat.", Price: 120_000, Discount: 5, Stock: 60, Tags: []string{"merch", "desk"}},
	}

	log.Println("seeding products")
	for _, p := range products {
		if _, err := q.CreateProduct(ctx, p); err != nil {
			if isDuplicate(err) {
				continue
			}
			log.Fatalf("seed product %s: %v", p.Slug, err)
		}
	}
}

func seedCourses(ctx context.Context, q *store.Store) {
	courses := []store.CreateCourseParams{
		{Title: "Go Fundamentals", Slug: "go-fundamentals", Description: "Syntax, tooling and the standard library.", Price: 250_000, Discount: 0, Level: "beginner", Tags: []string{"go", "backend"}},
		{Title: "Building REST APIs", Slug: "building-rest-apis", Description: "Design and ship production HTTP services.", Price: 400_000, Discount: 15, Level: "intermediate", Tags: []string{"go", "http"}},
		{Title: "PostgreSQL for Developers", Slug: "postgresql-for-developers", Description: "Schema design, indexing and query tuning.", Price: 350_000, Discount: 0, Level: "intermediate", Tags: []string{"sql", "postgres"}},
		{Title: "Distributed Systems Patterns", Slug: "distributed-systems-patterns", Description: "Queues, idempotency and failure handling.", Price: 600_000, Discount: 20, Level: "advanced", Tags: []string{"architecture"}},
	}

	log.Println("seeding courses")
	for _, c := range courses {
		if _, err := q.CreateCourse(ctx, c); err != nil {
			if isDuplicate(err) {
				continue
			}
			log.Fatalf("seed course %s: %v", c.Slug, err)
		}
	}
}

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

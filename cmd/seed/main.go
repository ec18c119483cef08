// Package main provides a tool to seed the database with demo readers.
//
// It creates readers through the same services the API uses, puts books on
// their shelves, logs progress against their goals and leaves a few reviews
// in the moderation queue.
//
// Usage:
//
//	DATA_PATH=~/OhMyReads/data go run ./cmd/seed
//	DATA_PATH=~/OhMyReads/data go run ./cmd/seed --readers 5
//	DATA_PATH=~/OhMyReads/data go run ./cmd/seed --admin-password s3cret-pass
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	mathrand "math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/ohmyreads/ohmyreads-server/internal/auth"
	"github.com/ohmyreads/ohmyreads-server/internal/domain"
	"github.com/ohmyreads/ohmyreads-server/internal/logger"
	"github.com/ohmyreads/ohmyreads-server/internal/search"
	"github.com/ohmyreads/ohmyreads-server/internal/service"
	"github.com/ohmyreads/ohmyreads-server/internal/store"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

var (
	readers        = flag.Int("readers", 3, "Number of demo readers to create")
	readerPassword = flag.String("password", "demo-reader", "Password for the demo readers")
	adminName      = flag.String("admin-name", "admin", "Name of the admin account")
	adminPassword  = flag.String("admin-password", "", "Provision the admin account with this password")
)

var demoNames = []string{"Ada Reader", "Bram Pages", "Cleo Margins", "Dev Chapters", "Esme Spines", "Finn Folio"}

var demoBooks = []domain.Book{
	{ID: "seed-dune", Title: "Dune", Author: "Frank Herbert", PageCount: 412, Moods: []string{"Science Fiction"}, PublishedDate: "1965"},
	{ID: "seed-earthsea", Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", PageCount: 183, Moods: []string{"Fantasy"}, PublishedDate: "1968"},
	{ID: "seed-piranesi", Title: "Piranesi", Author: "Susanna Clarke", PageCount: 245, Moods: []string{"Fantasy", "Mystery"}, PublishedDate: "2020"},
	{ID: "seed-beloved", Title: "Beloved", Author: "Toni Morrison", PageCount: 324, Moods: []string{"Literary Fiction"}, PublishedDate: "1987"},
	{ID: "seed-hailmary", Title: "Project Hail Mary", Author: "Andy Weir", PageCount: 476, Moods: []string{"Science Fiction"}, PublishedDate: "2021"},
	{ID: "seed-rebecca", Title: "Rebecca", Author: "Daphne du Maurier", PageCount: 380, Moods: []string{"Mystery", "Romance"}, PublishedDate: "1938"},
	{ID: "seed-sapiens", Title: "Sapiens", Author: "Yuval Noah Harari", PageCount: 443, Moods: []string{"Nonfiction", "History"}, PublishedDate: "2011"},
}

var demoComments = []string{
	"Could not put it down.",
	"Slow start, wonderful ending.",
	"Beautifully written and strange.",
	"Worth every page.",
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/OhMyReads/data")
	}

	fmt.Printf("Seeding data at: %s\n", dataPath)

	quiet := logger.Discard()
	ctx := context.Background()

	kv, err := store.OpenBadger(filepath.Join(dataPath, "db"), nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	st := store.New(kv, quiet)
	defer st.Close()

	index, err := search.NewShelfIndex(search.Options{DataPath: dataPath, Logger: quiet})
	if err != nil {
		log.Fatalf("Failed to open shelf index: %v", err)
	}
	defer index.Close()

	// Seeded readers never need their tokens, so a throwaway key is enough.
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("Failed to generate key: %v", err)
	}
	tokens, err := auth.NewTokenService(key, time.Hour)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	v := validation.New()
	goals := service.NewGoalsService(st, v, service.GoalsOptions{Location: time.Local}, quiet)
	shelf := service.NewShelfService(st, goals, index, v, quiet)
	reviews := service.NewReviewService(st, v, quiet)
	sessions := service.NewSessionService(st, tokens, v, quiet)

	if *adminPassword != "" {
		admin, err := sessions.EnsureAdmin(ctx, *adminName, *adminPassword)
		if err != nil {
			log.Fatalf("Failed to provision admin: %v", err)
		}
		fmt.Printf("Admin account ready: %s (%s)\n", admin.Name, admin.ID)
	}

	rng := mathrand.New(mathrand.NewPCG(uint64(time.Now().UnixNano()), 7))

	n := max(0, min(*readers, len(demoNames)))
	for _, name := range demoNames[:n] {
		session, err := sessions.Login(ctx, service.LoginRequest{Name: name, Password: *readerPassword})
		if err != nil {
			log.Printf("Failed to create reader %s: %v", name, err)
			continue
		}
		user := session.User
		fmt.Printf("\nSeeding reader: %s (%s)\n", user.Name, user.ID)

		books := make([]domain.Book, len(demoBooks))
		copy(books, demoBooks)
		rng.Shuffle(len(books), func(i, j int) { books[i], books[j] = books[j], books[i] })
		picked := books[:3+rng.IntN(3)]

		for i, book := range picked {
			if _, err := shelf.Add(ctx, user.ID, service.AddToShelfRequest{Book: book}); err != nil {
				log.Printf("  Failed to shelve %s: %v", book.Title, err)
				continue
			}

			switch i {
			case 0:
				// Finish the first book and review it
				if _, err := shelf.UpdateStatus(ctx, user.ID, book.ID, domain.ShelfFinished); err != nil {
					log.Printf("  Failed to finish %s: %v", book.Title, err)
					continue
				}
				_, err := reviews.Create(ctx, user.ID, book.ID, service.CreateReviewRequest{
					BookTitle: book.Title,
					Rating:    3 + rng.IntN(3),
					Comment:   demoComments[rng.IntN(len(demoComments))],
				})
				if err != nil {
					log.Printf("  Failed to review %s: %v", book.Title, err)
				}
				fmt.Printf("  Finished and reviewed: %s\n", book.Title)
			case 1:
				page := 10 + rng.IntN(book.PageCount/2)
				if _, err := shelf.UpdateProgress(ctx, user.ID, book.ID, page); err != nil {
					log.Printf("  Failed to log progress for %s: %v", book.Title, err)
					continue
				}
				fmt.Printf("  Reading: %s (page %d)\n", book.Title, page)
			default:
				fmt.Printf("  Want to read: %s\n", book.Title)
			}
		}

		progress, err := goals.GetProgress(ctx, user.ID)
		if err == nil {
			fmt.Printf("  Goals: %d%% of today, %d%% of the year\n", progress.DailyPercent, progress.YearlyPercent)
		}
	}

	fmt.Println("\nSeeding complete!")
}

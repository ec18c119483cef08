package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/ohmyreads/ohmyreads-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/OhMyReads/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	users := map[string]string{}
	userCount := 0
	if err := scan(db, "user:", func(key string, val []byte) error {
		var u domain.User
		if err := json.Unmarshal(val, &u); err != nil {
			return err
		}
		users[u.ID] = u.Name
		userCount++
		return nil
	}); err != nil {
		log.Fatalf("Error reading users: %v", err)
	}

	goalsCount := 0
	if err := scan(db, "goals:", func(key string, val []byte) error {
		var g domain.ReadingGoals
		if err := json.Unmarshal(val, &g); err != nil {
			return err
		}
		goalsCount++
		// Show the first few readers' goals
		if goalsCount <= 5 {
			userID := strings.TrimPrefix(key, "goals:")
			fmt.Printf("Reader: %s (%s)\n", users[userID], userID)
			fmt.Printf("  Targets: %d pages/day, %d books/year\n", g.TargetPagesPerDay, g.TargetBooksPerYear)
			fmt.Printf("  Streak: %d (longest %d)\n", g.CurrentStreak, g.LongestStreak)
			fmt.Printf("  Today: %d pages, this year: %d books / %d pages\n",
				g.TodayPagesRead, g.YearlyBooksRead, g.YearlyPagesRead)
			if g.LastReadDate != nil {
				fmt.Printf("  Last read: %s\n", g.LastReadDate.Format("2006-01-02"))
			}
			fmt.Println()
		}
		return nil
	}); err != nil {
		log.Fatalf("Error reading goals: %v", err)
	}

	shelfByStatus := map[domain.ShelfStatus]int{}
	shelfCount := 0
	if err := scan(db, "shelf:", func(key string, val []byte) error {
		var e domain.ShelfEntry
		if err := json.Unmarshal(val, &e); err != nil {
			return err
		}
		shelfByStatus[e.Status]++
		shelfCount++
		return nil
	}); err != nil {
		log.Fatalf("Error reading shelves: %v", err)
	}

	reviewsByStatus := map[domain.ReviewStatus]int{}
	reviewCount := 0
	if err := scan(db, "review:", func(key string, val []byte) error {
		var r domain.Review
		if err := json.Unmarshal(val, &r); err != nil {
			return err
		}
		reviewsByStatus[r.Status]++
		reviewCount++
		return nil
	}); err != nil {
		log.Fatalf("Error reading reviews: %v", err)
	}

	postCount := 0
	if err := scan(db, "blog:", func(_ string, _ []byte) error {
		postCount++
		return nil
	}); err != nil {
		log.Fatalf("Error reading blog posts: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Users: %d\n", userCount)
	fmt.Printf("Readers with goals: %d\n", goalsCount)
	fmt.Printf("Shelf entries: %d\n", shelfCount)
	for _, s := range []domain.ShelfStatus{domain.ShelfWantToRead, domain.ShelfReading, domain.ShelfFinished, domain.ShelfDNF} {
		fmt.Printf("  %s: %d\n", s, shelfByStatus[s])
	}
	fmt.Printf("Reviews: %d\n", reviewCount)
	for _, s := range []domain.ReviewStatus{domain.ReviewPending, domain.ReviewApproved, domain.ReviewRejected} {
		fmt.Printf("  %s: %d\n", s, reviewsByStatus[s])
	}
	fmt.Printf("Blog posts: %d\n", postCount)
}

// scan visits every document under prefix, skipping index keys.
func scan(db *badger.DB, prefix string, fn func(key string, val []byte) error) error {
	return db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			rest := strings.TrimPrefix(key, prefix)
			if strings.HasPrefix(rest, "idx:") || strings.HasPrefix(rest, "midx:") {
				continue
			}

			err := item.Value(func(val []byte) error {
				return fn(key, val)
			})
			if err != nil {
				log.Printf("Error reading %s: %v", key, err)
			}
		}
		return nil
	})
}

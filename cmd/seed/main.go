// Seeds the books and users collections with starter data. Existing documents
// are wiped first.
package main

import (
	"context"
	"log/slog"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/acervo/bookshelf/internal/config"
	"github.com/acervo/bookshelf/internal/models"
	"github.com/acervo/bookshelf/internal/store"
)

var seedBooks = []models.Book{
	{Title: "O Senhor dos Anéis: A Sociedade do Anel", Author: "J.R.R. Tolkien", Year: 1994},
	{Title: "Harry Potter e a Pedra Filosofal", Author: "J.K. Rowling", Year: 2000},
	{Title: "Deus, um Delírio", Author: "Richard Dawkins", Year: 2007},
	{Title: "O Universo numa Casca de Noz", Author: "Stephen Hawking", Year: 2001},
	{Title: "Crime e Castigo", Author: "Fiódor Dostoiévski", Year: 2024},
}

var seedUsers = []struct {
	username string
	password string
}{
	{"admin", "admin123"},
	{"edson", "edson123"},
	{"usuario", "user123"},
}

func main() {
	cfg := config.Load()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Error("mongo connect", "err", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.MongoDB)

	if _, err := db.Collection("books").DeleteMany(ctx, bson.M{}); err != nil {
		log.Error("clear books", "err", err)
		os.Exit(1)
	}
	if _, err := db.Collection("users").DeleteMany(ctx, bson.M{}); err != nil {
		log.Error("clear users", "err", err)
		os.Exit(1)
	}

	bookStore := store.NewBookStore(db)
	for i := range seedBooks {
		if _, err := bookStore.Insert(ctx, &seedBooks[i]); err != nil {
			log.Error("insert book", "title", seedBooks[i].Title, "err", err)
			os.Exit(1)
		}
	}
	log.Info("books seeded", "count", len(seedBooks))

	users := store.NewUserStore(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Error("users index", "err", err)
		os.Exit(1)
	}
	for _, u := range seedUsers {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("hash password", "err", err)
			os.Exit(1)
		}
		if _, err := users.Create(ctx, u.username, string(hashed)); err != nil {
			log.Error("insert user", "username", u.username, "err", err)
			os.Exit(1)
		}
	}
	log.Info("users seeded", "count", len(seedUsers))
}

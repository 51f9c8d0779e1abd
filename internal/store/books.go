package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/acervo/bookshelf/internal/models"
)

var (
	// ErrNotFound reports a well-formed id with no matching document.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID reports a malformed document id. Distinct from ErrNotFound
	// so handlers can answer 400 instead of 404.
	ErrInvalidID = errors.New("invalid id")
)

// BookStore handles book document CRUD in MongoDB.
type BookStore struct {
	col *mongo.Collection
}

func NewBookStore(db *mongo.Database) *BookStore {
	return &BookStore{col: db.Collection("books")}
}

// Sanitize strips characters that carry meaning inside Mongo operators and
// regex search terms.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '$', ';', '(', ')':
			return -1
		}
		return r
	}, s)
}

// searchFilter matches books whose title or author contains term as a
// case-insensitive substring. An empty term matches everything.
func searchFilter(term string) bson.M {
	if term == "" {
		return bson.M{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": re},
		bson.M{"author": re},
	}}
}

// FindPage returns one page of books matching term, newest first, along with
// the total match count. Exactly one count and one find round trip.
func (s *BookStore) FindPage(ctx context.Context, page, limit int, term string) ([]models.Book, int64, error) {
	filter := searchFilter(term)

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	skip := int64(page-1) * int64(limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find books: %w", err)
	}
	defer cur.Close(ctx)

	books := []models.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// Insert stores a new book and returns it with its assigned id.
func (s *BookStore) Insert(ctx context.Context, book *models.Book) (*models.Book, error) {
	res, err := s.col.InsertOne(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	book.ID = res.InsertedID.(primitive.ObjectID)
	return book, nil
}

// GetByID is a point lookup by hex id.
func (s *BookStore) GetByID(ctx context.Context, id string) (*models.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	var book models.Book
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&book); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &book, nil
}

// Update applies a partial update: only fields present in req change. Returns
// the post-update document.
func (s *BookStore) Update(ctx context.Context, id string, req *models.UpdateBookRequest) (*models.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = Sanitize(*req.Title)
	}
	if req.Author != nil {
		set["author"] = Sanitize(*req.Author)
	}
	if req.Year != nil {
		set["year"] = *req.Year
	}
	if req.Thumbnail != nil {
		set["thumbnail"] = Sanitize(*req.Thumbnail)
	}
	if len(set) == 0 {
		// Nothing to change; Mongo rejects an empty $set.
		return s.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	return &book, nil
}

// Delete removes a book by hex id.
func (s *BookStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Book is a single library entry stored in MongoDB.
type Book struct {
	ID        primitive.ObjectID `json:"id"                  bson:"_id,omitempty"`
	Title     string             `json:"title"               bson:"title"`
	Author    string             `json:"author"              bson:"author"`
	Year      int                `json:"year"                bson:"year"`
	Thumbnail string             `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
}

// PageResult is one page of a book listing, the unit stored in the query cache.
type PageResult struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
	TotalItems int64  `json:"totalItems"`
	Data       []Book `json:"data"`
}

// CreateBookRequest is the JSON body for POST /api/books.
type CreateBookRequest struct {
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author" validate:"required"`
	Year      int    `json:"year" validate:"required"`
	Thumbnail string `json:"thumbnail"`
}

// UpdateBookRequest is the JSON body for PUT /api/books/:id. Nil fields were
// absent from the payload and leave the stored value untouched.
type UpdateBookRequest struct {
	Title     *string `json:"title"`
	Author    *string `json:"author"`
	Year      *int    `json:"year"`
	Thumbnail *string `json:"thumbnail"`
}

package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an account document in the users collection. The password hash is
// never serialized into responses.
type User struct {
	ID       primitive.ObjectID `json:"id"       bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Password string             `json:"-"        bson:"password"`
}

// RegisterRequest is the JSON body for POST /api/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the JSON body for POST /api/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token issued on successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisteredUser is the user subset echoed back after registration.
type RegisteredUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Comment   string             `json:"comment" bson:"comment"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type Movie struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Director    string             `json:"director" bson:"director"`
	Year        int                `json:"year" bson:"year"`
	Description string             `json:"description" bson:"description"`
	Genre       string             `json:"genre" bson:"genre"`
	Comments    []Comment          `json:"comments" bson:"comments"`
	Version     int                `json:"version" bson:"version"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CommentView es un comentario con el autor resuelto. User queda nil si el
// autor ya no existe; UserID siempre viene.
type CommentView struct {
	ID        primitive.ObjectID `json:"id"`
	UserID    primitive.ObjectID `json:"userId"`
	User      *UserSummary       `json:"user,omitempty"`
	Comment   string             `json:"comment"`
	CreatedAt time.Time          `json:"createdAt"`
}

// MovieView es lo que devuelve la API para una película.
type MovieView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Director    string             `json:"director"`
	Year        int                `json:"year"`
	Description string             `json:"description"`
	Genre       string             `json:"genre"`
	Comments    []CommentView      `json:"comments"`
	Version     int                `json:"version"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Payload para crear una película; todos los campos son obligatorios.
type MovieCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Director    string `json:"director" validate:"required"`
	Year        int    `json:"year" validate:"required,gt=0"`
	Description string `json:"description" validate:"required"`
	Genre       string `json:"genre" validate:"required"`
}

// MovieUpdateRequest solo conoce los campos editables; el decoder descarta
// cualquier otro campo del body.
type MovieUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Director    *string `json:"director,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Description *string `json:"description,omitempty"`
	Genre       *string `json:"genre,omitempty"`
}

type CommentRequest struct {
	Comment string `json:"comment"`
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jonnronanmn/movies-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository(database *mongo.Database) *MovieRepository {
	return &MovieRepository{col: database.Collection("movies")}
}

func (r *MovieRepository) Insert(ctx context.Context, m *models.Movie) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *MovieRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Movie, error) {
	var m models.Movie
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List devuelve todas las películas, las más recientes primero.
func (r *MovieRepository) List(ctx context.Context) ([]models.Movie, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Movie{}
	for cur.Next(ctx) {
		var m models.Movie
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// Update aplica un $set parcial y devuelve el documento ya actualizado.
func (r *MovieRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Movie, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	})
}

// PushComment agrega el comentario con un único $push atómico, así dos
// comentarios concurrentes sobre la misma película no se pisan.
func (r *MovieRepository) PushComment(ctx context.Context, id primitive.ObjectID, c models.Comment) (*models.Movie, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$push": bson.M{"comments": c},
		"$set":  bson.M{"updatedAt": c.CreatedAt},
		"$inc":  bson.M{"version": 1},
	})
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MovieRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Movie, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m models.Movie
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	writeTimeout = time.Second
	readTimeout  = 2 * time.Second
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameConflict = errors.New("username conflict")
)

// UserRepo handles the persistence of user models.
type UserRepo struct {
	collection *mongo.Collection
}

// NewUserRepo creates a new UserRepo with the given MongoDB client, database name, and collection name.
func NewUserRepo(client *mongo.Client, dbName, collectionName string) *UserRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &UserRepo{
		collection: collection,
	}
}

// EnsureIndexes creates the unique username index.
func (u *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := u.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Save inserts or updates a user in the repository.
func (u *UserRepo) Save(user *dmn.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	filter := bson.M{"_id": user.ID}
	update := bson.M{
		"$set": bson.M{
			"username":     user.Username,
			"passwordHash": user.PasswordHash,
			"updatedAt":    time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := u.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameConflict
		}
		return fmt.Errorf("saving user: %w", err)
	}

	return nil
}

// ByID retrieves a user by their ID.
func (u *UserRepo) ByID(id uuid.UUID) (*dmn.User, error) {
	return u.findOne(bson.M{"_id": id})
}

// ByUsername retrieves a user by their username.
func (u *UserRepo) ByUsername(username string) (*dmn.User, error) {
	return u.findOne(bson.M{"username": username})
}

func (u *UserRepo) findOne(filter bson.M) (*dmn.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	var user dmn.User
	if err := u.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &user, nil
}

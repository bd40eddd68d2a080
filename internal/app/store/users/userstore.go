// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/shelfshare/shelfshare/internal/app/system/apperr"
	"github.com/shelfshare/shelfshare/internal/app/system/normalize"
	"github.com/shelfshare/shelfshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user after validating and hashing the password.
// The unique index on username_ci is the authority on uniqueness.
func (s *Store) Create(ctx context.Context, username, password string) (models.User, error) {
	username = normalize.Username(username)
	if username == "" {
		return models.User{}, apperr.New(apperr.Validation, "username must be nonempty")
	}
	if password == "" {
		return models.User{}, apperr.New(apperr.Validation, "password must be nonempty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, apperr.Newf(apperr.Conflict, "username %s is already taken", username)
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, apperr.New(apperr.NotFound, "user does not exist")
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByUsername loads a user by folded username.
func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(normalize.Username(username))}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, apperr.Newf(apperr.NotFound, "user %s does not exist", username)
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// List returns all users.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update changes the username and/or password of a user. Blank fields
// are left unchanged.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, username, password string) (models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}

	if username = normalize.Username(username); username != "" {
		set["username"] = username
		set["username_ci"] = text.Fold(username)
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		set["password_hash"] = hash
	}

	if _, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, apperr.Newf(apperr.Conflict, "username %s is already taken", username)
		}
		return models.User{}, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes a user by ID. Returns the number of documents deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Authenticate verifies a username/password pair and returns the user.
// An unknown username is NotFound; a wrong password is an Authorization
// failure.
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return models.User{}, apperr.New(apperr.Authorization, "incorrect password")
	}
	return u, nil
}

// UsernamesByID resolves a set of user ids to usernames in one query.
// Unknown ids are omitted from the result.
func (s *Store) UsernamesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	result := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		result[u.ID] = u.Username
	}
	return result, cur.Err()
}

// Package data provides DB models and stores plus the contact-resolution
// and conversation-aggregation logic built on top of them.
package data

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/akindipe/careerbridge/internal/apperr"
	"github.com/akindipe/careerbridge/internal/normalize"
)

// UsersStore performs user DB operations.
type UsersStore struct {
	coll *mongo.Collection
}

// NewUsersStore returns a UsersStore using the provided collection.
func NewUsersStore(coll *mongo.Collection) *UsersStore {
	return &UsersStore{coll: coll}
}

// CreateUser inserts a new user document. The password must already be
// hashed; mentor may be nil for accounts without an assigned mentor.
func (u *UsersStore) CreateUser(ctx context.Context, email, hashedPassword, name string, role Role, mentor *bson.ObjectID) (*User, error) {
	if !ValidRole(role) {
		return nil, apperr.Validation("invalid role value")
	}

	now := time.Now()
	user := &User{
		Email:     normalize.Email(email),
		Password:  hashedPassword,
		Name:      name,
		Role:      role,
		Mentor:    mentor,
		LastSeen:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := u.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Validation("user already exists")
		}
		return nil, err
	}

	user.ID = result.InsertedID.(bson.ObjectID)
	return user, nil
}

// GetUserByEmail finds a user by normalized email.
func (u *UsersStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := u.coll.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID finds a user by ObjectID.
func (u *UsersStore) GetUserByID(ctx context.Context, id bson.ObjectID) (*User, error) {
	var user User
	err := u.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// UserExists checks whether an ID resolves to an existing user.
func (u *UsersStore) UserExists(ctx context.Context, id bson.ObjectID) (bool, error) {
	count, err := u.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByRole returns every user holding the given role.
func (u *UsersStore) FindByRole(ctx context.Context, role Role) ([]User, error) {
	return u.findAll(ctx, bson.M{"role": role})
}

// FindMentees returns every user whose mentor back-reference equals
// mentorID.
func (u *UsersStore) FindMentees(ctx context.Context, mentorID bson.ObjectID) ([]User, error) {
	return u.findAll(ctx, bson.M{"mentor": mentorID})
}

// FindAllExcept returns every user other than the one identified by id.
func (u *UsersStore) FindAllExcept(ctx context.Context, id bson.ObjectID) ([]User, error) {
	return u.findAll(ctx, bson.M{"_id": bson.M{"$ne": id}})
}

// TouchLastSeen records activity for presence metadata. Best-effort: callers
// treat a failure here as non-fatal.
func (u *UsersStore) TouchLastSeen(ctx context.Context, id bson.ObjectID) error {
	_, err := u.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_seen": time.Now()}},
	)
	return err
}

func (u *UsersStore) findAll(ctx context.Context, filter bson.M) ([]User, error) {
	cursor, err := u.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

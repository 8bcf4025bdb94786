package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/interfac/user-manager/internal/core/domain"
)

// MongoUserRepository persists user records keyed by sequence-assigned
// integer ids.
type MongoUserRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{db: db, coll: db.Collection(usersCollection)}
}

type mongoRole struct {
	ID         int64    `bson:"id"`
	Name       string   `bson:"name"`
	Privileges []string `bson:"privileges"`
}

type mongoUser struct {
	ID           int64       `bson:"_id"`
	Username     string      `bson:"username"`
	FirstName    string      `bson:"first_name"`
	LastName     string      `bson:"last_name"`
	Email        string      `bson:"email"`
	Phone        string      `bson:"phone"`
	PasswordHash string      `bson:"password_hash"`
	BirthDate    int64       `bson:"birth_date,omitempty"`
	IsAdmin      bool        `bson:"is_admin"`
	Enabled      bool        `bson:"enabled"`
	CreatedAt    int64       `bson:"created_at"`
	ModifiedAt   int64       `bson:"modified_at"`
	ModifiedBy   string      `bson:"modified_by,omitempty"`
	Roles        []mongoRole `bson:"roles"`
}

// Create assigns the next user id and inserts the record. A duplicate
// username is rejected by the unique index and translated into the typed
// domain error, closing the registration race at the store.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := nextID(ctx, r.db, usersCollection)
	if err != nil {
		return nil, err
	}

	doc := toMongoUser(user)
	doc.ID = id

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.UsernameExistsError{Username: user.Username}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	doc := toMongoUser(user)
	doc.ID = user.ID

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &domain.UsernameExistsError{Username: user.Username}
		}
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return fromMongoUser(mu), nil
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return fromMongoUser(mu), nil
}

// SearchByUsername matches usernames containing the fragment, anchored
// nowhere, case-sensitive like the uniqueness rule itself.
func (r *MongoUserRepository) SearchByUsername(ctx context.Context, fragment string) ([]domain.User, error) {
	filter := bson.M{"username": bson.M{"$regex": primitive.Regex{Pattern: regexQuote(fragment)}}}
	return r.findAll(ctx, filter)
}

func (r *MongoUserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.findAll(ctx, bson.M{})
}

func (r *MongoUserRepository) findAll(ctx context.Context, filter bson.M) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *fromMongoUser(mu))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// regexQuote escapes regex metacharacters so a search fragment is always a
// literal match.
func regexQuote(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(meta); j++ {
			if s[i] == meta[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

func toMongoUser(user *domain.User) mongoUser {
	roles := make([]mongoRole, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, mongoRole{ID: role.ID, Name: role.Name, Privileges: role.Privileges})
	}

	var birth int64
	if !user.BirthDate.IsZero() {
		birth = user.BirthDate.Unix()
	}

	return mongoUser{
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Phone:        user.Phone,
		PasswordHash: user.PasswordHash,
		BirthDate:    birth,
		IsAdmin:      user.IsAdmin,
		Enabled:      user.Enabled,
		CreatedAt:    user.CreatedAt.Unix(),
		ModifiedAt:   user.ModifiedAt.Unix(),
		ModifiedBy:   user.ModifiedBy,
		Roles:        roles,
	}
}

func fromMongoUser(mu mongoUser) *domain.User {
	roles := make([]domain.Role, 0, len(mu.Roles))
	for _, role := range mu.Roles {
		roles = append(roles, domain.Role{ID: role.ID, Name: role.Name, Privileges: role.Privileges})
	}

	return &domain.User{
		ID:           mu.ID,
		Username:     mu.Username,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		Email:        mu.Email,
		Phone:        mu.Phone,
		PasswordHash: mu.PasswordHash,
		BirthDate:    unixToTime(mu.BirthDate),
		IsAdmin:      mu.IsAdmin,
		Enabled:      mu.Enabled,
		CreatedAt:    unixToTime(mu.CreatedAt),
		ModifiedAt:   unixToTime(mu.ModifiedAt),
		ModifiedBy:   mu.ModifiedBy,
		Roles:        roles,
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

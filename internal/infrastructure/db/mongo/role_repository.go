package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/interfac/user-manager/internal/core/domain"
)

// MongoRoleRepository persists the named seed roles.
type MongoRoleRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{db: db, coll: db.Collection(rolesCollection)}
}

type roleDoc struct {
	ID         int64    `bson:"_id"`
	Name       string   `bson:"name"`
	Privileges []string `bson:"privileges"`
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var doc roleDoc
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("role %s: %w", name, domain.ErrRoleMissing)
		}
		return nil, fmt.Errorf("find role %s: %w", name, err)
	}
	return &domain.Role{ID: doc.ID, Name: doc.Name, Privileges: doc.Privileges}, nil
}

func (r *MongoRoleRepository) Save(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	id, err := nextID(ctx, r.db, rolesCollection)
	if err != nil {
		return nil, err
	}

	doc := roleDoc{ID: id, Name: role.Name, Privileges: role.Privileges}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		// Two replicas seeding at once: the unique index keeps one row,
		// read it back instead of failing.
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByName(ctx, role.Name)
		}
		return nil, fmt.Errorf("insert role %s: %w", role.Name, err)
	}

	saved := *role
	saved.ID = id
	return &saved, nil
}

// MongoPrivilegeRepository persists the named seed privileges.
type MongoPrivilegeRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewPrivilegeRepository(db *mongo.Database) *MongoPrivilegeRepository {
	return &MongoPrivilegeRepository{db: db, coll: db.Collection(privilegesCollection)}
}

type privilegeDoc struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

func (r *MongoPrivilegeRepository) FindByName(ctx context.Context, name string) (*domain.Privilege, error) {
	var doc privilegeDoc
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("privilege %s: %w", name, domain.ErrRoleMissing)
		}
		return nil, fmt.Errorf("find privilege %s: %w", name, err)
	}
	return &domain.Privilege{ID: doc.ID, Name: doc.Name}, nil
}

func (r *MongoPrivilegeRepository) Save(ctx context.Context, privilege *domain.Privilege) (*domain.Privilege, error) {
	id, err := nextID(ctx, r.db, privilegesCollection)
	if err != nil {
		return nil, err
	}

	doc := privilegeDoc{ID: id, Name: privilege.Name}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByName(ctx, privilege.Name)
		}
		return nil, fmt.Errorf("insert privilege %s: %w", privilege.Name, err)
	}

	saved := *privilege
	saved.ID = id
	return &saved, nil
}

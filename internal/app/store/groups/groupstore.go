// internal/app/store/groups/groupstore.go
package groupstore

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
)

// Store owns group identity, the membership set, and admin authority.
// Every mutating operation re-reads the group by name immediately before
// the write and checks membership/admin status via the shared
// IsAdmin/IsMember predicates; on a failed precondition it returns a
// kind-tagged error and writes nothing.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// Create persists a new group with members = {admin}. The unique index on
// name_ci is the authority on name uniqueness; duplicate inserts surface
// as a Conflict error.
func (s *Store) Create(ctx context.Context, admin primitive.ObjectID, name string) (models.Group, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.Group{}, apperr.New(apperr.Validation, "group name must be nonempty")
	}

	now := time.Now().UTC()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Admin:     admin,
		Members:   []primitive.ObjectID{admin},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, apperr.Newf(apperr.Conflict, "group with name %s already exists", name)
		}
		return models.Group{}, err
	}
	return g, nil
}

// GetByName loads a group by its folded name.
func (s *Store) GetByName(ctx context.Context, name string) (models.Group, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"name_ci": text.Fold(normalize.Name(name))}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, apperr.Newf(apperr.NotFound, "group %s does not exist", name)
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByID loads a group by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, apperr.New(apperr.NotFound, "group does not exist")
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Exists reports whether a group with the given ID exists. This is the
// narrow capability the comment store depends on.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Join adds user to the group's member set. Idempotent: joining a group
// the user already belongs to returns the group unchanged and
// joined=false.
func (s *Store) Join(ctx context.Context, user primitive.ObjectID, name string) (models.Group, bool, error) {
	g, err := s.GetByName(ctx, name)
	if err != nil {
		return models.Group{}, false, err
	}
	if g.IsMember(user) {
		return g, false, nil
	}

	if err := s.update(ctx, g.ID, bson.M{"$addToSet": bson.M{"members": user}}); err != nil {
		return models.Group{}, false, err
	}
	g2, err := s.GetByID(ctx, g.ID)
	if err != nil {
		return models.Group{}, false, err
	}
	return g2, true, nil
}

// Leave removes user from the member set. The admin cannot leave while
// still admin; they must transfer admin or delete the group first.
func (s *Store) Leave(ctx context.Context, user primitive.ObjectID, name string) (models.Group, error) {
	g, err := s.GetByName(ctx, name)
	if err != nil {
		return models.Group{}, err
	}
	if !g.IsMember(user) {
		return models.Group{}, apperr.New(apperr.Authorization, "could not remove user: not a member of this group")
	}
	if g.IsAdmin(user) {
		return models.Group{}, apperr.New(apperr.Authorization, "admin cannot leave the group: transfer admin or delete the group first")
	}

	if err := s.update(ctx, g.ID, bson.M{"$pull": bson.M{"members": user}}); err != nil {
		return models.Group{}, err
	}
	return s.GetByID(ctx, g.ID)
}

// RemoveMember removes target from the member set. The actor must be the
// current admin, target must be a member, and the admin cannot remove
// themselves this way.
func (s *Store) RemoveMember(ctx context.Context, actor, target primitive.ObjectID, name string) (models.Group, error) {
	g, err := s.GetByName(ctx, name)
	if err != nil {
		return models.Group{}, err
	}
	if !g.IsAdmin(actor) {
		return models.Group{}, apperr.New(apperr.Authorization, "only the admin can remove members")
	}
	if !g.IsMember(target) {
		return models.Group{}, apperr.New(apperr.Authorization, "could not remove user: not a member of this group")
	}
	if g.IsAdmin(target) {
		return models.Group{}, apperr.New(apperr.Authorization, "the admin cannot be removed from the group")
	}

	if err := s.update(ctx, g.ID, bson.M{"$pull": bson.M{"members": target}}); err != nil {
		return models.Group{}, err
	}
	return s.GetByID(ctx, g.ID)
}

// ChangeAdmin reassigns admin authority. The actor must be the current
// admin and the new admin must already be a member.
func (s *Store) ChangeAdmin(ctx context.Context, actor, newAdmin primitive.ObjectID, name string) (models.Group, error) {
	g, err := s.GetByName(ctx, name)
	if err != nil {
		return models.Group{}, err
	}
	if !g.IsAdmin(actor) {
		return models.Group{}, apperr.New(apperr.Authorization, "only the admin can transfer admin authority")
	}
	if !g.IsMember(newAdmin) {
		return models.Group{}, apperr.New(apperr.Authorization, "new admin must already be a member of the group")
	}

	if err := s.update(ctx, g.ID, bson.M{"$set": bson.M{"admin": newAdmin}}); err != nil {
		return models.Group{}, err
	}
	return s.GetByID(ctx, g.ID)
}

// Rename changes the group's name with the same validation and
// uniqueness rules as Create. Admin only.
func (s *Store) Rename(ctx context.Context, actor primitive.ObjectID, name, newName string) (models.Group, error) {
	newName = normalize.Name(newName)
	if newName == "" {
		return models.Group{}, apperr.New(apperr.Validation, "group name must be nonempty")
	}

	g, err := s.GetByName(ctx, name)
	if err != nil {
		return models.Group{}, err
	}
	if !g.IsAdmin(actor) {
		return models.Group{}, apperr.New(apperr.Authorization, "only the admin can rename the group")
	}

	err = s.update(ctx, g.ID, bson.M{"$set": bson.M{"name": newName, "name_ci": text.Fold(newName)}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, apperr.Newf(apperr.Conflict, "group with name %s already exists", newName)
		}
		return models.Group{}, err
	}
	return s.GetByID(ctx, g.ID)
}

// Delete removes the group document. Admin only. Cleanup of the group's
// comments is orchestrated by the caller (see the groups feature), since
// each store owns exactly one collection.
func (s *Store) Delete(ctx context.Context, actor primitive.ObjectID, name string) (models.Group, error) {
	g, err := s.GetByName(ctx, name)
	if err != nil {
		return models.Group{}, err
	}
	if !g.IsAdmin(actor) {
		return models.Group{}, apperr.New(apperr.Authorization, "only the admin can delete the group")
	}

	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": g.ID}); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// ListAll returns every group, unfiltered and unpaginated.
func (s *Store) ListAll(ctx context.Context) ([]models.Group, error) {
	return s.list(ctx, bson.M{})
}

// ListForUser returns the groups where user is a member.
func (s *Store) ListForUser(ctx context.Context, user primitive.ObjectID) ([]models.Group, error) {
	return s.list(ctx, bson.M{"members": user})
}

// ListAdministeredBy returns the groups where user is the admin.
func (s *Store) ListAdministeredBy(ctx context.Context, user primitive.ObjectID) ([]models.Group, error) {
	return s.list(ctx, bson.M{"admin": user})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	groups := []models.Group{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *Store) update(ctx context.Context, id primitive.ObjectID, mutation bson.M) error {
	if m, ok := mutation["$set"].(bson.M); ok {
		m["updated_at"] = time.Now().UTC()
	} else {
		mutation["$set"] = bson.M{"updated_at": time.Now().UTC()}
	}
	_, err := s.c.UpdateByID(ctx, id, mutation)
	return err
}

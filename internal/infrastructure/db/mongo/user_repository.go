package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/users-service/internal/core/domain"
)

const usersCollection = "users"

// UserRepository persists user accounts in the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type companyDoc struct {
	CompanyID      string   `bson:"company_id"`
	EmployeeID     string   `bson:"employee_id"`
	Roles          []string `bson:"roles"`
	ProjectRolesID []string `bson:"project_roles_id"`
}

// userDoc mirrors the stored document. Token fields are pointers so a
// signed-out user persists explicit nulls, which never match a token lookup.
type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name"`
	PasswordHash string             `bson:"password"`
	AccessToken  *string            `bson:"access_token"`
	RefreshToken *string            `bson:"refresh_token"`
	Companies    []companyDoc       `bson:"companies"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
		Companies:    toCompanyDocs(user.Companies),
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID resolves a user by the hex ObjectID carried as a token subject.
// A malformed id cannot reference any document, so it reports not-found
// rather than a distinct error.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"refresh_token": refreshToken})
}

// SetTokens overwrites both token fields with a freshly issued pair.
func (r *UserRepository) SetTokens(ctx context.Context, id, accessToken, refreshToken string) error {
	return r.update(ctx, id, bson.M{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// SetAccessToken overwrites only the access token (refresh flow).
func (r *UserRepository) SetAccessToken(ctx context.Context, id, accessToken string) error {
	return r.update(ctx, id, bson.M{"access_token": accessToken})
}

// ClearTokens nulls both token fields (sign-out).
func (r *UserRepository) ClearTokens(ctx context.Context, id string) error {
	return r.update(ctx, id, bson.M{
		"access_token":  nil,
		"refresh_token": nil,
	})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(&doc), nil
}

func (r *UserRepository) update(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields["updated_at"] = time.Now().UTC().Unix()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the lifecycle relies on: email uniqueness
// is enforced here so the application-level duplicate check degrades to a
// duplicate-key error under concurrent sign-ups, and refresh_token lookups
// stay a covered point query.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "refresh_token", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func toCompanyDocs(in []domain.CompanyMembership) []companyDoc {
	out := make([]companyDoc, len(in))
	for i, c := range in {
		out[i] = companyDoc{
			CompanyID:      c.CompanyID,
			EmployeeID:     c.EmployeeID,
			Roles:          c.Roles,
			ProjectRolesID: c.ProjectRolesID,
		}
	}
	return out
}

func toDomainUser(doc *userDoc) *domain.User {
	companies := make([]domain.CompanyMembership, len(doc.Companies))
	for i, c := range doc.Companies {
		companies[i] = domain.CompanyMembership{
			CompanyID:      c.CompanyID,
			EmployeeID:     c.EmployeeID,
			Roles:          c.Roles,
			ProjectRolesID: c.ProjectRolesID,
		}
	}
	return &domain.User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		AccessToken:  doc.AccessToken,
		RefreshToken: doc.RefreshToken,
		Companies:    companies,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourism-api/domain"
)

// ErrGuideNotFound se retorna cuando el guía no existe
var ErrGuideNotFound = errors.New("guide not found")

// GuideRepository define la interfaz para operaciones con la colección de guías
type GuideRepository interface {
	Create(ctx context.Context, guide *domain.Guide) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Guide, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.Guide, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetAll(ctx context.Context) ([]domain.Guide, error)
	GetBySpecialization(ctx context.Context, specialization string) ([]domain.Guide, error)
	GetByAvailability(ctx context.Context, availability domain.Availability) ([]domain.Guide, error)
	GetByDistrict(ctx context.Context, district string) ([]domain.Guide, error)
	SearchText(ctx context.Context, query string) ([]domain.Guide, error)
	EnsureIndexes(ctx context.Context) error
}

// guideRepository implementa GuideRepository sobre MongoDB
type guideRepository struct {
	collection *mongo.Collection
}

// NewGuideRepository crea una nueva instancia de GuideRepository
func NewGuideRepository(db *mongo.Database) GuideRepository {
	return &guideRepository{
		collection: db.Collection(domain.Guide{}.CollectionName()),
	}
}

// EnsureIndexes declara los índices secundarios y el índice de texto
func (r *guideRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "specializations", Value: 1}}},
		{Keys: bson.D{{Key: "availability", Value: 1}}},
		{Keys: bson.D{{Key: "location.district", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "bio", Value: "text"}}},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating guide indexes: %w", err)
	}
	return nil
}

// Create inserta un nuevo guía y estampa ambos timestamps
func (r *guideRepository) Create(ctx context.Context, guide *domain.Guide) error {
	now := time.Now().UTC()
	guide.CreatedAt = now
	guide.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, guide)
	if err != nil {
		return fmt.Errorf("error inserting guide: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		guide.ID = oid
	}
	return nil
}

// GetByID busca un guía por su ID
func (r *guideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Guide, error) {
	var guide domain.Guide
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&guide)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGuideNotFound
		}
		return nil, fmt.Errorf("error finding guide: %w", err)
	}
	return &guide, nil
}

// Update aplica un $set parcial y refresca updatedAt
// createdAt nunca forma parte del documento de actualización
func (r *guideRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.Guide, error) {
	fields["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var guide domain.Guide
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&guide)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGuideNotFound
		}
		return nil, fmt.Errorf("error updating guide: %w", err)
	}
	return &guide, nil
}

// Delete elimina un guía por su ID
func (r *guideRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting guide: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrGuideNotFound
	}
	return nil
}

// GetAll obtiene todos los guías
func (r *guideRepository) GetAll(ctx context.Context) ([]domain.Guide, error) {
	return r.find(ctx, bson.M{}, nil)
}

// GetBySpecialization busca guías por especialización
// Usa el índice sobre specializations
func (r *guideRepository) GetBySpecialization(ctx context.Context, specialization string) ([]domain.Guide, error) {
	return r.find(ctx, bson.M{"specializations": specialization}, nil)
}

// GetByAvailability busca guías por estado de disponibilidad
func (r *guideRepository) GetByAvailability(ctx context.Context, availability domain.Availability) ([]domain.Guide, error) {
	return r.find(ctx, bson.M{"availability": availability}, nil)
}

// GetByDistrict busca guías por distrito
func (r *guideRepository) GetByDistrict(ctx context.Context, district string) ([]domain.Guide, error) {
	return r.find(ctx, bson.M{"location.district": district}, nil)
}

// SearchText busca guías por texto sobre name+bio, ordenados por relevancia
func (r *guideRepository) SearchText(ctx context.Context, query string) ([]domain.Guide, error) {
	filter := bson.M{"$text": bson.M{"$search": query}}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})

	return r.find(ctx, filter, opts)
}

// find ejecuta una consulta y decodifica todos los resultados
func (r *guideRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Guide, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying guides: %w", err)
	}
	defer cursor.Close(ctx)

	guides := make([]domain.Guide, 0)
	if err := cursor.All(ctx, &guides); err != nil {
		return nil, fmt.Errorf("error decoding guides: %w", err)
	}
	return guides, nil
}

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

// ErrHomestayNotFound se retorna cuando el homestay no existe
var ErrHomestayNotFound = errors.New("homestay not found")

// HomestayRepository define la interfaz para operaciones con la colección de homestays
type HomestayRepository interface {
	Create(ctx context.Context, homestay *domain.Homestay) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Homestay, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.Homestay, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetAll(ctx context.Context) ([]domain.Homestay, error)
	GetByDistrict(ctx context.Context, district string) ([]domain.Homestay, error)
	GetByStatus(ctx context.Context, status domain.HomestayStatus) ([]domain.Homestay, error)
	GetByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.Homestay, error)
	SearchText(ctx context.Context, query string) ([]domain.Homestay, error)
	EnsureIndexes(ctx context.Context) error
}

// homestayRepository implementa HomestayRepository sobre MongoDB
type homestayRepository struct {
	collection *mongo.Collection
}

// NewHomestayRepository crea una nueva instancia de HomestayRepository
func NewHomestayRepository(db *mongo.Database) HomestayRepository {
	return &homestayRepository{
		collection: db.Collection(domain.Homestay{}.CollectionName()),
	}
}

// EnsureIndexes declara los índices secundarios y el índice de texto
func (r *homestayRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location.district", Value: 1}}},
		{Keys: bson.D{{Key: "pricing.basePrice", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating homestay indexes: %w", err)
	}
	return nil
}

// Create inserta un nuevo homestay y estampa ambos timestamps
func (r *homestayRepository) Create(ctx context.Context, homestay *domain.Homestay) error {
	now := time.Now().UTC()
	homestay.CreatedAt = now
	homestay.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, homestay)
	if err != nil {
		return fmt.Errorf("error inserting homestay: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		homestay.ID = oid
	}
	return nil
}

// GetByID busca un homestay por su ID
func (r *homestayRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Homestay, error) {
	var homestay domain.Homestay
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&homestay)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrHomestayNotFound
		}
		return nil, fmt.Errorf("error finding homestay: %w", err)
	}
	return &homestay, nil
}

// Update aplica un $set parcial y refresca updatedAt
// createdAt nunca forma parte del documento de actualización
func (r *homestayRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.Homestay, error) {
	fields["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var homestay domain.Homestay
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&homestay)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrHomestayNotFound
		}
		return nil, fmt.Errorf("error updating homestay: %w", err)
	}
	return &homestay, nil
}

// Delete elimina un homestay por su ID
func (r *homestayRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting homestay: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrHomestayNotFound
	}
	return nil
}

// GetAll obtiene todos los homestays
func (r *homestayRepository) GetAll(ctx context.Context) ([]domain.Homestay, error) {
	return r.find(ctx, bson.M{}, nil)
}

// GetByDistrict busca homestays por distrito
func (r *homestayRepository) GetByDistrict(ctx context.Context, district string) ([]domain.Homestay, error) {
	return r.find(ctx, bson.M{"location.district": district}, nil)
}

// GetByStatus busca homestays por estado
func (r *homestayRepository) GetByStatus(ctx context.Context, status domain.HomestayStatus) ([]domain.Homestay, error) {
	return r.find(ctx, bson.M{"status": status}, nil)
}

// GetByPriceRange busca homestays por rango de precio base, ordenados ascendente
// Usa el índice sobre pricing.basePrice
func (r *homestayRepository) GetByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.Homestay, error) {
	priceFilter := bson.M{"$gte": minPrice}
	if maxPrice > 0 {
		priceFilter["$lte"] = maxPrice
	}

	filter := bson.M{"pricing.basePrice": priceFilter}
	opts := options.Find().SetSort(bson.D{{Key: "pricing.basePrice", Value: 1}})

	return r.find(ctx, filter, opts)
}

// SearchText busca homestays por texto sobre title+description, ordenados por relevancia
func (r *homestayRepository) SearchText(ctx context.Context, query string) ([]domain.Homestay, error) {
	filter := bson.M{"$text": bson.M{"$search": query}}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})

	return r.find(ctx, filter, opts)
}

// find ejecuta una consulta y decodifica todos los resultados
func (r *homestayRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Homestay, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying homestays: %w", err)
	}
	defer cursor.Close(ctx)

	homestays := make([]domain.Homestay, 0)
	if err := cursor.All(ctx, &homestays); err != nil {
		return nil, fmt.Errorf("error decoding homestays: %w", err)
	}
	return homestays, nil
}

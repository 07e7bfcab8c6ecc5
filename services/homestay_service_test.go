package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourism-api/domain"
	"tourism-api/dto"
	"tourism-api/repositories"
)

// ============================================
// MOCK del repositorio de homestays
// ============================================

type mockHomestayRepository struct {
	homestays   map[primitive.ObjectID]*domain.Homestay
	searchCalls int
	rangeCalls  int
}

func newMockHomestayRepository() *mockHomestayRepository {
	return &mockHomestayRepository{
		homestays: make(map[primitive.ObjectID]*domain.Homestay),
	}
}

func (m *mockHomestayRepository) Create(ctx context.Context, homestay *domain.Homestay) error {
	now := time.Now().UTC()
	homestay.CreatedAt = now
	homestay.UpdatedAt = now
	homestay.ID = primitive.NewObjectID()

	stored := *homestay
	m.homestays[homestay.ID] = &stored
	return nil
}

func (m *mockHomestayRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Homestay, error) {
	stored, exists := m.homestays[id]
	if !exists {
		return nil, repositories.ErrHomestayNotFound
	}
	homestay := *stored
	return &homestay, nil
}

func (m *mockHomestayRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.Homestay, error) {
	stored, exists := m.homestays[id]
	if !exists {
		return nil, repositories.ErrHomestayNotFound
	}

	stored.UpdatedAt = time.Now().UTC()
	for key, value := range fields {
		applyHomestayField(stored, key, value)
	}

	homestay := *stored
	return &homestay, nil
}

// applyHomestayField simula la semántica de $set del repositorio real
func applyHomestayField(homestay *domain.Homestay, key string, value interface{}) {
	switch key {
	case "title":
		homestay.Title = value.(string)
	case "description":
		homestay.Description = value.(string)
	case "propertyType":
		homestay.PropertyType = value.(domain.PropertyType)
	case "location.address":
		homestay.Location.Address = value.(string)
	case "location.district":
		homestay.Location.District = value.(string)
	case "location.state":
		homestay.Location.State = value.(string)
	case "location.coordinates":
		homestay.Location.Coordinates = value.(*domain.Coordinates)
	case "pricing.basePrice":
		homestay.Pricing.BasePrice = value.(float64)
	case "pricing.cleaningFee":
		v := value.(float64)
		homestay.Pricing.CleaningFee = &v
	case "pricing.weekendPrice":
		v := value.(float64)
		homestay.Pricing.WeekendPrice = &v
	case "capacity.guests":
		homestay.Capacity.Guests = value.(int)
	case "capacity.bedrooms":
		homestay.Capacity.Bedrooms = value.(int)
	case "capacity.bathrooms":
		homestay.Capacity.Bathrooms = value.(int)
	case "capacity.beds":
		homestay.Capacity.Beds = value.(int)
	case "amenities":
		homestay.Amenities = value.([]string)
	case "houseRules":
		homestay.HouseRules = value.([]string)
	case "images":
		homestay.Images = value.([]string)
	case "status":
		homestay.Status = value.(domain.HomestayStatus)
	}
}

func (m *mockHomestayRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, exists := m.homestays[id]; !exists {
		return repositories.ErrHomestayNotFound
	}
	delete(m.homestays, id)
	return nil
}

func (m *mockHomestayRepository) GetAll(ctx context.Context) ([]domain.Homestay, error) {
	homestays := make([]domain.Homestay, 0, len(m.homestays))
	for _, h := range m.homestays {
		homestays = append(homestays, *h)
	}
	return homestays, nil
}

func (m *mockHomestayRepository) GetByDistrict(ctx context.Context, district string) ([]domain.Homestay, error) {
	homestays := make([]domain.Homestay, 0)
	for _, h := range m.homestays {
		if h.Location.District == district {
			homestays = append(homestays, *h)
		}
	}
	return homestays, nil
}

func (m *mockHomestayRepository) GetByStatus(ctx context.Context, status domain.HomestayStatus) ([]domain.Homestay, error) {
	homestays := make([]domain.Homestay, 0)
	for _, h := range m.homestays {
		if h.Status == status {
			homestays = append(homestays, *h)
		}
	}
	return homestays, nil
}

// GetByPriceRange simula el filtro y el orden ascendente por basePrice
func (m *mockHomestayRepository) GetByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.Homestay, error) {
	m.rangeCalls++

	homestays := make([]domain.Homestay, 0)
	for _, h := range m.homestays {
		if h.Pricing.BasePrice < minPrice {
			continue
		}
		if maxPrice > 0 && h.Pricing.BasePrice > maxPrice {
			continue
		}
		homestays = append(homestays, *h)
	}

	sort.Slice(homestays, func(i, j int) bool {
		return homestays[i].Pricing.BasePrice < homestays[j].Pricing.BasePrice
	})
	return homestays, nil
}

// SearchText simula el índice de texto de MongoDB con tokens sobre title+description
func (m *mockHomestayRepository) SearchText(ctx context.Context, query string) ([]domain.Homestay, error) {
	m.searchCalls++

	tokens := strings.Fields(strings.ToLower(query))
	homestays := make([]domain.Homestay, 0)
	for _, h := range m.homestays {
		text := strings.ToLower(h.Title + " " + h.Description)
		for _, token := range tokens {
			if strings.Contains(text, token) {
				homestays = append(homestays, *h)
				break
			}
		}
	}
	return homestays, nil
}

func (m *mockHomestayRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

// newHomestayServiceForTest arma el servicio con todos los mocks
func newHomestayServiceForTest() (HomestayService, *mockHomestayRepository, *mockCacheRepository, *mockPublisher) {
	repo := newMockHomestayRepository()
	cache := newMockCacheRepository()
	publisher := &mockPublisher{}
	return NewHomestayService(repo, cache, publisher), repo, cache, publisher
}

func validCreateHomestayRequest() dto.CreateHomestayRequest {
	basePrice := 1200.0
	guests := 4
	bedrooms := 2
	bathrooms := 1
	beds := 3
	return dto.CreateHomestayRequest{
		Title:       "Riverside Mud House",
		Description: "Traditional homestay near Hundru falls with home-cooked meals",
		Location: &dto.HomestayLocationInput{
			Address:  "Village Road 12",
			District: "Ranchi",
		},
		Pricing: &dto.HomestayPricingInput{BasePrice: &basePrice},
		Capacity: &dto.HomestayCapacityInput{
			Guests:    &guests,
			Bedrooms:  &bedrooms,
			Bathrooms: &bathrooms,
			Beds:      &beds,
		},
	}
}

// ============================================
// TESTS
// ============================================

// Test: Crear homestay exitosamente con defaults
func TestCreateHomestay_Success(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	homestay, err := service.Create(context.Background(), validCreateHomestayRequest())

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if homestay == nil {
		t.Fatal("Expected homestay, got nil")
	}

	// Defaults documentados
	if homestay.PropertyType != domain.PropertyTypeEntire {
		t.Errorf("Expected propertyType %s, got %s", domain.PropertyTypeEntire, homestay.PropertyType)
	}
	if homestay.Status != domain.HomestayStatusActive {
		t.Errorf("Expected status %s, got %s", domain.HomestayStatusActive, homestay.Status)
	}
	if homestay.Location.State != "Jharkhand" {
		t.Errorf("Expected state Jharkhand, got %s", homestay.Location.State)
	}

	// Colecciones opcionales arrancan vacías, nunca nil
	if homestay.Amenities == nil || len(homestay.Amenities) != 0 {
		t.Errorf("Expected empty amenities, got %v", homestay.Amenities)
	}
	if homestay.Images == nil || len(homestay.Images) != 0 {
		t.Errorf("Expected empty images, got %v", homestay.Images)
	}

	if homestay.CreatedAt.IsZero() || homestay.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set on create")
	}
}

// Test: Precio base en el límite inferior
func TestCreateHomestay_BasePriceBoundary(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	// 99 queda por debajo del mínimo
	req := validCreateHomestayRequest()
	below := 99.0
	req.Pricing.BasePrice = &below

	_, err := service.Create(context.Background(), req)
	assertValidationKind(t, err, domain.OutOfRangeValue)

	// 100 es válido
	req = validCreateHomestayRequest()
	exact := 100.0
	req.Pricing.BasePrice = &exact

	homestay, err := service.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error at boundary, got %v", err)
	}
	if homestay.Pricing.BasePrice != 100 {
		t.Errorf("Expected basePrice 100, got %f", homestay.Pricing.BasePrice)
	}
}

// Test: Capacidad en los límites inferiores
func TestCreateHomestay_CapacityBoundaries(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	// Cero huéspedes es inválido
	req := validCreateHomestayRequest()
	zero := 0
	req.Capacity.Guests = &zero

	_, err := service.Create(context.Background(), req)
	assertValidationKind(t, err, domain.OutOfRangeValue)

	// Un huésped es válido
	req = validCreateHomestayRequest()
	one := 1
	req.Capacity.Guests = &one

	if _, err := service.Create(context.Background(), req); err != nil {
		t.Fatalf("Expected no error with 1 guest, got %v", err)
	}

	// Dormitorios negativos es inválido; cero es válido (estudio)
	req = validCreateHomestayRequest()
	negative := -1
	req.Capacity.Bedrooms = &negative

	_, err = service.Create(context.Background(), req)
	assertValidationKind(t, err, domain.OutOfRangeValue)

	req = validCreateHomestayRequest()
	zeroBedrooms := 0
	req.Capacity.Bedrooms = &zeroBedrooms

	if _, err := service.Create(context.Background(), req); err != nil {
		t.Fatalf("Expected no error with 0 bedrooms, got %v", err)
	}
}

// Test: Error con capacidad ausente
func TestCreateHomestay_MissingCapacity(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	req := validCreateHomestayRequest()
	req.Capacity.Beds = nil

	_, err := service.Create(context.Background(), req)
	assertValidationKind(t, err, domain.MissingRequiredField)
}

// Test: Error con tipo de propiedad fuera del enum
func TestCreateHomestay_InvalidPropertyType(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	req := validCreateHomestayRequest()
	req.PropertyType = "castle"

	_, err := service.Create(context.Background(), req)
	assertValidationKind(t, err, domain.InvalidEnumValue)
}

// Test: Error con coordenadas incompletas
func TestCreateHomestay_IncompleteCoordinates(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	req := validCreateHomestayRequest()
	lat := 23.36
	req.Location.Coordinates = &dto.CoordinatesInput{Lat: &lat}

	_, err := service.Create(context.Background(), req)
	assertValidationKind(t, err, domain.MissingRequiredField)
}

// Test: El título se recorta antes de persistir
func TestCreateHomestay_TrimsTitle(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	req := validCreateHomestayRequest()
	req.Title = "  Riverside Mud House  "

	homestay, err := service.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if homestay.Title != "Riverside Mud House" {
		t.Errorf("Expected trimmed title, got '%s'", homestay.Title)
	}
}

// Test: Round-trip de creación y lectura
func TestCreateHomestay_RoundTrip(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	created, err := service.Create(context.Background(), validCreateHomestayRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	fetched, err := service.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if fetched.Title != created.Title {
		t.Errorf("Expected title %s, got %s", created.Title, fetched.Title)
	}
	if fetched.Pricing.BasePrice != created.Pricing.BasePrice {
		t.Errorf("Expected basePrice %f, got %f", created.Pricing.BasePrice, fetched.Pricing.BasePrice)
	}
	if fetched.Capacity != created.Capacity {
		t.Errorf("Expected capacity %+v, got %+v", created.Capacity, fetched.Capacity)
	}
	if !fetched.CreatedAt.Equal(created.CreatedAt) {
		t.Error("Expected createdAt to round-trip unchanged")
	}
}

// Test: Actualización parcial conserva los campos no enviados
func TestUpdateHomestay_PartialFields(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	created, _ := service.Create(context.Background(), validCreateHomestayRequest())

	newPrice := 1800.0
	updated, err := service.Update(context.Background(), created.ID, dto.UpdateHomestayRequest{
		Pricing: &dto.HomestayPricingUpdate{BasePrice: &newPrice},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Pricing.BasePrice != newPrice {
		t.Errorf("Expected basePrice %f, got %f", newPrice, updated.Pricing.BasePrice)
	}
	if updated.Title != created.Title {
		t.Errorf("Expected title to be preserved, got '%s'", updated.Title)
	}

	// createdAt es inmutable; updatedAt avanza
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("Expected createdAt to be immutable")
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Error("Expected updatedAt to be refreshed")
	}
}

// Test: Cualquier transición dentro del enum de status es válida
func TestUpdateHomestay_StatusTransitions(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	created, _ := service.Create(context.Background(), validCreateHomestayRequest())

	// active -> pending, sin restricciones
	pending := "pending"
	updated, err := service.Update(context.Background(), created.ID, dto.UpdateHomestayRequest{Status: &pending})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != domain.HomestayStatusPending {
		t.Errorf("Expected status pending, got %s", updated.Status)
	}

	// pending -> active también
	active := "active"
	updated, err = service.Update(context.Background(), created.ID, dto.UpdateHomestayRequest{Status: &active})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != domain.HomestayStatusActive {
		t.Errorf("Expected status active, got %s", updated.Status)
	}

	// Un valor fuera del enum se rechaza
	invalid := "archived"
	_, err = service.Update(context.Background(), created.ID, dto.UpdateHomestayRequest{Status: &invalid})
	assertValidationKind(t, err, domain.InvalidEnumValue)
}

// Test: Error al actualizar con precio base por debajo del mínimo
func TestUpdateHomestay_BasePriceBelowMinimum(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	created, _ := service.Create(context.Background(), validCreateHomestayRequest())

	below := 50.0
	_, err := service.Update(context.Background(), created.ID, dto.UpdateHomestayRequest{
		Pricing: &dto.HomestayPricingUpdate{BasePrice: &below},
	})
	assertValidationKind(t, err, domain.OutOfRangeValue)
}

// Test: Actualizar un homestay inexistente retorna not found
func TestUpdateHomestay_NotFound(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	title := "whatever"
	_, err := service.Update(context.Background(), primitive.NewObjectID(), dto.UpdateHomestayRequest{Title: &title})
	if !errors.Is(err, repositories.ErrHomestayNotFound) {
		t.Errorf("Expected ErrHomestayNotFound, got %v", err)
	}
}

// Test: Eliminar un homestay publica el evento y lo remueve
func TestDeleteHomestay(t *testing.T) {
	service, _, cache, publisher := newHomestayServiceForTest()

	created, _ := service.Create(context.Background(), validCreateHomestayRequest())
	bumpsAfterCreate := cache.bumps

	if err := service.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := service.GetByID(context.Background(), created.ID); !errors.Is(err, repositories.ErrHomestayNotFound) {
		t.Errorf("Expected ErrHomestayNotFound after delete, got %v", err)
	}

	last := publisher.events[len(publisher.events)-1]
	if last.Action != ActionDelete || last.Entity != homestayEntity {
		t.Errorf("Unexpected event: %+v", last)
	}
	if cache.bumps != bumpsAfterCreate+1 {
		t.Errorf("Expected cache bump on delete, got %d bumps", cache.bumps)
	}
}

// Test: Error al consultar un status fuera del enum
func TestGetHomestaysByStatus_InvalidEnum(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	_, err := service.GetByStatus(context.Background(), "deleted")
	assertValidationKind(t, err, domain.InvalidEnumValue)
}

// Test: Búsqueda por rango de precio filtra y ordena ascendente
func TestGetHomestaysByPriceRange(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	prices := []float64{2000, 800, 1500}
	for _, price := range prices {
		req := validCreateHomestayRequest()
		p := price
		req.Pricing.BasePrice = &p
		if _, err := service.Create(context.Background(), req); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	results, err := service.GetByPriceRange(context.Background(), dto.PriceRangeRequest{MinPrice: 700, MaxPrice: 1600})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Pricing.BasePrice != 800 || results[1].Pricing.BasePrice != 1500 {
		t.Errorf("Expected ascending order by basePrice, got %f then %f",
			results[0].Pricing.BasePrice, results[1].Pricing.BasePrice)
	}
}

// Test: Error con rango de precio inválido
func TestGetHomestaysByPriceRange_InvalidRange(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	_, err := service.GetByPriceRange(context.Background(), dto.PriceRangeRequest{MinPrice: -5})
	assertValidationKind(t, err, domain.OutOfRangeValue)

	_, err = service.GetByPriceRange(context.Background(), dto.PriceRangeRequest{MinPrice: 2000, MaxPrice: 1000})
	assertValidationKind(t, err, domain.OutOfRangeValue)
}

// Test: La consulta por rango repetida sale del caché
func TestGetHomestaysByPriceRange_Cached(t *testing.T) {
	service, repo, _, _ := newHomestayServiceForTest()

	if _, err := service.Create(context.Background(), validCreateHomestayRequest()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := dto.PriceRangeRequest{MinPrice: 1000, MaxPrice: 2000}
	if _, err := service.GetByPriceRange(context.Background(), req); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if repo.rangeCalls != 1 {
		t.Fatalf("Expected 1 repository query, got %d", repo.rangeCalls)
	}

	if _, err := service.GetByPriceRange(context.Background(), req); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if repo.rangeCalls != 1 {
		t.Errorf("Expected cached result, repository queries=%d", repo.rangeCalls)
	}
}

// Test: Búsqueda por token presente en la descripción
func TestSearchHomestays_TokenInDescription(t *testing.T) {
	service, _, _, _ := newHomestayServiceForTest()

	created, _ := service.Create(context.Background(), validCreateHomestayRequest())

	results, err := service.Search(context.Background(), "hundru")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].ID != created.ID {
		t.Error("Expected the created homestay in search results")
	}

	results, err = service.Search(context.Background(), "igloo")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}
}

// Test: Una escritura invalida las búsquedas cacheadas
func TestSearchHomestays_CacheInvalidation(t *testing.T) {
	service, repo, _, _ := newHomestayServiceForTest()

	created, _ := service.Create(context.Background(), validCreateHomestayRequest())

	if _, err := service.Search(context.Background(), "riverside"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := service.Search(context.Background(), "riverside"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if repo.searchCalls != 1 {
		t.Fatalf("Expected cached result, repository searches=%d", repo.searchCalls)
	}

	inactive := "inactive"
	if _, err := service.Update(context.Background(), created.ID, dto.UpdateHomestayRequest{Status: &inactive}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := service.Search(context.Background(), "riverside"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if repo.searchCalls != 2 {
		t.Errorf("Expected repository search after invalidation, searches=%d", repo.searchCalls)
	}
}

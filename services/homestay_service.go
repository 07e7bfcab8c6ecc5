package services

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourism-api/domain"
	"tourism-api/dto"
	"tourism-api/repositories"
)

const (
	homestayEntity         = "homestays"
	maxHomestayTitleLength = 200
	minBasePrice           = 100
)

// HomestayService define la interfaz del servicio de homestays
type HomestayService interface {
	Create(ctx context.Context, req dto.CreateHomestayRequest) (*domain.Homestay, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Homestay, error)
	Update(ctx context.Context, id primitive.ObjectID, req dto.UpdateHomestayRequest) (*domain.Homestay, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetAll(ctx context.Context) ([]domain.Homestay, error)
	GetByDistrict(ctx context.Context, district string) ([]domain.Homestay, error)
	GetByStatus(ctx context.Context, status string) ([]domain.Homestay, error)
	GetByPriceRange(ctx context.Context, req dto.PriceRangeRequest) ([]domain.Homestay, error)
	Search(ctx context.Context, query string) ([]domain.Homestay, error)
}

// homestayService implementa HomestayService
type homestayService struct {
	repo      repositories.HomestayRepository
	cacheRepo repositories.CacheRepository
	publisher EventPublisher
}

// NewHomestayService crea una nueva instancia de HomestayService
func NewHomestayService(repo repositories.HomestayRepository, cacheRepo repositories.CacheRepository, publisher EventPublisher) HomestayService {
	return &homestayService{
		repo:      repo,
		cacheRepo: cacheRepo,
		publisher: publisher,
	}
}

// Create valida el request, aplica los defaults y persiste el homestay
// El status no se acepta en la creación: siempre arranca en "active"
func (s *homestayService) Create(ctx context.Context, req dto.CreateHomestayRequest) (*domain.Homestay, error) {
	homestay, err := buildHomestay(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, homestay); err != nil {
		return nil, err
	}

	log.Printf("Homestay created: id=%s, district=%s", homestay.ID.Hex(), homestay.Location.District)

	s.publishEvent(ActionCreate, homestay.ID.Hex())
	s.cacheRepo.Bump(homestayEntity)

	return homestay, nil
}

// GetByID obtiene un homestay por su ID
func (s *homestayService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Homestay, error) {
	return s.repo.GetByID(ctx, id)
}

// Update valida únicamente los campos presentes y los reemplaza
// Las transiciones de status no tienen restricciones dentro del enum
func (s *homestayService) Update(ctx context.Context, id primitive.ObjectID, req dto.UpdateHomestayRequest) (*domain.Homestay, error) {
	fields, err := buildHomestayUpdate(req)
	if err != nil {
		return nil, err
	}

	homestay, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	log.Printf("Homestay updated: id=%s, fields=%d", id.Hex(), len(fields))

	s.publishEvent(ActionUpdate, id.Hex())
	s.cacheRepo.Bump(homestayEntity)

	return homestay, nil
}

// Delete elimina un homestay por su ID
func (s *homestayService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("Homestay deleted: id=%s", id.Hex())

	s.publishEvent(ActionDelete, id.Hex())
	s.cacheRepo.Bump(homestayEntity)

	return nil
}

// GetAll obtiene todos los homestays
func (s *homestayService) GetAll(ctx context.Context) ([]domain.Homestay, error) {
	return s.repo.GetAll(ctx)
}

// GetByDistrict obtiene homestays por distrito
func (s *homestayService) GetByDistrict(ctx context.Context, district string) ([]domain.Homestay, error) {
	return s.repo.GetByDistrict(ctx, district)
}

// GetByStatus obtiene homestays por estado
// El valor se valida contra el enum antes de consultar
func (s *homestayService) GetByStatus(ctx context.Context, status string) ([]domain.Homestay, error) {
	value := domain.HomestayStatus(status)
	if !value.IsValid() {
		return nil, domain.NewInvalidEnumError("status", status)
	}
	return s.repo.GetByStatus(ctx, value)
}

// GetByPriceRange obtiene homestays por rango de precio base, con caché
// Los resultados vienen ordenados ascendente por basePrice
func (s *homestayService) GetByPriceRange(ctx context.Context, req dto.PriceRangeRequest) ([]domain.Homestay, error) {
	if req.MinPrice < 0 {
		return nil, domain.NewOutOfRangeError("min_price", "cannot be negative")
	}
	if req.MaxPrice < 0 {
		return nil, domain.NewOutOfRangeError("max_price", "cannot be negative")
	}
	if req.MaxPrice > 0 && req.MinPrice > req.MaxPrice {
		return nil, domain.NewOutOfRangeError("min_price", "cannot be greater than max_price")
	}

	cacheKey := s.cacheKey(fmt.Sprintf("price:%.2f:%.2f", req.MinPrice, req.MaxPrice))
	if homestays, found := s.cachedResults(cacheKey); found {
		return homestays, nil
	}

	homestays, err := s.repo.GetByPriceRange(ctx, req.MinPrice, req.MaxPrice)
	if err != nil {
		return nil, err
	}

	s.cacheResults(cacheKey, homestays)
	return homestays, nil
}

// Search busca homestays por texto sobre title+description, con caché
func (s *homestayService) Search(ctx context.Context, query string) ([]domain.Homestay, error) {
	cacheKey := s.cacheKey(fmt.Sprintf("text:%s", query))
	if homestays, found := s.cachedResults(cacheKey); found {
		return homestays, nil
	}

	homestays, err := s.repo.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}

	s.cacheResults(cacheKey, homestays)
	return homestays, nil
}

// cacheKey arma la clave de caché de una consulta
// Incluye la versión de la entidad: las escrituras invalidan al incrementarla
func (s *homestayService) cacheKey(query string) string {
	version := s.cacheRepo.Version(homestayEntity)
	hash := md5.Sum([]byte(query))
	return fmt.Sprintf("search:%s:v%d:%x", homestayEntity, version, hash)
}

// cachedResults intenta recuperar un resultado de búsqueda cacheado
func (s *homestayService) cachedResults(cacheKey string) ([]domain.Homestay, bool) {
	data, found := s.cacheRepo.Get(cacheKey)
	if !found {
		return nil, false
	}

	var homestays []domain.Homestay
	if err := json.Unmarshal(data, &homestays); err != nil {
		log.Printf("Error unmarshaling cached homestay search: key=%s", cacheKey)
		return nil, false
	}
	return homestays, true
}

// cacheResults guarda un resultado de búsqueda en el caché
func (s *homestayService) cacheResults(cacheKey string, homestays []domain.Homestay) {
	data, err := json.Marshal(homestays)
	if err != nil {
		return
	}
	s.cacheRepo.Set(cacheKey, data, searchCacheTTL)
}

// publishEvent publica un evento de listing
// Un fallo al publicar no revierte la escritura ya persistida
func (s *homestayService) publishEvent(action, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishListingEvent(action, homestayEntity, id); err != nil {
		log.Printf("Error publishing homestay event: action=%s, id=%s, error=%v", action, id, err)
	}
}

// buildHomestay valida un request de creación y arma el documento con defaults
func buildHomestay(req dto.CreateHomestayRequest) (*domain.Homestay, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.NewMissingFieldError("title")
	}
	if utf8.RuneCountInString(title) > maxHomestayTitleLength {
		return nil, domain.NewOutOfRangeError("title", fmt.Sprintf("must be at most %d characters", maxHomestayTitleLength))
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.NewMissingFieldError("description")
	}

	propertyType := domain.PropertyTypeEntire
	if req.PropertyType != "" {
		propertyType = domain.PropertyType(req.PropertyType)
		if !propertyType.IsValid() {
			return nil, domain.NewInvalidEnumError("propertyType", req.PropertyType)
		}
	}

	if req.Location == nil {
		return nil, domain.NewMissingFieldError("location")
	}
	if strings.TrimSpace(req.Location.Address) == "" {
		return nil, domain.NewMissingFieldError("location.address")
	}
	if strings.TrimSpace(req.Location.District) == "" {
		return nil, domain.NewMissingFieldError("location.district")
	}
	state := req.Location.State
	if state == "" {
		state = defaultState
	}

	coordinates, err := buildCoordinates(req.Location.Coordinates)
	if err != nil {
		return nil, err
	}

	if req.Pricing == nil {
		return nil, domain.NewMissingFieldError("pricing")
	}
	if req.Pricing.BasePrice == nil {
		return nil, domain.NewMissingFieldError("pricing.basePrice")
	}
	if *req.Pricing.BasePrice < minBasePrice {
		return nil, domain.NewOutOfRangeError("pricing.basePrice", fmt.Sprintf("must be at least %d", minBasePrice))
	}
	if req.Pricing.CleaningFee != nil && *req.Pricing.CleaningFee < 0 {
		return nil, domain.NewOutOfRangeError("pricing.cleaningFee", "cannot be negative")
	}
	if req.Pricing.WeekendPrice != nil && *req.Pricing.WeekendPrice < 0 {
		return nil, domain.NewOutOfRangeError("pricing.weekendPrice", "cannot be negative")
	}

	if req.Capacity == nil {
		return nil, domain.NewMissingFieldError("capacity")
	}
	if req.Capacity.Guests == nil {
		return nil, domain.NewMissingFieldError("capacity.guests")
	}
	if *req.Capacity.Guests < 1 {
		return nil, domain.NewOutOfRangeError("capacity.guests", "must be at least 1")
	}
	if req.Capacity.Bedrooms == nil {
		return nil, domain.NewMissingFieldError("capacity.bedrooms")
	}
	if *req.Capacity.Bedrooms < 0 {
		return nil, domain.NewOutOfRangeError("capacity.bedrooms", "cannot be negative")
	}
	if req.Capacity.Bathrooms == nil {
		return nil, domain.NewMissingFieldError("capacity.bathrooms")
	}
	if *req.Capacity.Bathrooms < 0 {
		return nil, domain.NewOutOfRangeError("capacity.bathrooms", "cannot be negative")
	}
	if req.Capacity.Beds == nil {
		return nil, domain.NewMissingFieldError("capacity.beds")
	}
	if *req.Capacity.Beds < 1 {
		return nil, domain.NewOutOfRangeError("capacity.beds", "must be at least 1")
	}

	amenities := req.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	return &domain.Homestay{
		Title:        title,
		Description:  description,
		PropertyType: propertyType,
		Location: domain.HomestayLocation{
			Address:     req.Location.Address,
			District:    req.Location.District,
			State:       state,
			Coordinates: coordinates,
		},
		Pricing: domain.HomestayPricing{
			BasePrice:    *req.Pricing.BasePrice,
			CleaningFee:  req.Pricing.CleaningFee,
			WeekendPrice: req.Pricing.WeekendPrice,
		},
		Capacity: domain.HomestayCapacity{
			Guests:    *req.Capacity.Guests,
			Bedrooms:  *req.Capacity.Bedrooms,
			Bathrooms: *req.Capacity.Bathrooms,
			Beds:      *req.Capacity.Beds,
		},
		Amenities:  amenities,
		HouseRules: req.HouseRules,
		Images:     images,
		Status:     domain.HomestayStatusActive,
	}, nil
}

// buildHomestayUpdate valida los campos presentes y arma el documento $set
func buildHomestayUpdate(req dto.UpdateHomestayRequest) (bson.M, error) {
	fields := bson.M{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.NewMissingFieldError("title")
		}
		if utf8.RuneCountInString(title) > maxHomestayTitleLength {
			return nil, domain.NewOutOfRangeError("title", fmt.Sprintf("must be at most %d characters", maxHomestayTitleLength))
		}
		fields["title"] = title
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, domain.NewMissingFieldError("description")
		}
		fields["description"] = description
	}

	if req.PropertyType != nil {
		propertyType := domain.PropertyType(*req.PropertyType)
		if !propertyType.IsValid() {
			return nil, domain.NewInvalidEnumError("propertyType", *req.PropertyType)
		}
		fields["propertyType"] = propertyType
	}

	if req.Location != nil {
		if req.Location.Address != nil {
			if strings.TrimSpace(*req.Location.Address) == "" {
				return nil, domain.NewMissingFieldError("location.address")
			}
			fields["location.address"] = *req.Location.Address
		}
		if req.Location.District != nil {
			if strings.TrimSpace(*req.Location.District) == "" {
				return nil, domain.NewMissingFieldError("location.district")
			}
			fields["location.district"] = *req.Location.District
		}
		if req.Location.State != nil {
			if strings.TrimSpace(*req.Location.State) == "" {
				return nil, domain.NewMissingFieldError("location.state")
			}
			fields["location.state"] = *req.Location.State
		}
		if req.Location.Coordinates != nil {
			coordinates, err := buildCoordinates(req.Location.Coordinates)
			if err != nil {
				return nil, err
			}
			fields["location.coordinates"] = coordinates
		}
	}

	if req.Pricing != nil {
		if req.Pricing.BasePrice != nil {
			if *req.Pricing.BasePrice < minBasePrice {
				return nil, domain.NewOutOfRangeError("pricing.basePrice", fmt.Sprintf("must be at least %d", minBasePrice))
			}
			fields["pricing.basePrice"] = *req.Pricing.BasePrice
		}
		if req.Pricing.CleaningFee != nil {
			if *req.Pricing.CleaningFee < 0 {
				return nil, domain.NewOutOfRangeError("pricing.cleaningFee", "cannot be negative")
			}
			fields["pricing.cleaningFee"] = *req.Pricing.CleaningFee
		}
		if req.Pricing.WeekendPrice != nil {
			if *req.Pricing.WeekendPrice < 0 {
				return nil, domain.NewOutOfRangeError("pricing.weekendPrice", "cannot be negative")
			}
			fields["pricing.weekendPrice"] = *req.Pricing.WeekendPrice
		}
	}

	if req.Capacity != nil {
		if req.Capacity.Guests != nil {
			if *req.Capacity.Guests < 1 {
				return nil, domain.NewOutOfRangeError("capacity.guests", "must be at least 1")
			}
			fields["capacity.guests"] = *req.Capacity.Guests
		}
		if req.Capacity.Bedrooms != nil {
			if *req.Capacity.Bedrooms < 0 {
				return nil, domain.NewOutOfRangeError("capacity.bedrooms", "cannot be negative")
			}
			fields["capacity.bedrooms"] = *req.Capacity.Bedrooms
		}
		if req.Capacity.Bathrooms != nil {
			if *req.Capacity.Bathrooms < 0 {
				return nil, domain.NewOutOfRangeError("capacity.bathrooms", "cannot be negative")
			}
			fields["capacity.bathrooms"] = *req.Capacity.Bathrooms
		}
		if req.Capacity.Beds != nil {
			if *req.Capacity.Beds < 1 {
				return nil, domain.NewOutOfRangeError("capacity.beds", "must be at least 1")
			}
			fields["capacity.beds"] = *req.Capacity.Beds
		}
	}

	if req.Amenities != nil {
		fields["amenities"] = req.Amenities
	}
	if req.HouseRules != nil {
		fields["houseRules"] = req.HouseRules
	}
	if req.Images != nil {
		fields["images"] = req.Images
	}

	if req.Status != nil {
		status := domain.HomestayStatus(*req.Status)
		if !status.IsValid() {
			return nil, domain.NewInvalidEnumError("status", *req.Status)
		}
		fields["status"] = status
	}

	return fields, nil
}

// buildCoordinates valida un par de coordenadas
// El par es opcional, pero si viene, ambas componentes son requeridas
func buildCoordinates(input *dto.CoordinatesInput) (*domain.Coordinates, error) {
	if input == nil {
		return nil, nil
	}
	if input.Lat == nil {
		return nil, domain.NewMissingFieldError("location.coordinates.lat")
	}
	if input.Lng == nil {
		return nil, domain.NewMissingFieldError("location.coordinates.lng")
	}
	return &domain.Coordinates{Lat: *input.Lat, Lng: *input.Lng}, nil
}

package services

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourism-api/domain"
	"tourism-api/dto"
	"tourism-api/repositories"
)

const (
	guideEntity        = "guides"
	maxGuideNameLength = 100
	searchCacheTTL     = 15 * time.Minute
	defaultState       = "Jharkhand"
)

// GuideService define la interfaz del servicio de guías
type GuideService interface {
	Create(ctx context.Context, req dto.CreateGuideRequest) (*domain.Guide, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Guide, error)
	Update(ctx context.Context, id primitive.ObjectID, req dto.UpdateGuideRequest) (*domain.Guide, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetAll(ctx context.Context) ([]domain.Guide, error)
	GetBySpecialization(ctx context.Context, specialization string) ([]domain.Guide, error)
	GetByAvailability(ctx context.Context, availability string) ([]domain.Guide, error)
	GetByDistrict(ctx context.Context, district string) ([]domain.Guide, error)
	Search(ctx context.Context, query string) ([]domain.Guide, error)
}

// guideService implementa GuideService
type guideService struct {
	repo      repositories.GuideRepository
	cacheRepo repositories.CacheRepository
	publisher EventPublisher
}

// NewGuideService crea una nueva instancia de GuideService
func NewGuideService(repo repositories.GuideRepository, cacheRepo repositories.CacheRepository, publisher EventPublisher) GuideService {
	return &guideService{
		repo:      repo,
		cacheRepo: cacheRepo,
		publisher: publisher,
	}
}

// Create valida el request, aplica los defaults y persiste el guía
// No hay escrituras parciales: si alguna validación falla, nada se persiste
func (s *guideService) Create(ctx context.Context, req dto.CreateGuideRequest) (*domain.Guide, error) {
	guide, err := buildGuide(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, guide); err != nil {
		return nil, err
	}

	log.Printf("Guide created: id=%s, district=%s", guide.ID.Hex(), guide.Location.District)

	s.publishEvent(ActionCreate, guide.ID.Hex())
	s.cacheRepo.Bump(guideEntity)

	return guide, nil
}

// GetByID obtiene un guía por su ID
func (s *guideService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Guide, error) {
	return s.repo.GetByID(ctx, id)
}

// Update valida únicamente los campos presentes y los reemplaza
// createdAt es inmutable; updatedAt lo refresca el repositorio
func (s *guideService) Update(ctx context.Context, id primitive.ObjectID, req dto.UpdateGuideRequest) (*domain.Guide, error) {
	fields, err := buildGuideUpdate(req)
	if err != nil {
		return nil, err
	}

	guide, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	log.Printf("Guide updated: id=%s, fields=%d", id.Hex(), len(fields))

	s.publishEvent(ActionUpdate, id.Hex())
	s.cacheRepo.Bump(guideEntity)

	return guide, nil
}

// Delete elimina un guía por su ID
func (s *guideService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("Guide deleted: id=%s", id.Hex())

	s.publishEvent(ActionDelete, id.Hex())
	s.cacheRepo.Bump(guideEntity)

	return nil
}

// GetAll obtiene todos los guías
func (s *guideService) GetAll(ctx context.Context) ([]domain.Guide, error) {
	return s.repo.GetAll(ctx)
}

// GetBySpecialization obtiene guías por especialización
func (s *guideService) GetBySpecialization(ctx context.Context, specialization string) ([]domain.Guide, error) {
	return s.repo.GetBySpecialization(ctx, specialization)
}

// GetByAvailability obtiene guías por disponibilidad
// El valor se valida contra el enum antes de consultar
func (s *guideService) GetByAvailability(ctx context.Context, availability string) ([]domain.Guide, error) {
	value := domain.Availability(availability)
	if !value.IsValid() {
		return nil, domain.NewInvalidEnumError("availability", availability)
	}
	return s.repo.GetByAvailability(ctx, value)
}

// GetByDistrict obtiene guías por distrito
func (s *guideService) GetByDistrict(ctx context.Context, district string) ([]domain.Guide, error) {
	return s.repo.GetByDistrict(ctx, district)
}

// Search busca guías por texto sobre name+bio, con caché de dos niveles
func (s *guideService) Search(ctx context.Context, query string) ([]domain.Guide, error) {
	cacheKey := s.searchCacheKey(query)

	// 1. Consultar caché primero
	if data, found := s.cacheRepo.Get(cacheKey); found {
		var guides []domain.Guide
		if err := json.Unmarshal(data, &guides); err == nil {
			return guides, nil
		}
		log.Printf("Error unmarshaling cached guide search: key=%s", cacheKey)
	}

	// 2. Si no hay hit, consultar el índice de texto
	guides, err := s.repo.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}

	// 3. Guardar resultado en caché
	if data, err := json.Marshal(guides); err == nil {
		s.cacheRepo.Set(cacheKey, data, searchCacheTTL)
	}

	return guides, nil
}

// searchCacheKey arma la clave de caché de una búsqueda
// Incluye la versión de la entidad: las escrituras invalidan al incrementarla
func (s *guideService) searchCacheKey(query string) string {
	version := s.cacheRepo.Version(guideEntity)
	hash := md5.Sum([]byte(query))
	return fmt.Sprintf("search:%s:v%d:%x", guideEntity, version, hash)
}

// publishEvent publica un evento de listing
// Un fallo al publicar no revierte la escritura ya persistida
func (s *guideService) publishEvent(action, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishListingEvent(action, guideEntity, id); err != nil {
		log.Printf("Error publishing guide event: action=%s, id=%s, error=%v", action, id, err)
	}
}

// buildGuide valida un request de creación y arma el documento con defaults
func buildGuide(req dto.CreateGuideRequest) (*domain.Guide, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.NewMissingFieldError("name")
	}
	if utf8.RuneCountInString(name) > maxGuideNameLength {
		return nil, domain.NewOutOfRangeError("name", fmt.Sprintf("must be at most %d characters", maxGuideNameLength))
	}

	bio := strings.TrimSpace(req.Bio)
	if bio == "" {
		return nil, domain.NewMissingFieldError("bio")
	}

	if len(req.Specializations) == 0 {
		return nil, domain.NewEmptyCollectionError("specializations")
	}
	if len(req.Languages) == 0 {
		return nil, domain.NewEmptyCollectionError("languages")
	}

	if strings.TrimSpace(req.Experience) == "" {
		return nil, domain.NewMissingFieldError("experience")
	}

	if req.Location == nil {
		return nil, domain.NewMissingFieldError("location")
	}
	if strings.TrimSpace(req.Location.District) == "" {
		return nil, domain.NewMissingFieldError("location.district")
	}
	state := req.Location.State
	if state == "" {
		state = defaultState
	}

	if req.Pricing == nil {
		return nil, domain.NewMissingFieldError("pricing")
	}
	if req.Pricing.HalfDay == nil {
		return nil, domain.NewMissingFieldError("pricing.halfDay")
	}
	if *req.Pricing.HalfDay < 0 {
		return nil, domain.NewOutOfRangeError("pricing.halfDay", "cannot be negative")
	}
	if req.Pricing.FullDay == nil {
		return nil, domain.NewMissingFieldError("pricing.fullDay")
	}
	if *req.Pricing.FullDay < 0 {
		return nil, domain.NewOutOfRangeError("pricing.fullDay", "cannot be negative")
	}
	if req.Pricing.MultiDay != nil && *req.Pricing.MultiDay < 0 {
		return nil, domain.NewOutOfRangeError("pricing.multiDay", "cannot be negative")
	}
	if req.Pricing.Workshop != nil && *req.Pricing.Workshop < 0 {
		return nil, domain.NewOutOfRangeError("pricing.workshop", "cannot be negative")
	}

	availability := domain.AvailabilityAvailable
	if req.Availability != "" {
		availability = domain.Availability(req.Availability)
		if !availability.IsValid() {
			return nil, domain.NewInvalidEnumError("availability", req.Availability)
		}
	}

	return &domain.Guide{
		Name:            name,
		Bio:             bio,
		Specializations: req.Specializations,
		Languages:       req.Languages,
		Experience:      req.Experience,
		Location: domain.GuideLocation{
			District: req.Location.District,
			State:    state,
		},
		Pricing: domain.GuidePricing{
			HalfDay:  *req.Pricing.HalfDay,
			FullDay:  *req.Pricing.FullDay,
			MultiDay: req.Pricing.MultiDay,
			Workshop: req.Pricing.Workshop,
		},
		Certifications: req.Certifications,
		Availability:   availability,
	}, nil
}

// buildGuideUpdate valida los campos presentes y arma el documento $set
func buildGuideUpdate(req dto.UpdateGuideRequest) (bson.M, error) {
	fields := bson.M{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.NewMissingFieldError("name")
		}
		if utf8.RuneCountInString(name) > maxGuideNameLength {
			return nil, domain.NewOutOfRangeError("name", fmt.Sprintf("must be at most %d characters", maxGuideNameLength))
		}
		fields["name"] = name
	}

	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		if bio == "" {
			return nil, domain.NewMissingFieldError("bio")
		}
		fields["bio"] = bio
	}

	if req.Specializations != nil {
		if len(req.Specializations) == 0 {
			return nil, domain.NewEmptyCollectionError("specializations")
		}
		fields["specializations"] = req.Specializations
	}

	if req.Languages != nil {
		if len(req.Languages) == 0 {
			return nil, domain.NewEmptyCollectionError("languages")
		}
		fields["languages"] = req.Languages
	}

	if req.Experience != nil {
		if strings.TrimSpace(*req.Experience) == "" {
			return nil, domain.NewMissingFieldError("experience")
		}
		fields["experience"] = *req.Experience
	}

	if req.Location != nil {
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
	}

	if req.Pricing != nil {
		if req.Pricing.HalfDay != nil {
			if *req.Pricing.HalfDay < 0 {
				return nil, domain.NewOutOfRangeError("pricing.halfDay", "cannot be negative")
			}
			fields["pricing.halfDay"] = *req.Pricing.HalfDay
		}
		if req.Pricing.FullDay != nil {
			if *req.Pricing.FullDay < 0 {
				return nil, domain.NewOutOfRangeError("pricing.fullDay", "cannot be negative")
			}
			fields["pricing.fullDay"] = *req.Pricing.FullDay
		}
		if req.Pricing.MultiDay != nil {
			if *req.Pricing.MultiDay < 0 {
				return nil, domain.NewOutOfRangeError("pricing.multiDay", "cannot be negative")
			}
			fields["pricing.multiDay"] = *req.Pricing.MultiDay
		}
		if req.Pricing.Workshop != nil {
			if *req.Pricing.Workshop < 0 {
				return nil, domain.NewOutOfRangeError("pricing.workshop", "cannot be negative")
			}
			fields["pricing.workshop"] = *req.Pricing.Workshop
		}
	}

	if req.Certifications != nil {
		fields["certifications"] = req.Certifications
	}

	if req.Availability != nil {
		availability := domain.Availability(*req.Availability)
		if !availability.IsValid() {
			return nil, domain.NewInvalidEnumError("availability", *req.Availability)
		}
		fields["availability"] = availability
	}

	return fields, nil
}

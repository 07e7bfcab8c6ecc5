package repositories

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"
	log "github.com/sirupsen/logrus"
)

// CacheRepository define la interfaz para el caché de resultados de búsqueda
// Mantiene dos niveles: local (ccache) y compartido (Memcached)
type CacheRepository interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Version(entity string) uint64
	Bump(entity string)
}

// cacheRepository implementa CacheRepository con dos niveles
type cacheRepository struct {
	localCache      *ccache.Cache[[]byte]
	memcachedClient *memcache.Client
}

const localCacheTTL = 5 * time.Minute

// NewCacheRepository crea una nueva instancia de CacheRepository
func NewCacheRepository(memcachedHost string) CacheRepository {
	localCache := ccache.New(ccache.Configure[[]byte]().MaxSize(1000))
	memcachedClient := memcache.New(memcachedHost)

	log.Printf("Cache repository initialized with Memcached at %s", memcachedHost)

	return &cacheRepository{
		localCache:      localCache,
		memcachedClient: memcachedClient,
	}
}

// Get obtiene datos del caché (primero local, luego Memcached)
func (r *cacheRepository) Get(key string) ([]byte, bool) {
	// 1. Buscar en caché local primero
	item := r.localCache.Get(key)
	if item != nil && !item.Expired() {
		log.Printf("Cache HIT (local): key=%s", key)
		return item.Value(), true
	}

	// 2. Si no está en local, buscar en Memcached
	memcachedItem, err := r.memcachedClient.Get(key)
	if err != nil {
		if err == memcache.ErrCacheMiss {
			log.Printf("Cache MISS: key=%s", key)
			return nil, false
		}
		log.Printf("Error getting from Memcached: key=%s, error=%v", key, err)
		return nil, false
	}

	// 3. Guardar en caché local para próximas consultas
	r.localCache.Set(key, memcachedItem.Value, localCacheTTL)
	log.Printf("Cache HIT (Memcached): key=%s, stored in local cache", key)

	return memcachedItem.Value, true
}

// Set guarda datos en ambos niveles de caché
func (r *cacheRepository) Set(key string, value []byte, ttl time.Duration) {
	// 1. Guardar en caché local
	r.localCache.Set(key, value, localCacheTTL)

	// 2. Guardar en Memcached con el TTL indicado (Memcached usa segundos)
	memcachedItem := &memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl.Seconds()),
	}

	if err := r.memcachedClient.Set(memcachedItem); err != nil {
		log.Printf("Error setting cache in Memcached: key=%s, error=%v", key, err)
		return
	}

	log.Printf("Cache SET: key=%s, ttl=%s", key, ttl)
}

// Delete elimina datos de ambos niveles de caché
func (r *cacheRepository) Delete(key string) {
	r.localCache.Delete(key)

	if err := r.memcachedClient.Delete(key); err != nil && err != memcache.ErrCacheMiss {
		log.Printf("Error deleting from Memcached: key=%s, error=%v", key, err)
		return
	}

	log.Printf("Cache DELETE: key=%s", key)
}

// Version obtiene el contador de versión de una entidad
// La versión forma parte de las claves de búsqueda: al incrementarla,
// todas las claves anteriores quedan huérfanas y expiran por TTL
func (r *cacheRepository) Version(entity string) uint64 {
	item, err := r.memcachedClient.Get(versionKey(entity))
	if err != nil {
		if err != memcache.ErrCacheMiss {
			log.Printf("Error getting version from Memcached: entity=%s, error=%v", entity, err)
		}
		return 1
	}

	version, err := strconv.ParseUint(string(item.Value), 10, 64)
	if err != nil {
		log.Printf("Error parsing version from Memcached: entity=%s, error=%v", entity, err)
		return 1
	}
	return version
}

// Bump incrementa el contador de versión de una entidad
// Se invoca en cada escritura exitosa para invalidar las búsquedas cacheadas
func (r *cacheRepository) Bump(entity string) {
	key := versionKey(entity)

	if _, err := r.memcachedClient.Increment(key, 1); err != nil {
		if err != memcache.ErrCacheMiss {
			log.Printf("Error incrementing version in Memcached: entity=%s, error=%v", entity, err)
			return
		}
		// La clave todavía no existe: la versión implícita era 1
		if err := r.memcachedClient.Set(&memcache.Item{Key: key, Value: []byte("2")}); err != nil {
			log.Printf("Error initializing version in Memcached: entity=%s, error=%v", entity, err)
			return
		}
	}

	log.Printf("Cache version bumped: entity=%s", entity)
}

// versionKey arma la clave del contador de versión de una entidad
func versionKey(entity string) string {
	return fmt.Sprintf("version:%s", entity)
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tourism-api/config"
	"tourism-api/consumers"
	"tourism-api/controllers"
	"tourism-api/publishers"
	"tourism-api/repositories"
	"tourism-api/services"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	log.Println("Starting Tourism API...")

	// a. Cargar configuración
	cfg := config.LoadConfig()

	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = log.InfoLevel
	}
	log.SetLevel(logLevel)

	log.Printf("Configuration loaded: Port=%s, MongoDatabase=%s, MemcachedHost=%s",
		cfg.Port, cfg.MongoDatabase, cfg.MemcachedHost)

	// b. Conectar a MongoDB
	client, err := repositories.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	db := client.Database(cfg.MongoDatabase)
	log.Println("Connected to MongoDB")

	// c. Inicializar repositorios y declarar índices
	guideRepo := repositories.NewGuideRepository(db)
	homestayRepo := repositories.NewHomestayRepository(db)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndex()
	if err := guideRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create guide indexes: %v", err)
	}
	if err := homestayRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create homestay indexes: %v", err)
	}
	log.Println("Indexes ensured")

	cacheRepo := repositories.NewCacheRepository(cfg.MemcachedHost)

	// d. Inicializar publisher y consumer de RabbitMQ
	publisher, err := publishers.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.ListingsQueue)
	if err != nil {
		log.Fatalf("Failed to create RabbitMQ publisher: %v", err)
	}

	consumer, err := consumers.NewRabbitMQConsumer(cfg.RabbitMQURL, cfg.ListingsQueue, cacheRepo)
	if err != nil {
		log.Fatalf("Failed to create RabbitMQ consumer: %v", err)
	}

	go func() {
		if err := consumer.Start(); err != nil {
			log.Printf("Error starting RabbitMQ consumer: %v", err)
		}
	}()

	// e. Inicializar servicios y controladores
	guideService := services.NewGuideService(guideRepo, cacheRepo, publisher)
	homestayService := services.NewHomestayService(homestayRepo, cacheRepo, publisher)

	guideController := controllers.NewGuideController(guideService)
	homestayController := controllers.NewHomestayController(homestayService)

	log.Println("Services and controllers initialized")

	// f. Configurar gin
	router := gin.Default()

	// CORS - Permitir requests desde el frontend
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// g. Definir rutas
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "tourism-api",
		})
	})

	guides := router.Group("/guides")
	{
		guides.POST("", guideController.CreateGuide)
		guides.GET("", guideController.GetAllGuides)
		guides.GET("/search", guideController.SearchGuides)
		guides.GET("/specialization/:specialization", guideController.GetGuidesBySpecialization)
		guides.GET("/availability/:availability", guideController.GetGuidesByAvailability)
		guides.GET("/district/:district", guideController.GetGuidesByDistrict)
		guides.GET("/:id", guideController.GetGuideByID)
		guides.PUT("/:id", guideController.UpdateGuide)
		guides.DELETE("/:id", guideController.DeleteGuide)
	}

	homestays := router.Group("/homestays")
	{
		homestays.POST("", homestayController.CreateHomestay)
		homestays.GET("", homestayController.GetAllHomestays)
		homestays.GET("/search", homestayController.SearchHomestays)
		homestays.GET("/price", homestayController.GetHomestaysByPriceRange)
		homestays.GET("/district/:district", homestayController.GetHomestaysByDistrict)
		homestays.GET("/status/:status", homestayController.GetHomestaysByStatus)
		homestays.GET("/:id", homestayController.GetHomestayByID)
		homestays.PUT("/:id", homestayController.UpdateHomestay)
		homestays.DELETE("/:id", homestayController.DeleteHomestay)
	}

	// h. Crear servidor HTTP
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Tourism API running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// i. Manejar graceful shutdown con signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Tourism API...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	if err := consumer.Close(); err != nil {
		log.Printf("Error closing RabbitMQ consumer: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Printf("Error closing RabbitMQ publisher: %v", err)
	}

	if err := client.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}

	log.Println("Tourism API shut down complete")
}

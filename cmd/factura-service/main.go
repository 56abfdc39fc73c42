package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoquelvisdev08/factura/internal/api"
	"github.com/yoquelvisdev08/factura/internal/config"
	"github.com/yoquelvisdev08/factura/internal/database"
	"github.com/yoquelvisdev08/factura/internal/email"
	"github.com/yoquelvisdev08/factura/internal/services"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Configurar logging
	logger := setupLogger(cfg)
	logger.Info("Starting factura service...")

	// Configurar modo de Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Conectar a la base de datos
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	// Conectar a Redis; el servicio funciona sin caché
	cache, err := database.ConnectRedis(cfg)
	if err != nil {
		logger.Warnf("Error connecting to Redis: %v", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// Inicializar cliente de almacenamiento
	var storageClient *database.StorageClient
	if cfg.Storage.Endpoint != "" && cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		storageClient, err = database.NewStorageClient(&cfg.Storage, logger)
		if err != nil {
			logger.Warnf("Error initializing storage client: %v", err)
			storageClient = nil
		} else if err := storageClient.HealthCheck(); err != nil {
			logger.Warnf("Storage health check failed: %v", err)
		} else {
			logger.Info("Storage connection healthy")
		}
	} else {
		logger.Warn("Storage credentials not provided, file storage will not be available")
	}

	// Inicializar servicio de Resend
	var resendService *email.ResendService
	if cfg.Email.ResendAPIKey != "" {
		resendService = email.NewResendService(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, logger)
		logger.Info("Resend service initialized successfully")
	} else {
		logger.Warn("Resend API key not provided, email service will not be available")
	}

	// Inicializar servicios
	documentRepo := database.NewDocumentRepository(db, logger)
	invoiceService := services.NewInvoiceService(cache, cfg.Redis.CacheTTL, storageClient, documentRepo, resendService, logger)
	documentService := services.NewDocumentService(documentRepo, storageClient, logger)

	// Inicializar API
	apiHandler := api.NewAPI(invoiceService, documentService, logger)

	// Configurar router
	router := setupRouter(apiHandler, db, cache, cfg)

	// Crear servidor HTTP
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Canal para señales de terminación
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Iniciar servidor en goroutine
	go func() {
		logger.Infof("Server starting on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	// Esperar señal de terminación
	<-quit
	logger.Info("Shutting down server...")

	// Contexto con timeout para shutdown graceful
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// setupLogger configura el logger según la configuración
func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// setupRouter configura el router principal
func setupRouter(apiHandler *api.API, db *database.DB, cache *database.Redis, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Middleware global
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Middleware de CORS para desarrollo
	if cfg.IsDevelopment() {
		router.Use(func(c *gin.Context) {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-User-ID")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(204)
				return
			}

			c.Next()
		})
	}

	// Health check
	router.GET("/health", apiHandler.HealthCheck(db, cache))

	// API
	apiGroup := router.Group("/api")
	{
		// Pipeline de facturas
		invoice := apiGroup.Group("/invoice")
		{
			invoice.POST("/assemble", apiHandler.AssembleInvoice)
			invoice.POST("/preview", apiHandler.PreviewInvoice)
			invoice.POST("/generate-pdf", apiHandler.GenerateInvoicePDF)
			invoice.POST("/email", apiHandler.EmailInvoice)
		}

		// Archivo de documentos del usuario
		documents := apiGroup.Group("/documents")
		{
			documents.POST("", apiHandler.CreateDocument)
			documents.GET("", apiHandler.ListDocuments)
			documents.GET("/:id", apiHandler.GetDocument)
			documents.PUT("/:id", apiHandler.UpdateDocument)
			documents.DELETE("/:id", apiHandler.DeleteDocument)
			documents.GET("/:id/file", apiHandler.DownloadDocumentFile)
		}
	}

	return router
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dcode-github/rishstay/cache"
	"github.com/dcode-github/rishstay/config"
	"github.com/dcode-github/rishstay/controllers"
	"github.com/dcode-github/rishstay/routes"
	"github.com/dcode-github/rishstay/storage"
	"github.com/dcode-github/rishstay/store/mongostore"
	"github.com/dcode-github/rishstay/utils"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func newImageStore(ctx context.Context, cfg *config.Config, db *mongo.Database) (storage.ImageStore, error) {
	switch cfg.ImageStore {
	case config.ImageStoreS3:
		log.Printf("Storing images in S3 bucket %s", cfg.BucketName)
		return storage.NewS3(ctx, cfg.BucketName, cfg.PublicBaseURL)
	default:
		log.Println("Storing images in GridFS")
		return storage.NewGridFS(db, cfg.PublicBaseURL)
	}
}

// newPropertyCache falls back to no caching when Redis is not configured or
// not reachable.
func newPropertyCache(ctx context.Context, cfg *config.Config) (cache.PropertyCache, func()) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADD not set, property listing cache disabled")
		return cache.Noop{}, func() {}
	}
	client, err := config.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Printf("Property listing cache disabled: %v", err)
		return cache.Noop{}, func() {}
	}
	return cache.NewRedis(client, cfg.CacheTTL), func() {
		if err := client.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}
}

// headerTimeout stays short so idle or slow clients cannot hold a connection
// before sending a request. Bodies get cfg.RequestTimeout, which covers image
// uploads.
const headerTimeout = 10 * time.Second

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: headerTimeout,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       cfg.RequestTimeout,
		MaxHeaderBytes:    1 << 20,
	}
}

func serve(ctx context.Context) error {
	cfg, client, db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer config.CloseDBConnection(client)

	st := mongostore.New(db)
	if err := st.EnsureIndexes(ctx); err != nil {
		return err
	}

	images, err := newImageStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	propertyCache, closeCache := newPropertyCache(ctx, cfg)
	defer closeCache()

	deps := &controllers.Deps{
		Store:  st,
		Images: images,
		Cache:  propertyCache,
		JWT:    utils.NewJWTManager(cfg.JWTKey, cfg.JWTTTL),
	}
	router := mux.NewRouter()
	routes.Routes(router, deps)

	server := newHTTPServer(cfg, routes.Handler(router, cfg.CORSOrigins))

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-serverErr:
		return fmt.Errorf("error starting server: %w", err)
	case <-sigCh:
	}

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}

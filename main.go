package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/raushankrgupta/look-builder/api"
	"github.com/raushankrgupta/look-builder/catalog"
	"github.com/raushankrgupta/look-builder/config"
	"github.com/raushankrgupta/look-builder/store"
	"github.com/raushankrgupta/look-builder/synth"
	"github.com/raushankrgupta/look-builder/utils"
)

func openStore(ctx context.Context) (store.Store, error) {
	if config.MongoURI == "memory" {
		log.Println("Using in-memory store")
		return store.NewMemStore(), nil
	}
	return store.OpenMongo(ctx, config.MongoURI, config.DatabaseName)
}

func buildCatalog() catalog.Catalog {
	var sources catalog.Multi
	if config.CatalogAPIURL != "" {
		sources = append(sources, catalog.NewAPIClient(config.CatalogAPIURL))
	}
	if config.CatalogPageURL != "" {
		sources = append(sources, catalog.NewPageSource(config.CatalogPageURL))
	}
	if len(sources) == 0 {
		log.Fatal("At least one of CATALOG_API_URL or CATALOG_PAGE_URL must be set")
	}
	return sources
}

func main() {
	config.LoadConfig()

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close(ctx)

	if err := utils.InitS3(); err != nil {
		log.Printf("S3 init deferred: %v", err)
	}

	a := api.New(st, buildCatalog(), synth.NewGemini())

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /auth/signup", api.CORSMiddleware(a.SignupHandler))
	mux.HandleFunc("POST /auth/verify-otp", api.CORSMiddleware(a.VerifyOTPHandler))
	mux.HandleFunc("POST /auth/login", api.CORSMiddleware(a.LoginHandler))

	// Model profiles
	mux.HandleFunc("POST /models", api.CORSMiddleware(api.AuthMiddleware(a.CreateModelHandler)))
	mux.HandleFunc("GET /models", api.CORSMiddleware(api.AuthMiddleware(a.ListModelsHandler)))
	mux.HandleFunc("DELETE /models/{id}", api.CORSMiddleware(api.AuthMiddleware(a.DeleteModelHandler)))

	// Try-on runs
	mux.HandleFunc("POST /try-on", api.CORSMiddleware(api.AuthMiddleware(a.StartTryOnHandler)))
	mux.HandleFunc("POST /try-on/{run_id}/regenerate", api.CORSMiddleware(api.AuthMiddleware(a.RegenerateHandler)))
	mux.HandleFunc("POST /try-on/{run_id}/save", api.CORSMiddleware(api.AuthMiddleware(a.SaveRunHandler)))

	// Looks
	mux.HandleFunc("GET /looks", api.CORSMiddleware(api.AuthMiddleware(a.ListLooksHandler)))
	mux.HandleFunc("DELETE /looks/{id}", api.CORSMiddleware(api.AuthMiddleware(a.DeleteLookHandler)))
	mux.HandleFunc("POST /looks/{id}/variations", api.CORSMiddleware(api.AuthMiddleware(a.AddVariationHandler)))
	mux.HandleFunc("POST /looks/{id}/promote", api.CORSMiddleware(api.AuthMiddleware(a.PromoteVariationHandler)))
	mux.HandleFunc("POST /looks/{id}/edit", api.CORSMiddleware(api.AuthMiddleware(a.EditLookHandler)))
	mux.HandleFunc("GET /looks/export", api.CORSMiddleware(api.AuthMiddleware(a.ExportLooksHandler)))
	mux.HandleFunc("POST /looks/import", api.CORSMiddleware(api.AuthMiddleware(a.ImportLooksHandler)))

	// Lookboards
	mux.HandleFunc("POST /lookboards", api.CORSMiddleware(api.AuthMiddleware(a.CreateBoardHandler)))
	mux.HandleFunc("GET /lookboards", api.CORSMiddleware(api.AuthMiddleware(a.ListBoardsHandler)))
	mux.HandleFunc("DELETE /lookboards/{id}", api.CORSMiddleware(api.AuthMiddleware(a.DeleteBoardHandler)))
	mux.HandleFunc("POST /lookboards/{id}/share", api.CORSMiddleware(api.AuthMiddleware(a.ShareBoardHandler)))
	mux.HandleFunc("GET /share/{public_id}", api.CORSMiddleware(a.SharedBoardHandler))

	server := &http.Server{
		Addr:    ":" + config.Port,
		Handler: utils.LatencyMiddleware(mux),
	}

	go func() {
		fmt.Printf("Server starting on port %s...\n", config.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

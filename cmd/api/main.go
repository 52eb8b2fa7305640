package main

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"socialforge/internal/config"
	"socialforge/internal/history"
	"socialforge/internal/llm"
	"socialforge/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	storage, err := buildStorage(cfg.History)
	if err != nil {
		log.Fatalf("history storage: %v", err)
	}
	archive := history.NewArchive(storage)
	entries := archive.Load(ctx)
	log.Printf("history: loaded %d entries", len(entries))

	if cfg.APIKey == "" {
		log.Printf("warning: GOOGLE_GEMINI_API_KEY is empty; upstream calls will fail")
	}
	gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		log.Fatalf("gemini client: %v", err)
	}
	client := llm.Wrap(gemini, llm.Logging(), llm.RateLimit(cfg.RPS, cfg.Burst))
	defer client.Close()

	pipe := pipeline.New(client, archive, pipeline.Options{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	})

	mux := buildMux(newAPIServer(pipe, archive))
	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}
	log.Printf("listening on %s (model %s)", cfg.Port, cfg.Model)
	log.Fatal(srv.ListenAndServe())
}

func buildStorage(cfg config.HistoryConfig) (history.Storage, error) {
	if cfg.Endpoint != "" {
		return history.NewObjectStorage(history.ObjectConfig{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			Object:    cfg.Object,
			UseSSL:    cfg.UseSSL,
		})
	}
	return history.NewFileStorage(cfg.Path), nil
}

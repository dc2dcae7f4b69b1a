// @title           Career Services RAG API
// @version         1.0
// @description     Retrieval-augmented question answering over per-university career services datasets
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:5000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/CareerRAG/internal/config"
	"github.com/akolanti/CareerRAG/internal/data/registry"
	"github.com/akolanti/CareerRAG/internal/handlers"
	"github.com/akolanti/CareerRAG/internal/metrics"
	"github.com/akolanti/CareerRAG/internal/rag"
	"github.com/akolanti/CareerRAG/internal/rag/embedding"
	"github.com/akolanti/CareerRAG/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/CareerRAG/internal/rag/ingest"
	"github.com/akolanti/CareerRAG/internal/rag/llm"
	"github.com/akolanti/CareerRAG/internal/rag/llm/gemini"
	"github.com/akolanti/CareerRAG/internal/rag/llm/openaiLLM"
	"github.com/akolanti/CareerRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/CareerRAG/internal/server"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
	"github.com/joho/godotenv"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}
	flag.StringVar(&listenAddr, "listen-addr", ":"+config.ListenPort(), "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorDB := qdrantDB.GetQuadrantClient(serviceContext)
	if vectorDB == nil {
		logger.Error("Vector store failed to initialize. Shutting down.")
		return
	}

	//university datasets live in memory and are rebuilt by re-scanning the
	//data directory on startup
	universityRegistry := registry.InitRegistry()
	logger.Info("Preloading CSV files from data directory...")
	ingest.PreloadDirectory(config.DataDir(), universityRegistry)
	metrics.SetUniversitiesLoaded(universityRegistry.Count())

	var embedderFactory embedding.Factory = googleEmbedding.NewEmbedder

	var llmFactory llm.Factory
	switch config.LLMProviderName {
	case "openai":
		llmFactory = openaiLLM.NewProvider
	default:
		llmFactory = gemini.NewProvider
	}

	ragService := rag.NewService(vectorDB, universityRegistry, embedderFactory, llmFactory)
	handlers.InitHandlers(universityRegistry, ragService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//TODO:this will differ based on the embedding provider
	EmbeddingOutputDimensionality int32 = 1536

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 60 * time.Second //generation calls block the handler until the provider answers
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port - PORT env overrides
	DefaultPort = "5000"

	//uploads
	MaxUploadSize int64 = 16 << 20 //16MiB

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1

	//retrieval
	TopKPassages = 10

	//semantic answer cache
	CacheSimilarityCutoff = 0.97

	//llm
	LLMProviderName = "gemini" //"gemini" or "openai"
	GeminiModelName = "gemini-2.0-flash"
	OpenAIModelName = "gpt-4o-mini"

	//embeddings
	GoogleEmbeddingModel = "gemini-embedding-001"

	//embedding retry on throttling / transient unavailability
	EmbeddingRetryAttempts = 3
	EmbeddingRetryBaseWait = 1 * time.Second

	//csv preload directory - DATA_DIR env overrides
	DefaultDataDir = "data"

	//front end
	IndexPagePath = "static/index.html"

	DefaultBasePrompt = "You are a helpful and informative bot that answers questions from undergraduate students asking about career services at %s using text from the reference passage included below. " +
		"Be sure to respond in a complete sentence, being comprehensive, including all relevant background information. Be sure to break down complicated concepts and " +
		"strike a friendly and conversational tone. Give additional advice on top of the given text on how the student can maximize the value of the resource. If the passage is irrelevant to the answer, you may ignore it.\n\n" +
		"**Please format your response using Markdown, including bullet points, bold text, and proper spacing where appropriate.**"
)

func ListenPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return DefaultPort
}

func DataDir() string {
	if d := os.Getenv("DATA_DIR"); d != "" {
		return d
	}
	return DefaultDataDir
}

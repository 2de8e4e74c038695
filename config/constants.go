package config

import "time"

// Fetch Constants
const (
	// FetchTimeout bounds a single outbound article request
	FetchTimeout = 10 * time.Second

	// UserAgent is sent on every outbound request; some publishers reject the Go default
	UserAgent = "Mozilla/5.0 (compatible; newsai/1.0)"

	// MaxBodyBytes caps how much of a response body is read
	MaxBodyBytes = 5 << 20
)

// Extraction Constants
const (
	// StrictParagraphChars is the paragraph threshold used by the API
	StrictParagraphChars = 60

	// LenientParagraphChars is the looser threshold used by the command-line tools
	LenientParagraphChars = 50

	// MinArticleChars is the minimum length of usable extracted text
	MinArticleChars = 100

	// Paragraph filter policy names
	PolicyStrict  = "strict"
	PolicyLenient = "lenient"
)

// Normalization Constants
const (
	// MaxInputChars is the character budget handed to the summarizer
	MaxInputChars = 3000
)

// Summary Constants
const (
	// APISummaryMax and APISummaryMin are the generation bounds used by the API
	APISummaryMax = 130
	APISummaryMin = 40

	// ShortSummaryMax and ShortSummaryMin produce the shorter summaries of the command-line tools
	ShortSummaryMax = 80
	ShortSummaryMin = 20

	// Summary profile names
	ProfileAPI   = "api"
	ProfileShort = "short"
)

// Inference Constants
const (
	// InferenceTimeout bounds a single summarize or classify call
	InferenceTimeout = 60 * time.Second

	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderCohere      = "cohere"
	ProviderOllama      = "ollama"

	DefaultHFBaseURL      = "https://api-inference.huggingface.co"
	DefaultSummaryModel   = "csebuetnlp/mT5_multilingual_XLSum"
	DefaultSentimentModel = "pysentimiento/robertuito-sentiment-analysis"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultCohereModel    = "command-r"
	DefaultOllamaHost     = "http://localhost:11434"
	DefaultOllamaModel    = "mistral"
)

// Queue Constants
const (
	QueueRedis = "redis"
	QueueKafka = "kafka"

	DefaultKafkaBroker    = "localhost:9092"
	DefaultRequestTopic   = "analysis-requests"
	DefaultResultTopic    = "analysis-results"
	DefaultConsumerGroup  = "newsai-workers"
	DefaultRedisAddr      = "localhost:6379"
	DefaultRequestList    = "newsai:requests"
	DefaultReplyKeyPrefix = "newsai:reply:"

	// ReplyTTL is how long an unread reply stays in Redis
	ReplyTTL = 10 * time.Minute

	// PopTimeout is the BLPOP wait before the worker re-checks its context
	PopTimeout = 5 * time.Second
)

// Server Constants
const (
	DefaultAddr     = ":5000"
	ConfigPathEnv   = "NEWSAI_CONFIG"
	DefaultLogLevel = "info"
)

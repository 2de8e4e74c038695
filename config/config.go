package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"newsai/types"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting. Values come from defaults, then an
// optional YAML file named by NEWSAI_CONFIG, then environment variables.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Extract     ExtractConfig     `yaml:"extract"`
	Normalize   NormalizeConfig   `yaml:"normalize"`
	Summary     SummaryConfig     `yaml:"summary"`
	Inference   InferenceConfig   `yaml:"inference"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Cohere      CohereConfig      `yaml:"cohere"`
	Ollama      OllamaConfig      `yaml:"ollama"`
	S3          S3Config          `yaml:"s3"`
	Queue       QueueConfig       `yaml:"queue"`
	Log         LogConfig         `yaml:"log"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"corsOrigins"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// ExtractConfig selects the paragraph filter. MinParagraphChars overrides the policy when set.
type ExtractConfig struct {
	Policy            string `yaml:"policy"`
	MinParagraphChars int    `yaml:"minParagraphChars"`
	MinArticleChars   int    `yaml:"minArticleChars"`
}

type NormalizeConfig struct {
	MaxInputChars int `yaml:"maxInputChars"`
}

// SummaryConfig selects generation bounds by profile. Explicit bounds win over the profile.
type SummaryConfig struct {
	Profile   string `yaml:"profile"`
	MaxLength int    `yaml:"maxLength"`
	MinLength int    `yaml:"minLength"`
}

type InferenceConfig struct {
	Provider string        `yaml:"provider"`
	Timeout  time.Duration `yaml:"timeout"`
}

type HuggingFaceConfig struct {
	BaseURL        string `yaml:"baseURL"`
	Token          string `yaml:"token"`
	SummaryModel   string `yaml:"summaryModel"`
	SentimentModel string `yaml:"sentimentModel"`
}

type OpenAIConfig struct {
	BaseURL string `yaml:"baseURL"`
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
}

type CohereConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

type OllamaConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// S3Config configures the s3:// content source. It is off unless Enabled is set,
// and when AllowedBuckets is non-empty only those buckets can be read.
type S3Config struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedBuckets []string `yaml:"allowedBuckets"`
	Region         string   `yaml:"region"`
	Profile        string   `yaml:"profile"`
	UsePathStyle   bool     `yaml:"usePathStyle"`
}

type QueueConfig struct {
	Backend string      `yaml:"backend"`
	Kafka   KafkaConfig `yaml:"kafka"`
	Redis   RedisConfig `yaml:"redis"`
}

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	RequestTopic  string   `yaml:"requestTopic"`
	ResultTopic   string   `yaml:"resultTopic"`
	ConsumerGroup string   `yaml:"consumerGroup"`
}

type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	RequestList    string        `yaml:"requestList"`
	ReplyKeyPrefix string        `yaml:"replyKeyPrefix"`
	ReplyTTL       time.Duration `yaml:"replyTTL"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        DefaultAddr,
			CORSOrigins: []string{"*"},
		},
		Fetch: FetchConfig{
			Timeout:   FetchTimeout,
			UserAgent: UserAgent,
		},
		Extract: ExtractConfig{
			Policy:          PolicyStrict,
			MinArticleChars: MinArticleChars,
		},
		Normalize: NormalizeConfig{MaxInputChars: MaxInputChars},
		Summary:   SummaryConfig{Profile: ProfileAPI},
		Inference: InferenceConfig{
			Provider: ProviderHuggingFace,
			Timeout:  InferenceTimeout,
		},
		HuggingFace: HuggingFaceConfig{
			BaseURL:        DefaultHFBaseURL,
			SummaryModel:   DefaultSummaryModel,
			SentimentModel: DefaultSentimentModel,
		},
		OpenAI: OpenAIConfig{Model: DefaultOpenAIModel},
		Cohere: CohereConfig{Model: DefaultCohereModel},
		Ollama: OllamaConfig{Host: DefaultOllamaHost, Model: DefaultOllamaModel},
		Queue: QueueConfig{
			Backend: QueueRedis,
			Kafka: KafkaConfig{
				Brokers:       []string{DefaultKafkaBroker},
				RequestTopic:  DefaultRequestTopic,
				ResultTopic:   DefaultResultTopic,
				ConsumerGroup: DefaultConsumerGroup,
			},
			Redis: RedisConfig{
				Addr:           DefaultRedisAddr,
				RequestList:    DefaultRequestList,
				ReplyKeyPrefix: DefaultReplyKeyPrefix,
				ReplyTTL:       ReplyTTL,
			},
		},
		Log: LogConfig{Level: DefaultLogLevel, Pretty: true},
	}
}

// Load builds the configuration from defaults, the optional YAML file and the environment
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(ConfigPathEnv)); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		c.Server.Addr = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	c.Fetch.Timeout = getEnvDuration("FETCH_TIMEOUT", c.Fetch.Timeout)
	c.Fetch.UserAgent = getEnvOrDefault("FETCH_USER_AGENT", c.Fetch.UserAgent)

	c.Extract.Policy = getEnvOrDefault("EXTRACT_POLICY", c.Extract.Policy)
	c.Extract.MinParagraphChars = getEnvInt("MIN_PARAGRAPH_CHARS", c.Extract.MinParagraphChars)
	c.Extract.MinArticleChars = getEnvInt("MIN_ARTICLE_CHARS", c.Extract.MinArticleChars)
	c.Normalize.MaxInputChars = getEnvInt("MAX_INPUT_CHARS", c.Normalize.MaxInputChars)

	c.Summary.Profile = getEnvOrDefault("SUMMARY_PROFILE", c.Summary.Profile)
	c.Summary.MaxLength = getEnvInt("SUMMARY_MAX_LENGTH", c.Summary.MaxLength)
	c.Summary.MinLength = getEnvInt("SUMMARY_MIN_LENGTH", c.Summary.MinLength)

	c.Inference.Provider = strings.ToLower(getEnvOrDefault("INFERENCE_PROVIDER", c.Inference.Provider))
	c.Inference.Timeout = getEnvDuration("INFERENCE_TIMEOUT", c.Inference.Timeout)

	c.HuggingFace.BaseURL = getEnvOrDefault("HF_BASE_URL", c.HuggingFace.BaseURL)
	c.HuggingFace.Token = getEnvOrDefault("HF_TOKEN", c.HuggingFace.Token)
	c.HuggingFace.SummaryModel = getEnvOrDefault("HF_SUMMARY_MODEL", c.HuggingFace.SummaryModel)
	c.HuggingFace.SentimentModel = getEnvOrDefault("HF_SENTIMENT_MODEL", c.HuggingFace.SentimentModel)

	c.OpenAI.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.OpenAI.APIKey = getEnvOrDefault("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.Model = getEnvOrDefault("OPENAI_MODEL", c.OpenAI.Model)

	c.Cohere.APIKey = getEnvOrDefault("COHERE_API_KEY", c.Cohere.APIKey)
	c.Cohere.Model = getEnvOrDefault("COHERE_MODEL", c.Cohere.Model)

	c.Ollama.Host = getEnvOrDefault("OLLAMA_HOST", c.Ollama.Host)
	c.Ollama.Model = getEnvOrDefault("OLLAMA_MODEL", c.Ollama.Model)

	if v := os.Getenv("S3_ENABLED"); v != "" {
		c.S3.Enabled = strings.EqualFold(strings.TrimSpace(v), "true")
	}
	if v := os.Getenv("S3_ALLOWED_BUCKETS"); v != "" {
		c.S3.AllowedBuckets = splitList(v)
	}
	c.S3.Region = strings.TrimSpace(getEnvOrDefault("S3_REGION", c.S3.Region))
	c.S3.Profile = strings.TrimSpace(getEnvOrDefault("S3_PROFILE", c.S3.Profile))
	if v := os.Getenv("S3_USE_PATH_STYLE"); v != "" {
		c.S3.UsePathStyle = strings.EqualFold(strings.TrimSpace(v), "true")
	}

	c.Queue.Backend = strings.ToLower(getEnvOrDefault("QUEUE_BACKEND", c.Queue.Backend))
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Queue.Kafka.Brokers = splitList(v)
	}
	c.Queue.Kafka.RequestTopic = getEnvOrDefault("KAFKA_REQUEST_TOPIC", c.Queue.Kafka.RequestTopic)
	c.Queue.Kafka.ResultTopic = getEnvOrDefault("KAFKA_RESULT_TOPIC", c.Queue.Kafka.ResultTopic)
	c.Queue.Kafka.ConsumerGroup = getEnvOrDefault("KAFKA_CONSUMER_GROUP", c.Queue.Kafka.ConsumerGroup)
	c.Queue.Redis.Addr = getEnvOrDefault("REDIS_ADDR", c.Queue.Redis.Addr)
	c.Queue.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", c.Queue.Redis.Password)
	c.Queue.Redis.DB = getEnvInt("REDIS_DB", c.Queue.Redis.DB)
	c.Queue.Redis.RequestList = getEnvOrDefault("REDIS_REQUEST_LIST", c.Queue.Redis.RequestList)
	c.Queue.Redis.ReplyTTL = getEnvDuration("REDIS_REPLY_TTL", c.Queue.Redis.ReplyTTL)

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.Pretty = b
		}
	}
}

// Validate rejects settings the pipeline cannot run with
func (c Config) Validate() error {
	var errs []error

	if c.Fetch.Timeout <= 0 {
		errs = append(errs, errors.New("fetch.timeout must be positive"))
	}
	switch c.Extract.Policy {
	case PolicyStrict, PolicyLenient:
	default:
		errs = append(errs, fmt.Errorf("extract.policy %q is not one of %s, %s", c.Extract.Policy, PolicyStrict, PolicyLenient))
	}
	if c.Extract.MinParagraphChars < 0 {
		errs = append(errs, errors.New("extract.minParagraphChars must not be negative"))
	}
	if c.Extract.MinArticleChars <= 0 {
		errs = append(errs, errors.New("extract.minArticleChars must be positive"))
	}
	if c.Normalize.MaxInputChars <= 0 {
		errs = append(errs, errors.New("normalize.maxInputChars must be positive"))
	}
	switch c.Summary.Profile {
	case ProfileAPI, ProfileShort:
	default:
		errs = append(errs, fmt.Errorf("summary.profile %q is not one of %s, %s", c.Summary.Profile, ProfileAPI, ProfileShort))
	}
	if b := c.SummaryBounds(); b.MinLength > b.MaxLength {
		errs = append(errs, fmt.Errorf("summary min length %d exceeds max length %d", b.MinLength, b.MaxLength))
	}
	switch c.Inference.Provider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderCohere, ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("unknown inference provider %q", c.Inference.Provider))
	}
	if c.Inference.Timeout <= 0 {
		errs = append(errs, errors.New("inference.timeout must be positive"))
	}
	switch c.Queue.Backend {
	case QueueRedis, QueueKafka:
	default:
		errs = append(errs, fmt.Errorf("queue.backend %q is not one of %s, %s", c.Queue.Backend, QueueRedis, QueueKafka))
	}

	return errors.Join(errs...)
}

// ParagraphThreshold resolves the effective paragraph filter length
func (c Config) ParagraphThreshold() int {
	if c.Extract.MinParagraphChars > 0 {
		return c.Extract.MinParagraphChars
	}
	if c.Extract.Policy == PolicyLenient {
		return LenientParagraphChars
	}
	return StrictParagraphChars
}

// SummaryBounds resolves the effective generation bounds
func (c Config) SummaryBounds() types.SummaryBounds {
	b := types.SummaryBounds{MaxLength: APISummaryMax, MinLength: APISummaryMin}
	if c.Summary.Profile == ProfileShort {
		b = types.SummaryBounds{MaxLength: ShortSummaryMax, MinLength: ShortSummaryMin}
	}
	if c.Summary.MaxLength > 0 {
		b.MaxLength = c.Summary.MaxLength
	}
	if c.Summary.MinLength > 0 {
		b.MinLength = c.Summary.MinLength
	}
	return b
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

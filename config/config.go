package config

// RateLimitConfig controls per-caller throttling of generation requests
type RateLimitConfig struct {
	MinIntervalSeconds int `json:"minIntervalSeconds"` // Minimum seconds between requests per caller
	Burst              int `json:"burst"`              // Requests allowed to start back-to-back
	TTLMinutes         int `json:"ttlMinutes"`         // Idle minutes before a caller's bucket is evicted
}

// Config structure
type Config struct {
	LLMProvider   string `json:"llmProvider"`   // "OpenAI" or any OpenAI-compatible provider
	APIKey        string `json:"apiKey"`        // Server-wide fallback LLM key
	BaseURL       string `json:"baseUrl"`       // LLM endpoint base URL
	ModelName     string `json:"modelName"`     // Chat model name
	ImageEndpoint string `json:"imageEndpoint"` // Image generation API URL (empty = default)
	ImageToken    string `json:"imageToken"`    // Server-wide fallback image token
	DataCacheDir  string `json:"dataCacheDir"`  // Storage dir for database and logs
	DetailedLog   bool   `json:"detailedLog"`   // Enable the file logger
	ListenAddr    string `json:"listenAddr"`    // HTTP listen address

	RateLimit RateLimitConfig `json:"rateLimit"`
}

// Defaults returns the configuration used before the user saves one.
func Defaults() Config {
	return Config{
		LLMProvider: "OpenAI",
		ModelName:   "gpt-4o",
		ListenAddr:  ":8080",
		RateLimit: RateLimitConfig{
			MinIntervalSeconds: 12,
			Burst:              1,
			TTLMinutes:         30,
		},
	}
}

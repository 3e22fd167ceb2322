package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	// Per prd001-scraping R5.1.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScrapeConfig holds settings for the scraping stage.
// Per prd001-scraping R2.2, R5.1-R5.4.
type ScrapeConfig struct {
	// HTTPConfig.Timeout applies to search-page requests (default 10s).
	HTTPConfig `yaml:",inline"`

	// DownloadTimeout is the per-PDF download timeout (default 30s).
	DownloadTimeout time.Duration `json:"download_timeout" yaml:"download_timeout"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// PapersDir is the directory raw PDFs and their sidecars are written to.
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`

	// MaxPerSource caps how many candidate links are taken from each
	// search page (default 5).
	MaxPerSource int `json:"max_per_source" yaml:"max_per_source"`
}

// ExtractConfig holds settings for the extraction stage.
// Per prd002-extraction R3.4.
type ExtractConfig struct {
	// Expansions maps a topic keyword to extra terms that also retain a
	// question when the keyword appears in the topic. The default maps
	// "algebra" to matrix, vector, equation, and system.
	Expansions map[string][]string `json:"expansions" yaml:"expansions"`
}

// EnhanceConfig holds settings for the LLM enhancement stage.
// Per prd003-enhancement R2.1-R2.4.
type EnhanceConfig struct {
	// Model is the chat-completion model identifier (default "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// BaseURL overrides the completion endpoint. Empty means the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// CallDelay is the pacing delay between consecutive completion calls
	// (default 500ms).
	CallDelay time.Duration `json:"call_delay" yaml:"call_delay"`

	// Timeout is the per-call HTTP timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// BankConfig holds settings for the question bank.
// Per prd004-question-bank R1.2, R2.3.
type BankConfig struct {
	// DBPath is the SQLite database path (default "data/index/questions.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// ResultsDir is the directory of extraction result JSON files to ingest
	// (default "outputs").
	ResultsDir string `json:"results_dir" yaml:"results_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all stage configurations.
type Config struct {
	Scrape  ScrapeConfig  `json:"scrape" yaml:"scrape"`
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Enhance EnhanceConfig `json:"enhance" yaml:"enhance"`
	Bank    BankConfig    `json:"bank" yaml:"bank"`
}

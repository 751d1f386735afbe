package config

import (
	"github.com/pders01/catalog-delta/internal/models"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CATDELTA_DATA_DIR
const EnvPrefix = "CATDELTA"

// File is the on-disk layout of config.toml
type File struct {
	Data       DataSection       `toml:"data"`
	Catalog    CatalogSection    `toml:"catalog"`
	Log        LogSection        `toml:"log"`
	Search     SearchSection     `toml:"search"`
	Embeddings EmbeddingsSection `toml:"embeddings"`
}

type DataSection struct {
	Dir       string `toml:"dir"`
	CacheSize int    `toml:"cache_size"`
}

type CatalogSection struct {
	DefaultVariant string `toml:"default_variant"`
}

type LogSection struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type SearchSection struct {
	Limit          int     `toml:"limit"`
	KeywordWeight  float64 `toml:"keyword_weight"`
	SemanticWeight float64 `toml:"semantic_weight"`
}

type EmbeddingsSection struct {
	Enabled   bool   `toml:"enabled"`
	Model     string `toml:"model"`
	OllamaURL string `toml:"ollama_url"`
	Dir       string `toml:"dir"`
}

// Default returns the built-in configuration
func Default() File {
	return File{
		Data:       DataSection{Dir: "data", CacheSize: 8},
		Catalog:    CatalogSection{DefaultVariant: string(models.VariantICD)},
		Log:        LogSection{Level: "warn", Format: "text"},
		Search:     SearchSection{Limit: 20, KeywordWeight: 0.3, SemanticWeight: 0.7},
		Embeddings: EmbeddingsSection{Enabled: false, Model: "nomic-embed-text", OllamaURL: "http://localhost:11434", Dir: "embeddings"},
	}
}

// SetDefaults registers the built-in configuration with viper
func SetDefaults() {
	d := Default()
	viper.SetDefault("data.dir", d.Data.Dir)
	viper.SetDefault("data.cache_size", d.Data.CacheSize)
	viper.SetDefault("catalog.default_variant", d.Catalog.DefaultVariant)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
	viper.SetDefault("search.limit", d.Search.Limit)
	viper.SetDefault("search.keyword_weight", d.Search.KeywordWeight)
	viper.SetDefault("search.semantic_weight", d.Search.SemanticWeight)
	viper.SetDefault("embeddings.enabled", d.Embeddings.Enabled)
	viper.SetDefault("embeddings.model", d.Embeddings.Model)
	viper.SetDefault("embeddings.ollama_url", d.Embeddings.OllamaURL)
	viper.SetDefault("embeddings.dir", d.Embeddings.Dir)
}

// GetDataDir returns the root directory of the catalog files
func GetDataDir() string {
	return viper.GetString("data.dir")
}

// GetCacheSize returns how many parsed snapshots are kept in memory
func GetCacheSize() int {
	return viper.GetInt("data.cache_size")
}

// GetDefaultVariant returns the variant used when --variant is not given
func GetDefaultVariant() models.Variant {
	v, err := models.ParseVariant(viper.GetString("catalog.default_variant"))
	if err != nil {
		return models.VariantICD
	}
	return v
}

func GetLogLevel() string {
	return viper.GetString("log.level")
}

func GetLogFormat() string {
	return viper.GetString("log.format")
}

// GetSearchLimit returns the default number of search hits
func GetSearchLimit() int {
	return viper.GetInt("search.limit")
}

func GetKeywordWeight() float64 {
	return viper.GetFloat64("search.keyword_weight")
}

func GetSemanticWeight() float64 {
	return viper.GetFloat64("search.semantic_weight")
}

// GetEmbeddingsEnabled reports whether semantic re-ranking is attempted
func GetEmbeddingsEnabled() bool {
	return viper.GetBool("embeddings.enabled")
}

func GetEmbeddingModel() string {
	return viper.GetString("embeddings.model")
}

func GetOllamaURL() string {
	return viper.GetString("embeddings.ollama_url")
}

// GetEmbeddingsDir returns the embedding cache directory, relative to the
// data directory unless absolute
func GetEmbeddingsDir() string {
	return viper.GetString("embeddings.dir")
}

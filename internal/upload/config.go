package upload

// Config holds the ingestion limits. It is passed to NewIngestor and never mutated.
type Config struct {
	UploadRoot         string
	MaxBytes           int64
	AcceptedMediaTypes []string
}

// DefaultMaxBytes is the default size ceiling (5 MiB)
const DefaultMaxBytes = 5 * 1024 * 1024

// DefaultConfig returns the stock configuration: ./uploads, 5 MiB, JPEG and PNG.
func DefaultConfig() Config {
	return Config{
		UploadRoot:         "uploads",
		MaxBytes:           DefaultMaxBytes,
		AcceptedMediaTypes: []string{"image/jpeg", "image/png"},
	}
}

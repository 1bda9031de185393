package pdfdeck

import (
	"os"
	"path/filepath"
)

// Config holds all configuration for the pdfdeck engine.
type Config struct {
	// DataDir is the directory holding the upload registry database and
	// the stored PDF/PPTX blobs. If empty, it is derived from StorageDir.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// StorageDir controls where DataDir is placed when it is not set
	// explicitly. Options: "home" (default) uses ~/.pdfdeck/, "local"
	// uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// MaxUploadBytes bounds the size of an accepted PDF upload.
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`

	// Extraction
	MaxPages int `json:"max_pages" yaml:"max_pages"` // pages read from the source PDF

	// Segmentation
	MaxChars       int `json:"max_chars" yaml:"max_chars"`             // characters of extracted text considered
	MaxSlides      int `json:"max_slides" yaml:"max_slides"`           // hard ceiling on generated slides
	IntroSentences int `json:"intro_sentences" yaml:"intro_sentences"` // sentences on the Introduction slide
	KeyPointItems  int `json:"key_point_items" yaml:"key_point_items"` // list items on the Key Points slide
	ChunkSize      int `json:"chunk_size" yaml:"chunk_size"`           // leftover sentences per Content slide
}

// DefaultConfig returns a Config with the stock pipeline limits.
// Data is stored in ~/.pdfdeck/ by default.
func DefaultConfig() Config {
	return Config{
		StorageDir:     "home",
		MaxUploadBytes: 10 << 20,
		MaxPages:       20,
		MaxChars:       20000,
		MaxSlides:      6,
		IntroSentences: 3,
		KeyPointItems:  5,
		ChunkSize:      4,
	}
}

// resolveDataDir computes the final data directory from config fields.
func (c *Config) resolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}

	switch c.StorageDir {
	case "local", "cwd":
		return ".pdfdeck"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return ".pdfdeck" // fallback to cwd
		}
		return filepath.Join(home, ".pdfdeck")
	}
}

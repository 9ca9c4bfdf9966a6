// Package catalog provides read-only keyed lookups over the file-backed
// bucket, profile and portfolio documents.
package catalog

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
)

// Bucket is one ESG/investment bucket option shown on the dashboard.
type Bucket struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Risk   float64 `json:"risk"`
	Return float64 `json:"return"`
	Esg    bool    `json:"esg"`
}

// Profile is one client profile document. The document shape is owned
// by whoever maintains the JSON files, so it stays schemaless here.
type Profile map[string]any

// Portfolio is one client portfolio document.
type Portfolio map[string]any

// Store holds the loaded documents. Documents are read once at
// construction; a missing or malformed file yields an empty set, not a
// startup failure.
type Store struct {
	buckets    []Bucket
	profiles   []Profile
	portfolios []Portfolio
}

// NewStore loads the three documents from the given paths.
func NewStore(bucketsPath, profilesPath, portfoliosPath string) *Store {
	s := &Store{}
	loadJSON(bucketsPath, &s.buckets)
	loadJSON(profilesPath, &s.profiles)
	loadJSON(portfoliosPath, &s.portfolios)

	log.Info().
		Int("buckets", len(s.buckets)).
		Int("profiles", len(s.profiles)).
		Int("portfolios", len(s.portfolios)).
		Msg("Catalog documents loaded")
	return s
}

func loadJSON(path string, out any) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Catalog file not found")
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Invalid catalog file")
	}
}

// Buckets returns all bucket options.
func (s *Store) Buckets() []Bucket {
	return s.buckets
}

// BucketByID returns the bucket with the given id.
func (s *Store) BucketByID(id int) (Bucket, bool) {
	for _, b := range s.buckets {
		if b.ID == id {
			return b, true
		}
	}
	return Bucket{}, false
}

// ProfileByName returns the profile whose nested profile.name matches.
func (s *Store) ProfileByName(name string) (Profile, bool) {
	for _, p := range s.profiles {
		inner, ok := p["profile"].(map[string]any)
		if !ok {
			continue
		}
		if inner["name"] == name {
			return p, true
		}
	}
	return nil, false
}

// PortfolioByID returns the portfolio with the given id.
func (s *Store) PortfolioByID(id string) (Portfolio, bool) {
	for _, p := range s.portfolios {
		if p["id"] == id {
			return p, true
		}
	}
	return nil, false
}

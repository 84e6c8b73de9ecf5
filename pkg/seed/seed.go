// Package seed provisions the knowledge-base indexes and writes the curated
// reference records the recommendation agents retrieve from.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/barekit/voyager/pkg/knowledge"
	"github.com/barekit/voyager/pkg/knowledge/jina"
	"github.com/barekit/voyager/pkg/planner"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Index names with no category pipeline attached. The expenses index exists
// for administrative data entry even though the expense agent never
// retrieves; destinations holds the curated destination catalog.
const (
	IndexExpenses     = "expenses"
	IndexDestinations = "destinations"
)

// IndexNames lists every index the service provisions.
func IndexNames() []string {
	return []string{
		planner.IndexHotels,
		planner.IndexTransport,
		planner.IndexPlaces,
		IndexExpenses,
		IndexDestinations,
	}
}

// Destination is one curated catalog entry.
type Destination struct {
	Name        string
	Latitude    float64
	Longitude   float64
	BestSeason  string
	Altitude    string
	KnownFor    []string
	Description string
}

// Catalog returns the fixed destination seed data.
func Catalog() []Destination {
	return []Destination{
		{
			Name:       "Kodaikanal",
			Latitude:   10.2381,
			Longitude:  77.4892,
			BestSeason: "October to March",
			Altitude:   "2133 meters",
			KnownFor:   []string{"Princess of Hill stations", "Pine forests", "Kurinji flowers"},
			Description: "Kodaikanal, known as the Princess of Hill stations, is a hill town in Tamil Nadu. " +
				"Famous for its pine forests, cool climate, and the star-shaped Kodaikanal Lake.",
		},
		{
			Name:       "Munnar",
			Latitude:   10.0889,
			Longitude:  77.0595,
			BestSeason: "September to May",
			Altitude:   "1600 meters",
			KnownFor:   []string{"Tea plantations", "Neelakurinji flowers", "Wildlife"},
			Description: "Munnar is a town in the Western Ghats mountain range in Kerala. A hill station " +
				"and former resort for the British Raj elite, it's surrounded by rolling hills dotted with tea plantations.",
		},
		{
			Name:       "Ooty",
			Latitude:   11.4102,
			Longitude:  76.6950,
			BestSeason: "October to June",
			Altitude:   "2240 meters",
			KnownFor:   []string{"Queen of hill stations", "Nilgiri Mountain Railway", "Botanical Gardens"},
			Description: "Ooty, also known as Udhagamandalam, is a hill station in Tamil Nadu. It is situated " +
				"at an altitude of 2,240 meters above sea level in the Nilgiri Hills.",
		},
	}
}

// DeterministicID derives a stable record id from a destination name, so
// reseeding overwrites instead of duplicating. UUIDv5 keeps the id acceptable
// to backends that only take UUID point ids.
func DeterministicID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("dest_"+strings.ToLower(name))).String()
}

// Seeder provisions indexes and writes curated records.
type Seeder struct {
	store    knowledge.Store
	embedder knowledge.Embedder
	logger   *zap.Logger
}

// NewSeeder wires a Seeder.
func NewSeeder(store knowledge.Store, embedder knowledge.Embedder, logger *zap.Logger) *Seeder {
	return &Seeder{
		store:    store,
		embedder: embedder,
		logger:   logger,
	}
}

// EnsureIndexes provisions every index name, returning the ones that did not
// exist before. Safe to call repeatedly.
func (s *Seeder) EnsureIndexes(ctx context.Context) ([]string, error) {
	var created []string
	for _, name := range IndexNames() {
		_, err := s.store.Stats(ctx, name)
		missing := errors.Is(err, knowledge.ErrIndexNotFound)
		if err != nil && !missing {
			return created, fmt.Errorf("failed to inspect index %q: %w", name, err)
		}

		if err := s.store.Ensure(ctx, name, jina.Dimension); err != nil {
			return created, fmt.Errorf("failed to ensure index %q: %w", name, err)
		}
		if missing {
			created = append(created, name)
		}
	}

	if len(created) > 0 {
		s.logger.Info("created indexes", zap.Strings("names", created))
	}
	return created, nil
}

// SeedDestinations writes the curated catalog into the destinations index
// under deterministic ids. Rerunning overwrites the same records.
func (s *Seeder) SeedDestinations(ctx context.Context) error {
	for _, dest := range Catalog() {
		description := richDescription(dest)

		vectors, err := s.embedder.Embed(ctx, []string{description})
		if err != nil {
			return fmt.Errorf("failed to embed %s: %w", dest.Name, err)
		}
		if len(vectors) == 0 {
			return fmt.Errorf("embedder returned no vector for %s", dest.Name)
		}

		metadata := map[string]interface{}{
			"name":                    dest.Name,
			"latitude":                dest.Latitude,
			"longitude":               dest.Longitude,
			"best_season":             dest.BestSeason,
			"altitude":                dest.Altitude,
			"known_for":               dest.KnownFor,
			knowledge.MetadataTextKey: description,
		}

		if err := s.store.Upsert(ctx, IndexDestinations, DeterministicID(dest.Name), vectors[0], metadata); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", dest.Name, err)
		}
		s.logger.Info("seeded destination", zap.String("name", dest.Name))
	}
	return nil
}

// AddRecord writes one ad hoc record under a fresh random id and returns the
// id. Repeating the call with identical content creates a second record.
func (s *Seeder) AddRecord(ctx context.Context, index, description string, metadata map[string]interface{}) (string, error) {
	if description == "" {
		return "", fmt.Errorf("description is required")
	}

	vectors, err := s.embedder.Embed(ctx, []string{description})
	if err != nil {
		return "", fmt.Errorf("failed to embed record: %w", err)
	}
	if len(vectors) == 0 {
		return "", fmt.Errorf("embedder returned no vector")
	}

	full := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		full[k] = v
	}
	full[knowledge.MetadataTextKey] = description

	id := uuid.NewString()
	if err := s.store.Upsert(ctx, index, id, vectors[0], full); err != nil {
		return "", fmt.Errorf("failed to upsert record: %w", err)
	}

	s.logger.Info("record added", zap.String("index", index), zap.String("id", id))
	return id, nil
}

func richDescription(d Destination) string {
	return fmt.Sprintf(`Destination: %s
Best Season: %s
Altitude: %s
Known For: %s
%s`, d.Name, d.BestSeason, d.Altitude, strings.Join(d.KnownFor, ", "), d.Description)
}

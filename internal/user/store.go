// Package user implements the per-user data surface: profile setup, daily
// metric updates, location, the lifestyle score and the generated advice.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chi-backend/internal/database"
	"chi-backend/internal/lifestyle"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var (
	queries *database.Queries

	// refTable is the recommendation data, loaded once at startup. The table
	// is static after seeding so no invalidation is needed.
	refTable lifestyle.ReferenceTable

	// store adapts the queries to the calculator's read interface.
	store lifestyle.RecordStore
)

// InitUserPackage wires the package to the pool and loads the recommendation
// table into memory.
func InitUserPackage(dbpool *pgxpool.Pool) error {
	queries = database.New(dbpool)
	store = &pgStore{q: queries}

	rows, err := queries.ListRecommendedRanges(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load recommendation table: %w", err)
	}

	refTable = make(lifestyle.ReferenceTable)
	for _, r := range rows {
		bucket := lifestyle.AgeBucket(r.AgeBucket)
		if refTable[bucket] == nil {
			refTable[bucket] = make(map[string]map[lifestyle.Category]lifestyle.Range)
		}
		if refTable[bucket][r.GenderKey] == nil {
			refTable[bucket][r.GenderKey] = make(map[lifestyle.Category]lifestyle.Range)
		}
		refTable[bucket][r.GenderKey][lifestyle.Category(r.Category)] = lifestyle.Range{
			Low:  r.LowVal,
			High: r.HighVal,
		}
	}

	log.Info().Int("rows", len(rows)).Msg("Recommendation table loaded")
	return nil
}

// pgStore is the Postgres-backed read side of the score calculator.
type pgStore struct {
	q *database.Queries
}

func (s *pgStore) Profile(ctx context.Context, uid string) (*lifestyle.UserProfile, error) {
	p, err := s.q.GetHealthProfile(ctx, uid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lifestyle.UserProfile{
		Birthday:   p.Birthday.Time,
		Gender:     lifestyle.Gender(p.UserGender),
		HeightFeet: p.HeightFt,
		WeightLbs:  p.WeightLbs,
	}, nil
}

func (s *pgStore) Record(ctx context.Context, uid string, date time.Time) (*lifestyle.DailyRecord, error) {
	r, err := s.q.GetDailyRecord(ctx, uid, date)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lifestyle.DailyRecord{
		Date:          r.RecordDate.Time,
		WaterOz:       r.WaterOz,
		SleepHours:    r.SleepHours,
		ExerciseHours: r.ExerciseHours,
		Journal:       r.Journal,
	}, nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"opoboost_backend/internal/config"
	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"
	"opoboost_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const statsCacheTTL = 5 * time.Minute

// UserStats is the aggregated progress picture for one user. Counts are
// taken over the newest attempt of each distinct test, so retaking a test
// replaces its contribution instead of adding to it.
type UserStats struct {
	TotalAttempts  int     `json:"totalAttempts"`
	CorrectTotal   int     `json:"correct"`
	IncorrectTotal int     `json:"incorrect"`
	SimulacroCount int     `json:"simulacroCount"`
	ApprovedTests  int     `json:"approvedTests"`
	EligibleTests  int     `json:"eligibleTests"`
	Progress       float64 `json:"progress"`
	AverageScore   float64 `json:"averageScore"`
}

// CategoryTestStat is one definition's standing for a user inside a category.
type CategoryTestStat struct {
	TestDefinition model.TestDefinition `json:"testDef"`
	Attempts       int                  `json:"attempts"`
	HighestScore   float64              `json:"highestScore"`
	Approved       bool                 `json:"approved"`
}

// CategorySummary bundles the per-definition standings with the category
// completion percentage.
type CategorySummary struct {
	Tests    []CategoryTestStat `json:"tests"`
	Progress float64            `json:"progress"`
}

type StatsService struct {
	AttemptRepo  *repository.AttemptRepository
	TestDefRepo  *repository.TestDefinitionRepository
	CategoryRepo *repository.CategoryRepository
	Redis        *redis.Client
	Cfg          *config.Config
}

func NewStatsService(attemptRepo *repository.AttemptRepository, testDefRepo *repository.TestDefinitionRepository, categoryRepo *repository.CategoryRepository, rdb *redis.Client, cfg *config.Config) *StatsService {
	return &StatsService{
		AttemptRepo:  attemptRepo,
		TestDefRepo:  testDefRepo,
		CategoryRepo: categoryRepo,
		Redis:        rdb,
		Cfg:          cfg,
	}
}

func statsCacheKey(userID uint) string {
	return fmt.Sprintf("stats:user:%d", userID)
}

// InvalidateUser drops the cached stats after a new submission.
func (s *StatsService) InvalidateUser(userID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), statsCacheKey(userID)).Err(); err != nil {
		logger.Log.Warn("stats cache invalidation failed",
			zap.Uint("userId", userID),
			zap.Error(err))
	}
}

// reservedCategoryID resolves the simulacro category; 0 when it is missing,
// which simply means no definition gets excluded on that account.
func (s *StatsService) reservedCategoryID() uint {
	category, err := s.CategoryRepo.FindByName(s.Cfg.Simulacro.CategoryName)
	if err != nil {
		return 0
	}
	return category.ID
}

// ComputeStats builds the user's progress summary. Only the newest attempt
// per definition counts, attempts whose definition was deleted are dropped,
// and generated simulacros never move the progress bar.
func (s *StatsService) ComputeStats(userID uint) (*UserStats, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(context.Background(), statsCacheKey(userID)).Result()
		if err == nil {
			var stats UserStats
			if jerr := json.Unmarshal([]byte(cached), &stats); jerr == nil {
				return &stats, nil
			}
		}
	}

	attempts, err := s.AttemptRepo.ListByUser(userID, 0)
	if err != nil {
		return nil, err
	}

	reservedID := s.reservedCategoryID()
	stats := &UserStats{}
	seen := make(map[uint]bool)
	var latestScoreSum float64
	var latestCount int

	for _, attempt := range attempts {
		// Preload yields nil for soft-deleted definitions; those attempts
		// are orphans and do not count.
		if attempt.TestDefinition == nil {
			continue
		}

		// Attempts come newest first, so the first one per definition is
		// the one that counts. Retakes of the same test never add up.
		def := attempt.TestDefinition
		if seen[def.ID] {
			continue
		}
		seen[def.ID] = true

		stats.TotalAttempts++
		stats.CorrectTotal += attempt.Correct
		stats.IncorrectTotal += attempt.Incorrect

		if def.IsTemporary || def.CategoryID == reservedID {
			stats.SimulacroCount++
			continue
		}

		latestScoreSum += attempt.Score
		latestCount++
		if attempt.Score >= 5 {
			stats.ApprovedTests++
		}
	}

	eligible, err := s.TestDefRepo.CountEligible(reservedID)
	if err != nil {
		return nil, err
	}
	stats.EligibleTests = int(eligible)

	if stats.EligibleTests > 0 {
		stats.Progress = util.Round2(float64(stats.ApprovedTests) / float64(stats.EligibleTests) * 100)
		if stats.Progress > 100 {
			stats.Progress = 100
		}
	}
	if latestCount > 0 {
		stats.AverageScore = util.Round2(latestScoreSum / float64(latestCount))
	}

	if s.Redis != nil {
		if payload, jerr := json.Marshal(stats); jerr == nil {
			s.Redis.Set(context.Background(), statsCacheKey(userID), payload, statsCacheTTL)
		}
	}
	return stats, nil
}

// CategoryStats reports the user's standing on every definition of one
// category: attempt count, highest score, and the share of definitions the
// user has passed at least once.
func (s *StatsService) CategoryStats(userID, categoryID uint) (*CategorySummary, error) {
	defs, err := s.TestDefRepo.ListByCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return &CategorySummary{Tests: []CategoryTestStat{}}, nil
	}

	defIDs := make([]uint, 0, len(defs))
	for _, def := range defs {
		defIDs = append(defIDs, def.ID)
	}
	attempts, err := s.AttemptRepo.ListByUserAndDefinitions(userID, defIDs)
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int)
	highest := make(map[uint]float64)
	for _, attempt := range attempts {
		counts[attempt.TestDefinitionID]++
		if attempt.Score > highest[attempt.TestDefinitionID] {
			highest[attempt.TestDefinitionID] = attempt.Score
		}
	}

	summary := &CategorySummary{Tests: make([]CategoryTestStat, 0, len(defs))}
	approved := 0
	for _, def := range defs {
		stat := CategoryTestStat{
			TestDefinition: def,
			Attempts:       counts[def.ID],
			HighestScore:   highest[def.ID],
			Approved:       highest[def.ID] >= 5,
		}
		if stat.Approved {
			approved++
		}
		summary.Tests = append(summary.Tests, stat)
	}
	summary.Progress = math.Round(float64(approved) / float64(len(defs)) * 100)
	return summary, nil
}

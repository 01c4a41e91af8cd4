package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"opoboost_backend/internal/config"
	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/pkg/database"
	"opoboost_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Simulacro.CategoryName = "Simulacros Generales"
	cfg.Simulacro.DefaultLimit = 10
	return cfg
}

// newTestDB opens a fresh in-memory database migrated with the full schema,
// including the seeded simulacro category.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db, testConfig()))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedQuestion(t *testing.T, db *gorm.DB, correct int, validated bool) *model.Question {
	t.Helper()
	question := &model.Question{
		Text: fmt.Sprintf("pregunta %d", time.Now().UnixNano()),
		Options: model.OptionList{
			{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"},
		},
		Correct:   correct,
		Validated: validated,
	}
	require.NoError(t, db.Create(question).Error)
	return question
}

func seedQuestions(t *testing.T, db *gorm.DB, n int, validated bool) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, seedQuestion(t, db, 0, validated).ID)
	}
	return ids
}

func seedDefinition(t *testing.T, db *gorm.DB, categoryID uint, title string, temporary bool, questionIDs []uint) *model.TestDefinition {
	t.Helper()
	repo := repository.NewTestDefinitionRepository(db)
	def := &model.TestDefinition{
		CategoryID:  categoryID,
		Title:       title,
		IsTemporary: temporary,
	}
	require.NoError(t, repo.CreateWithQuestions(def, questionIDs))
	return def
}

func newTestServices(t *testing.T, db *gorm.DB) (*TestService, *StatsService, *AttemptService) {
	t.Helper()
	cfg := testConfig()
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	testDefRepo := repository.NewTestDefinitionRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	userService := NewUserService(userRepo, categoryRepo)
	pool := NewPoolService(questionRepo, testDefRepo, attemptRepo)
	testService := NewTestService(db, testDefRepo, questionRepo, categoryRepo, pool, userService, cfg)
	statsService := NewStatsService(attemptRepo, testDefRepo, categoryRepo, nil, cfg)
	attemptService := NewAttemptService(attemptRepo, testDefRepo, statsService)
	return testService, statsService, attemptService
}

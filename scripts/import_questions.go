// Bulk question import script.
//
// Reads a YAML file of questions and loads them into an existing test, in
// file order, after whatever the test already contains. Meant for first
// deployments and for migrating question banks from other tools.
//
// Usage: go run scripts/import_questions.go <questions.yaml> <testID>

package main

import (
	"log"
	"os"
	"strconv"

	"opoboost_backend/internal/config"
	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/service"
	"opoboost_backend/pkg/database"
	"opoboost_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

type importFile struct {
	Questions []struct {
		Text       string   `yaml:"text"`
		Options    []string `yaml:"options"`
		Correct    int      `yaml:"correct"`
		Topic      string   `yaml:"topic"`
		TopicTitle string   `yaml:"topicTitle"`
		Validated  bool     `yaml:"validated"`
	} `yaml:"questions"`
}

func main() {
	if len(os.Args) != 3 {
		log.Fatal("usage: go run scripts/import_questions.go <questions.yaml> <testID>")
	}

	testID, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil {
		log.Fatalf("invalid test id %q: %v", os.Args[2], err)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("cannot read questions file: %v", err)
	}
	var file importFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		log.Fatalf("cannot parse questions file: %v", err)
	}
	if len(file.Questions) == 0 {
		log.Fatal("the file contains no questions")
	}

	questions := make([]model.Question, 0, len(file.Questions))
	for _, q := range file.Questions {
		options := make(model.OptionList, 0, len(q.Options))
		for _, text := range q.Options {
			options = append(options, model.Option{Text: text})
		}
		questions = append(questions, model.Question{
			Text:       q.Text,
			Options:    options,
			Correct:    q.Correct,
			Topic:      q.Topic,
			TopicTitle: q.TopicTitle,
			Validated:  q.Validated,
		})
	}

	cfgData, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config: %v", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("cannot parse config: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	questionRepo := repository.NewQuestionRepository(db)
	testDefRepo := repository.NewTestDefinitionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	pool := service.NewPoolService(questionRepo, testDefRepo, repository.NewAttemptRepository(db))
	userService := service.NewUserService(repository.NewUserRepository(db), categoryRepo)
	testService := service.NewTestService(db, testDefRepo, questionRepo, categoryRepo, pool, userService, &cfg)

	if _, err := testService.ImportQuestions(uint(testID), questions); err != nil {
		log.Fatalf("import failed: %v", err)
	}

	log.Printf("imported %d questions into test %d", len(questions), testID)
}

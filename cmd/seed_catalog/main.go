package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"examcraft/internal/config"
	"examcraft/internal/database"
	"examcraft/internal/domain"
	"examcraft/internal/logger"
	"examcraft/internal/repository"

	"go.uber.org/zap"
)

const defaultSeedFilePath = "config/seed_data/exam_catalog.json"

type seedExam struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
}

func main() {
	seedFilePath := flag.String("file", defaultSeedFilePath, "path to the catalog seed file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting exam catalog seeding", zap.String("path", *seedFilePath))
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	byteValue, err := os.ReadFile(*seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFilePath), zap.Error(err))
	}

	var seedExams []seedExam
	if err := json.Unmarshal(byteValue, &seedExams); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("exams", len(seedExams)))

	catalogRepo := repository.NewCatalogDatabaseAdapter(db)
	for _, se := range seedExams {
		if err := seedOne(ctx, catalogRepo, se); err != nil {
			log.Error("Failed to seed exam", zap.String("exam", se.Name), zap.Error(err))
			continue
		}
		log.Info("Seeded exam", zap.String("exam", se.Name), zap.Int("topics", len(se.Topics)))
	}
	log.Info("Exam catalog seeding completed")
}

// seedOne inserts the exam and any topics it does not have yet. Re-running
// the seeder against an existing catalog is safe.
func seedOne(ctx context.Context, repo domain.CatalogRepository, se seedExam) error {
	exam, err := repo.GetExamByName(ctx, se.Name)
	if err != nil {
		return err
	}
	if exam == nil {
		exam = &domain.Exam{Name: se.Name, Description: se.Description}
		if err := repo.CreateExam(ctx, exam); err != nil {
			return err
		}
	}

	existing, err := repo.GetTopicsByExamID(ctx, exam.ID)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t.Name] = true
	}

	for _, name := range se.Topics {
		if have[name] {
			continue
		}
		topic := &domain.Topic{ExamID: exam.ID, Name: name}
		if err := repo.CreateTopic(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

// Command seedcatalog upserts modules and lessons from a YAML curriculum file.
//
//	seedcatalog -file curriculum.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/mentorship-backend/internal/app"
	"github.com/yungbote/mentorship-backend/internal/data/db"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
	"github.com/yungbote/mentorship-backend/internal/services"
)

type seedFile struct {
	Modules []services.ModuleSeed `yaml:"modules"`
}

func main() {
	path := flag.String("file", "curriculum.yaml", "path to the curriculum YAML file")
	flag.Parse()

	_ = godotenv.Load()
	mode := os.Getenv("LOG_MODE")
	if mode == "" {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(context.Background(), log, *path); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, path string) error {
	seeds, err := readSeeds(path)
	if err != nil {
		return err
	}

	cfg := app.LoadConfig()
	pg, err := db.NewPostgresService(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer pg.Close()
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		return err
	}

	catalog := services.NewCatalogService(log, db.NewTxRunner(pg.DB()), repos.NewModuleRepo(pg.DB(), log), repos.NewLessonRepo(pg.DB(), log))
	stats, err := catalog.Import(ctx, seeds)
	if err != nil {
		return err
	}
	fmt.Printf("modules: %d created, %d updated; lessons: %d created, %d updated\n",
		stats.ModulesCreated, stats.ModulesUpdated, stats.LessonsCreated, stats.LessonsUpdated)
	return nil
}

func readSeeds(path string) ([]services.ModuleSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Modules) == 0 {
		return nil, fmt.Errorf("%s has no modules", path)
	}
	return f.Modules, nil
}

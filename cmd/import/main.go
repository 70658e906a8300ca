package main

import (
	"flag"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zlatoverst/fireboard-import/internal/config"
	"github.com/zlatoverst/fireboard-import/internal/importer"
	kunenarepo "github.com/zlatoverst/fireboard-import/internal/repository/kunena"
	"github.com/zlatoverst/fireboard-import/internal/target"
	"github.com/zlatoverst/fireboard-import/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	dryRun := flag.Bool("dry-run", false, "show what would be imported without executing")
	batchSize := flag.Int("batch-size", 0, "override post batch size")
	stage := flag.String("target", "all", "stage to run: users, categories, posts or all")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	if loaded := config.LoadDotEnv(); len(loaded) == 0 {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *batchSize > 0 {
		cfg.Import.BatchSize = *batchSize
	}

	logger.InitStructured(os.Getenv("APP_ENV"))

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	repos := importer.Repos{
		Users:       kunenarepo.NewUserRepository(db, cfg.Source.Prefix),
		Profiles:    kunenarepo.NewProfileRepository(db, cfg.Source.Prefix),
		Categories:  kunenarepo.NewCategoryRepository(db, cfg.Source.Prefix),
		Messages:    kunenarepo.NewMessageRepository(db, cfg.Source.Prefix, cfg.Source.ParentField),
		Attachments: kunenarepo.NewAttachmentRepository(db, cfg.Source.Prefix),
	}

	if *dryRun {
		runDryRun(repos)
		return
	}

	sink, err := target.NewFileSink(cfg.Uploads.SinkDir)
	if err != nil {
		log.Fatalf("Failed to open sink directory: %v", err)
	}
	defer sink.Close()

	start := time.Now()
	if err := importer.New(cfg, repos, sink).Run(*stage); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Import completed in %v", time.Since(start))
}

func runDryRun(repos importer.Repos) {
	if count, err := repos.Users.Count(); err != nil {
		log.Printf("[dry-run:users] count failed: %v", err)
	} else {
		log.Printf("[dry-run:users] %d account rows to merge", count)
	}

	if rows, err := repos.Categories.FindAllOrdered(); err != nil {
		log.Printf("[dry-run:categories] query failed: %v", err)
	} else {
		log.Printf("[dry-run:categories] %d categories to import", len(rows))
	}

	if count, err := repos.Messages.Count(); err != nil {
		log.Printf("[dry-run:posts] count failed: %v", err)
	} else {
		log.Printf("[dry-run:posts] %d posts to import", count)
	}
}

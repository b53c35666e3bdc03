package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"opsboard/internal/config"
	"opsboard/internal/notify"
	"opsboard/internal/repository"
	"opsboard/internal/service"
)

func main() {
	exportZip := pflag.String("export-zip", "", "write all tables as a CSV zip bundle to the given file")
	exportXLSX := pflag.String("export-xlsx", "", "write all tables as an Excel workbook to the given file")
	importFiles := pflag.StringSlice("import", nil, "import .csv or .xlsx files (best effort, repeatable)")
	reset := pflag.Bool("reset", false, "delete the database file and reinitialize the schema (irreversible)")
	digest := pflag.Bool("digest", false, "print the daily digest and exit")
	seedRegions := pflag.Bool("seed-regions", false, "insert any missing default Ghana regions")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var db *gorm.DB
	if *reset {
		db, err = repository.Reset(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("reset: %v", err)
		}
		log.Println("Database reset. Default industries re-seeded.")
	} else {
		db, err = repository.NewDB(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	industryRepo := repository.NewIndustryRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	clientRepo := repository.NewClientRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	regionSvc := service.NewRegionService(regionRepo)
	analyticsSvc := service.NewAnalyticsService(taskRepo, clientRepo, regionRepo, industryRepo)
	transferSvc := service.NewTransferService(industryRepo, regionRepo, clientRepo, taskRepo)
	digestSvc := service.NewDigestService(analyticsSvc, taskRepo)

	if *seedRegions {
		added, err := regionSvc.SeedDefaults(ctx)
		if err != nil {
			log.Fatalf("seed regions: %v", err)
		}
		log.Printf("Seeded %d region(s).", added)
	}

	ran := *reset || *seedRegions

	if *exportZip != "" {
		if err := exportTo(ctx, *exportZip, transferSvc.ExportCSVZip); err != nil {
			log.Fatalf("export zip: %v", err)
		}
		log.Printf("Exported CSV bundle to %s.", *exportZip)
		ran = true
	}
	if *exportXLSX != "" {
		if err := exportTo(ctx, *exportXLSX, transferSvc.ExportWorkbook); err != nil {
			log.Fatalf("export xlsx: %v", err)
		}
		log.Printf("Exported workbook to %s.", *exportXLSX)
		ran = true
	}
	if len(*importFiles) > 0 {
		report := importAll(ctx, transferSvc, *importFiles)
		fmt.Println(report.String())
		ran = true
	}
	if *digest {
		text, err := digestSvc.DailyDigest(ctx, time.Now())
		if err != nil {
			log.Fatalf("digest: %v", err)
		}
		fmt.Println(text)
		ran = true
	}
	if ran {
		return
	}

	if cfg.DigestEnabled() {
		runDigestLoop(ctx, cfg, digestSvc)
		return
	}

	summary, err := analyticsSvc.Summary(ctx, time.Now())
	if err != nil {
		log.Fatalf("summary: %v", err)
	}
	fmt.Printf("Tasks: %d total, %d completed, %d in progress, %d overdue\n",
		summary.Total, summary.Completed, summary.InProgress, summary.Overdue)
}

func exportTo(ctx context.Context, path string, write func(context.Context, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(ctx, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func importAll(ctx context.Context, transferSvc *service.TransferService, paths []string) service.ImportReport {
	var report service.ImportReport
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			log.Printf("import %s: %v", path, err)
			continue
		}
		name := filepath.Base(path)
		var partial service.ImportReport
		if strings.HasSuffix(strings.ToLower(name), ".xlsx") {
			partial, err = transferSvc.ImportWorkbook(ctx, f)
		} else {
			partial, err = transferSvc.ImportCSV(ctx, name, f)
		}
		f.Close()
		if err != nil {
			log.Printf("import %s: %v", path, err)
			continue
		}
		report.Merge(partial)
	}
	return report
}

func runDigestLoop(ctx context.Context, cfg config.Config, digestSvc *service.DigestService) {
	notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.DigestChatIDs, digestSvc)
	if err != nil {
		log.Fatalf("notifier: %v", err)
	}

	job := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := notifier.SendDailyDigest(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("digest: %v", err)
		}
	}

	scheduler := service.NewScheduler(time.Local)
	if cfg.DigestAt != "" {
		_, err = scheduler.DailyAt(cfg.DigestAt, job)
	} else {
		_, err = scheduler.Every(cfg.DigestInterval, job)
	}
	if err != nil {
		log.Fatalf("schedule digest: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Digest scheduler started.")
	<-ctx.Done()
	log.Println("Shutdown complete.")
}

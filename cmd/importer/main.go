// Command importer creates the initial accounts and stations and loads the
// historical reports from a YAML file.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/juniu86/rr-guanabara/internal/domain/catalog"
	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/importer"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/database"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

//go:embed data/initial_reports.yaml
var initialReports []byte

var (
	reportsFile = flag.String("file", "", "YAML file with legacy reports (defaults to the bundled initial reports)")
	usersOnly   = flag.Bool("users-only", false, "only seed accounts, skip the reports")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Printf("no .env file loaded: %v\n", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.SetupLogger(logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel}); err != nil {
		fmt.Printf("failed to set up logger: %v\n", err)
		os.Exit(1)
	}

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		logger.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Migrate(cfg.DBMigrationMode); err != nil {
		logger.Error("migration failed: %v", err)
		os.Exit(1)
	}

	repo := repository.New(pool.GetDB())
	im := importer.New(repo, services.NewAuthService(repo, cfg), cfg.ReportLocation())
	ctx := context.Background()

	var summary importer.Summary
	if err := im.SeedUsers(ctx, userSeeds(cfg), &summary); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	if !*usersOnly {
		doc, err := readReports()
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		if err := im.ImportReports(ctx, doc, &summary); err != nil {
			logger.Error("import failed: %v", err)
			os.Exit(1)
		}
	}

	logger.Info("done: users=%d stations=%d maintenances=%d items=%d skipped=%d",
		summary.UsersCreated, summary.StationsCreated, summary.Maintenances, summary.Items, summary.Skipped)
}

func readReports() (*catalog.LegacyReports, error) {
	var r io.Reader = bytes.NewReader(initialReports)
	if *reportsFile != "" {
		f, err := os.Open(*reportsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return catalog.DecodeLegacyReports(r)
}

// userSeeds lists one account per role. An account is only created when its
// password variable is set.
func userSeeds(cfg *config.Config) []importer.UserSeed {
	return []importer.UserSeed{
		{Username: "admin", Name: "Administrador", Password: cfg.DefaultAdminPassword, Role: models.RoleAdmin},
		{Username: "gestor", Name: "Gestor RR", Password: os.Getenv("SEED_RR_ADMIN_PASSWORD"), Role: models.RoleRRAdmin},
		{Username: "tecnico", Name: "Técnico RR Engenharia", Password: os.Getenv("SEED_TECNICO_PASSWORD"), Role: models.RoleTecnico},
		{Username: "guanabara", Name: "Posto Guanabara", Password: os.Getenv("SEED_GUANABARA_PASSWORD"), Role: models.RoleGuanabara},
	}
}

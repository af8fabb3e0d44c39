// seed carga un catálogo de demostración (categorías y repuestos) en PostgreSQL.
//
// Uso: go run ./cmd/seed
// Usa la misma configuración que la API (DATABASE_URL / DB_*). Es idempotente:
// omite categorías y números de parte que ya existen.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/application/usecase"
	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/postgres"
	"github.com/jhoicas/autoparts-api/pkg/config"
	"github.com/jhoicas/autoparts-api/pkg/logger"
)

type seedPart struct {
	category   string
	partNumber string
	name       string
	brand      string
	cost       string
	price      string
	quantity   int64
	minStock   int64
}

var seedCategories = []dto.CreateCategoryRequest{
	{Name: "Frenos", Description: "Pastillas, discos y líquido de frenos"},
	{Name: "Filtros", Description: "Filtros de aceite, aire y combustible"},
	{Name: "Suspensión", Description: "Amortiguadores, rótulas y bujes"},
	{Name: "Eléctrico", Description: "Baterías, bujías y alternadores"},
}

var seedParts = []seedPart{
	{"frenos", "BRK-PAD-001", "Pastillas de freno delanteras", "Bosch", "45000", "72000", 24, 5},
	{"frenos", "BRK-DSC-014", "Disco de freno ventilado", "Brembo", "120000", "185000", 6, 4},
	{"filtros", "FLT-OIL-220", "Filtro de aceite", "Mann", "12000", "21000", 3, 10},
	{"filtros", "FLT-AIR-310", "Filtro de aire", "Mann", "18000", "30000", 0, 5},
	{"suspension", "SUS-SHK-105", "Amortiguador trasero", "Monroe", "150000", "235000", 8, 2},
	{"electrico", "ELE-SPK-044", "Bujía iridio", "NGK", "22000", "38000", 40, 12},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	partUC := usecase.NewPartUseCase(postgres.NewPartRepository(pool), categoryRepo, nil)

	slugToID := map[string]string{}
	existing, err := categoryUC.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar categorías")
	}
	for _, c := range existing {
		slugToID[c.Slug] = c.ID
	}
	for _, in := range seedCategories {
		slug := usecase.Slugify(in.Name)
		if _, ok := slugToID[slug]; ok {
			continue
		}
		c, err := categoryUC.Create(ctx, in)
		if err != nil {
			log.Fatal().Err(err).Str("category", in.Name).Msg("crear categoría")
		}
		slugToID[c.Slug] = c.ID
	}

	created := 0
	for _, p := range seedParts {
		minStock := p.minStock
		_, err := partUC.Create(ctx, "seed", dto.CreatePartRequest{
			PartNumber:    p.partNumber,
			Name:          p.name,
			Brand:         p.brand,
			CategoryID:    slugToID[p.category],
			CostPrice:     decimal.RequireFromString(p.cost),
			SellingPrice:  decimal.RequireFromString(p.price),
			TaxPercentage: decimal.NewFromInt(19),
			Quantity:      p.quantity,
			MinStockLevel: &minStock,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("part_number", p.partNumber).Msg("crear repuesto")
		}
		created++
	}
	log.Info().Int("categories", len(slugToID)).Int("parts_created", created).Msg("catálogo de demostración cargado")
}

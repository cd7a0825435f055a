// Command seed loads a small set of sample apartments and contacts into an
// empty database. Tables that already hold rows are left alone.
package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/rental-backend/internal/apartment"
	"github.com/nekogravitycat/rental-backend/internal/config"
	"github.com/nekogravitycat/rental-backend/internal/contact"
	"github.com/nekogravitycat/rental-backend/internal/db"
	"github.com/nekogravitycat/rental-backend/internal/logging"
	"github.com/nekogravitycat/rental-backend/internal/pkg/money"
)

var sampleApartments = []apartment.CreateRequest{
	{Title: "Apto Aconchegante Centro", City: "Bauru", State: "SP", MaxGuests: 4, DailyRate: money.MustParse("150.00")},
	{Title: "Cobertura Vista Mar", City: "Santos", State: "SP", MaxGuests: 6, DailyRate: money.MustParse("350.00")},
	{Title: "Casa de Campo Tranquila", City: "Botucatu", State: "SP", MaxGuests: 8, DailyRate: money.MustParse("280.00")},
	{Title: "Studio Moderno Vila Mariana", City: "São Paulo", State: "SP", MaxGuests: 2, DailyRate: money.MustParse("180.00")},
	{Title: "Flat Executivo Itaim", City: "São Paulo", State: "SP", MaxGuests: 3, DailyRate: money.MustParse("220.00")},
}

func str(s string) *string { return &s }

var sampleContacts = []contact.CreateRequest{
	{Name: "João Silva", Email: "joao.silva@example.com", Phone: str("14999998888"), Type: contact.TypeIndividual, Document: str("123.456.789-00")},
	{Name: "Maria Oliveira", Email: "maria.oliveira@example.com", Phone: str("11988887777"), Type: contact.TypeIndividual, Document: str("987.654.321-00")},
	{Name: "Empresa X Soluções", Email: "contato@empresax.com", Phone: str("1432225555"), Type: contact.TypeOrganization, Document: str("12.345.678/0001-99")},
	{Name: "Pedro Martins", Email: "pedro.martins@example.com", Phone: str("21977776666"), Type: contact.TypeIndividual, Document: str("456.123.789-01")},
	{Name: "Ana Costa", Email: "ana.costa@example.com", Phone: str("14966665555"), Type: contact.TypeIndividual, Document: str("789.123.456-02")},
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.IsProduction)

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatalf("failed to migrate db: %v", err)
	}

	if err := seedApartments(ctx, apartment.NewService(apartment.NewPgxRepository(pool)), logger); err != nil {
		logger.Fatalf("failed to seed apartments: %v", err)
	}
	if err := seedContacts(ctx, contact.NewService(contact.NewPgxRepository(pool)), logger); err != nil {
		logger.Fatalf("failed to seed contacts: %v", err)
	}
}

func seedApartments(ctx context.Context, svc apartment.Service, logger *logrus.Logger) error {
	_, total, err := svc.List(ctx, apartment.Filter{Page: 1, PageSize: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		logger.Info("apartments table already has data, skipping seed")
		return nil
	}

	for _, req := range sampleApartments {
		if _, err := svc.Create(ctx, req); err != nil {
			return err
		}
	}
	logger.WithField("count", len(sampleApartments)).Info("apartments seeded")
	return nil
}

func seedContacts(ctx context.Context, svc contact.Service, logger *logrus.Logger) error {
	_, total, err := svc.List(ctx, contact.Filter{Page: 1, PageSize: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		logger.Info("contacts table already has data, skipping seed")
		return nil
	}

	for _, req := range sampleContacts {
		if _, err := svc.Create(ctx, req); err != nil {
			return err
		}
	}
	logger.WithField("count", len(sampleContacts)).Info("contacts seeded")
	return nil
}

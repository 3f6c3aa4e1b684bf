// seed populates the database with the district office's reference data:
// the admin directory, the representative bio, the bill catalog, and sample
// projects and updates. Safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	admindomain "constituent-connect/backend/internal/admin/domain"
	adminrepo "constituent-connect/backend/internal/admin/repository"
	billsdomain "constituent-connect/backend/internal/bills/domain"
	billsrepo "constituent-connect/backend/internal/bills/repository"
	"constituent-connect/backend/internal/config"
	"constituent-connect/backend/internal/db"
	projectsdomain "constituent-connect/backend/internal/projects/domain"
	projectsrepo "constituent-connect/backend/internal/projects/repository"
	repsdomain "constituent-connect/backend/internal/representative/domain"
	repsrepo "constituent-connect/backend/internal/representative/repository"
	updatesdomain "constituent-connect/backend/internal/updates/domain"
	updatesrepo "constituent-connect/backend/internal/updates/repository"
)

func main() {
	adminPhones := flag.String("admin-phones", os.Getenv("SEED_ADMIN_PHONES"), "comma-separated admin phone numbers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal("config:", err)
	}
	if cfg.DatabaseURL == "" {
		fatal("DATABASE_URL is not set", nil)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		fatal("open database:", err)
	}
	defer database.Close()

	ctx := context.Background()

	if err := seedAdmins(ctx, adminrepo.NewPostgresRepository(database), *adminPhones); err != nil {
		fatal("seed admins:", err)
	}
	if err := seedRepresentative(ctx, repsrepo.NewPostgresRepository(database)); err != nil {
		fatal("seed representative:", err)
	}
	if err := seedBills(ctx, billsrepo.NewPostgresRepository(database)); err != nil {
		fatal("seed bills:", err)
	}
	if err := seedProjects(ctx, projectsrepo.NewPostgresRepository(database)); err != nil {
		fatal("seed projects:", err)
	}
	if err := seedUpdates(ctx, updatesrepo.NewPostgresRepository(database)); err != nil {
		fatal("seed updates:", err)
	}

	fmt.Println("seed complete")
}

func fatal(msg string, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, msg, err)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(1)
}

func seedAdmins(ctx context.Context, repo *adminrepo.PostgresRepository, phones string) error {
	for _, phone := range strings.Split(phones, ",") {
		phone = strings.TrimSpace(phone)
		if phone == "" {
			continue
		}
		existing, err := repo.GetByPhone(ctx, phone)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := repo.Create(ctx, &admindomain.Admin{
			ID:        uuid.New().String(),
			Name:      "District Office Staff",
			Phone:     phone,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
	}
	return nil
}

func seedRepresentative(ctx context.Context, repo *repsrepo.PostgresRepository) error {
	existing, err := repo.Get(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return repo.Put(ctx, &repsdomain.Representative{
		ID:        repsdomain.SingletonID,
		Name:      "Congressman Jimmy Fresnedi",
		Biography: "Congressman Jimmy Fresnedi has dedicated his career to public service, advocating for education, healthcare, and community development.",
		Committees: []string{
			"APPROPRIATIONS",
			"BASIC EDUCATION AND CULTURE",
			"GOVERNMENT ENTERPRISES AND PRIVATIZATION",
			"HUMAN RIGHTS",
			"JUSTICE",
			"LOCAL GOVERNMENT",
			"PUBLIC WORKS AND HIGHWAYS",
		},
		UpdatedAt: time.Now().UTC(),
	})
}

func seedBills(ctx context.Context, repo *billsrepo.PostgresRepository) error {
	for _, bill := range billCatalog() {
		existing, err := repo.GetByNumber(ctx, bill.BillNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		now := time.Now().UTC()
		bill.ID = uuid.New().String()
		bill.CreatedAt = now
		bill.UpdatedAt = now
		if err := repo.Create(ctx, &bill); err != nil {
			return err
		}
	}
	return nil
}

func billCatalog() []billsdomain.Bill {
	return []billsdomain.Bill{
		{
			BillNumber:   "HB00001",
			Title:        "AN ACT PROVIDING FOR GOVERNMENT FINANCIAL INSTITUTIONS UNIFIED INITIATIVES TO DISTRESSED ENTERPRISES FOR ECONOMIC RECOVERY (GUIDE)",
			Significance: "National",
			DateFiled:    "2022-06-30",
			PrincipalAuthors: []string{
				"Fresnedi, Jaime",
				"Romualdez, Ferdinand Martin G.",
				"Romualdez, Yedda Marie K.",
				"Marcos, Ferdinand Alexander A.",
				"Acidre, Jude A.",
			},
			DateRead:                  "2022-07-26",
			PrimaryReferral:           "BANKS AND FINANCIAL INTERMEDIARIES",
			DateApprovedSecondReading: "2022-12-07",
			DateTransmitted:           "2022-12-19",
			Status:                    "Approved by the House on 2022-12-15, transmitted to the Senate on 2022-12-19 and received by the Senate on 2022-12-19",
			Committees:                []string{"Committee on Banks & Financial Intermediaries"},
		},
		{
			BillNumber:   "HB00002",
			Title:        "AN ACT PROVIDING FOR THE CREATION OF A NATIONAL MENTAL HEALTH POLICY",
			Significance: "National",
			DateFiled:    "2022-07-15",
			PrincipalAuthors: []string{
				"Fresnedi, Jaime",
				"Cayetano, Alan Peter S.",
				"Gatchalian, Sherwin T.",
				"Go, Christopher B.",
			},
			DateRead:                  "2022-08-05",
			PrimaryReferral:           "HEALTH",
			DateApprovedSecondReading: "2022-10-10",
			DateTransmitted:           "2022-10-15",
			Status:                    "Approved by the House on 2022-10-10, transmitted to the Senate on 2022-10-15 and received by the Senate on 2022-10-15",
			Committees:                []string{"Committee on Health"},
		},
		{
			BillNumber:   "HB00003",
			Title:        "AN ACT PROVIDING FOR THE ESTABLISHMENT OF A NATIONAL EDUCATION AND SKILLS DEVELOPMENT AGENCY",
			Significance: "Regional",
			DateFiled:    "2023-01-10",
			PrincipalAuthors: []string{
				"Fresnedi, Jaime",
				"Suarez, Danilo E.",
				"Ferrer, Gregorio A.",
				"Garcia, Victor A.",
			},
			DateRead:                  "2023-01-25",
			PrimaryReferral:           "EDUCATION, CULTURE AND SPORTS",
			DateApprovedSecondReading: "2023-03-01",
			DateTransmitted:           "2023-03-05",
			Status:                    "Approved by the House on 2023-03-01, transmitted to the Senate on 2023-03-05 and received by the Senate on 2023-03-05",
			CoAuthored:                true,
			Committees:                []string{"Committee on Education"},
		},
		{
			BillNumber:   "HB00004",
			Title:        "AN ACT INSTITUTING THE FREE WIFI ACCESS PROGRAM FOR PUBLIC SPACES NATIONWIDE",
			Significance: "National",
			DateFiled:    "2023-02-14",
			PrincipalAuthors: []string{
				"Fresnedi, Jaime",
				"Romualdez, Ferdinand Martin G.",
				"Velasco, Lord Allan Jay Q.",
				"Zubiri, Juan Miguel F.",
			},
			DateRead:                  "2023-02-28",
			PrimaryReferral:           "COMMUNICATIONS TECHNOLOGY",
			DateApprovedSecondReading: "2023-04-10",
			DateTransmitted:           "2023-04-12",
			Status:                    "Approved by the House on 2023-04-10, transmitted to the Senate on 2023-04-12 and received by the Senate on 2023-04-12",
			CoAuthored:                true,
			Committees:                []string{"Committee on Communications Technology"},
		},
	}
}

func seedProjects(ctx context.Context, repo *projectsrepo.PostgresRepository) error {
	existing, err := repo.List(ctx, 1, 0)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	now := time.Now().UTC()
	projects := []projectsdomain.Project{
		{
			Title:       "Road Widening Along National Highway",
			Description: "Widening of the national highway segment to ease rush-hour congestion.",
			Barangay:    "Poblacion",
			Status:      projectsdomain.StatusOngoing,
			StartedOn:   "2025-04-01",
		},
		{
			Title:       "Barangay Health Station Upgrade",
			Description: "Renovation and new equipment for the barangay health station.",
			Barangay:    "Bayanan",
			Status:      projectsdomain.StatusCompleted,
			StartedOn:   "2024-09-15",
			CompletedOn: "2025-02-20",
		},
		{
			Title:       "Public School Computer Laboratory",
			Description: "New computer laboratory for the district's largest public elementary school.",
			Barangay:    "Alabang",
			Status:      projectsdomain.StatusPlanned,
		},
	}
	for i := range projects {
		projects[i].ID = uuid.New().String()
		projects[i].CreatedAt = now
		projects[i].UpdatedAt = now
		if err := repo.Create(ctx, &projects[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedUpdates(ctx context.Context, repo *updatesrepo.PostgresRepository) error {
	existing, err := repo.List(ctx, 1, 0)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	now := time.Now().UTC()
	updates := []updatesdomain.Update{
		{Title: "New Law Passed", Description: "A new education reform bill has been signed into law.", PublishedOn: "2025-03-05"},
		{Title: "Infrastructure Project", Description: "A new road-widening project is set to begin in April.", PublishedOn: "2025-03-03"},
		{Title: "Health Program", Description: "Free medical check-ups available for senior citizens.", PublishedOn: "2025-02-28"},
	}
	for i := range updates {
		updates[i].ID = uuid.New().String()
		updates[i].CreatedAt = now
		if err := repo.Create(ctx, &updates[i]); err != nil {
			return err
		}
	}
	return nil
}

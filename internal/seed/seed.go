// Package seed loads the demo users, donation items and warehouse requests.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/store"
)

// WarehouseNote is attached to the requests the warehouse places on every
// seeded item.
const WarehouseNote = "This was automatically requested by the warehouse."

// ErrAlreadySeeded is returned when the demo admin already exists.
var ErrAlreadySeeded = errors.New("database already seeded")

func coords(lat, lon float64) (*float64, *float64) { return &lat, &lon }

func address(street, city, postcode string, lat, lon float64) models.Address {
	a := models.Address{Street: street, City: city, Postcode: postcode}
	a.Latitude, a.Longitude = coords(lat, lon)
	return a
}

var (
	salmonaSt    = address("10 Salmona St", "Glasgow", "G22 5NZ", 55.864558, -4.248875)
	lilybankRd   = address("22 Lilybank Rd", "Port Glasgow", "PA14 5AN", 55.935148, -4.703772)
	albertDr     = address("150 Albert Dr", "Glasgow", "G41 2NG", 55.851961, -4.27077)
	garscubeRd   = address("210 Garscube Rd", "Glasgow", "G4 9RR", 55.871611, -4.260784)
	kelvingrove  = address("3 Kelvingrove St", "Glasgow", "G3 7RX", 55.865012, -4.284227)
	demoMobile   = "0123456789"
	adminEmail   = "admin@example.com"
	pantryEmail  = "pantry@example.com"
	storeEmail   = "warehouse@example.com"
	donor1Email  = "donator1@example.com"
	donor2Email  = "donator2@example.com"
	demoLastName = "User"
)

func users(hash string) []*models.User {
	mk := func(email, first string, role models.Role, addr models.Address) *models.User {
		return &models.User{
			Email:        email,
			PasswordHash: hash,
			FirstName:    first,
			LastName:     demoLastName,
			Mobile:       demoMobile,
			Role:         role,
			Address:      addr,
		}
	}
	return []*models.User{
		mk(adminEmail, "Admin", models.RoleAdmin, salmonaSt),
		mk(pantryEmail, "Pantry", models.RolePantry, lilybankRd),
		mk(storeEmail, "Warehouse", models.RoleWarehouse, albertDr),
		mk(donor1Email, "Donator", models.RoleDonator, kelvingrove),
		mk(donor2Email, "Donator", models.RoleDonator, garscubeRd),
	}
}

type itemSeed struct {
	owner       string
	name        string
	description string
	category    models.Category
	storage     models.StorageRequirement
	measurement models.Measurement
	dateType    models.DateType
	dayOffset   int
	image       string
}

var items = []itemSeed{
	{donor1Email, "Broccoli", "Broccoli is an edible green plant in the cabbage family whose large flowering head, stalk and small associated leaves are eaten as a vegetable",
		models.CategoryVegetable, models.StorageAmbient, models.Measurement{Type: models.MeasurementKG, Value: 1}, models.DateBestBefore, 3, "seed-broccoli.jpg"},
	{donor1Email, "Batard", "A short loaf of French bread having an oval or oblong shape.",
		models.CategoryBakery, models.StorageAmbient, models.Measurement{Type: models.MeasurementUnit, Value: 5}, models.DateUseBy, 2, "seed-batard.jpg"},
	{donor1Email, "Strawberries", "The garden strawberry is a widely grown hybrid species of the genus Fragaria, cultivated worldwide for its fruit.",
		models.CategoryFruit, models.StorageCold, models.Measurement{Type: models.MeasurementKG, Value: 2}, models.DateUseBy, 1, "seed-strawberries.jpg"},
	{donor2Email, "Celery", "Celery is a marshland plant in the family Apiaceae that has been cultivated as a vegetable since ancient times.",
		models.CategoryVegetable, models.StorageAmbient, models.Measurement{Type: models.MeasurementKG, Value: 3}, models.DateBestBefore, 6, "seed-celery.jpg"},
	{donor2Email, "Banana", "A banana is an elongated, edible fruit produced by several kinds of large herbaceous flowering plants in the genus Musa.",
		models.CategoryFruit, models.StorageAmbient, models.Measurement{Type: models.MeasurementKG, Value: 12}, models.DateBestBefore, 0, "seed-banana.jpg"},
	{donor2Email, "Apples", "An apple is a round, edible fruit produced by an apple tree.",
		models.CategoryFruit, models.StorageAmbient, models.Measurement{Type: models.MeasurementUnit, Value: 33}, models.DateProductionDate, -3, "seed-apples.jpg"},
}

// Result counts what Run inserted.
type Result struct {
	Users    int
	Items    int
	Requests int
}

// Run inserts the demo data in one transaction. Every user gets password;
// item dates are relative to today (midnight UTC).
func Run(ctx context.Context, s *store.Context, password string, today time.Time, logger *logrus.Logger) (Result, error) {
	var res Result

	if _, err := s.Users.FindByEmail(ctx, adminEmail); err == nil {
		return res, ErrAlreadySeeded
	} else if !errors.Is(err, store.ErrNotFound) {
		return res, err
	}

	hash, err := service.HashPassword(password, 0)
	if err != nil {
		return res, err
	}

	err = s.Transaction(ctx, func(tx *store.Context) error {
		byEmail := make(map[string]*models.User)
		for _, u := range users(hash) {
			if err := tx.Users.Insert(ctx, u); err != nil {
				return fmt.Errorf("failed to insert user %s: %w", u.Email, err)
			}
			byEmail[u.Email] = u
			res.Users++
		}

		warehouse := byEmail[storeEmail]
		for _, it := range items {
			owner := byEmail[it.owner]
			item := &models.DonationItem{
				UserID:             owner.ID,
				Name:               it.name,
				Description:        it.description,
				Category:           it.category,
				StorageRequirement: it.storage,
				Measurement:        it.measurement,
				DateInfo:           models.DateInfo{Type: it.dateType, Date: today.AddDate(0, 0, it.dayOffset)},
				Address:            owner.Address,
				ImageFilename:      it.image,
				Status:             models.DonationAvailable,
			}
			if err := tx.DonationItems.Insert(ctx, item); err != nil {
				return fmt.Errorf("failed to insert donation item %s: %w", it.name, err)
			}
			res.Items++

			req := &models.Request{
				UserID:          warehouse.ID,
				DonationItemID:  item.ID,
				DeliveryMethod:  models.DeliveryReceive,
				Address:         warehouse.Address,
				AdditionalNotes: WarehouseNote,
				Status:          models.RequestPending,
			}
			if err := tx.Requests.Insert(ctx, req); err != nil {
				return fmt.Errorf("failed to insert warehouse request: %w", err)
			}
			res.Requests++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.WithFields(logrus.Fields{
		"users":    res.Users,
		"items":    res.Items,
		"requests": res.Requests,
	}).Info("seed data inserted")
	return res, nil
}

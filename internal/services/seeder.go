package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/shopspring/decimal"
)

type seedCommodity struct {
	name  string
	unit  string
	price string
}

var defaultCommodities = []seedCommodity{
	{"Gold", "oz", "2000.00"},
	{"Silver", "oz", "25.50"},
	{"Wheat", "bushel", "7.25"},
	{"Rice", "cwt", "15.80"},
	{"Crude Oil", "barrel", "75.30"},
	{"Copper", "lb", "4.15"},
	{"Cotton", "lb", "0.72"},
}

// Seeder fills an empty installation with the demo accounts and commodities.
type Seeder struct {
	users       repository.UserRepository
	commodities repository.CommodityRepository
	directory   *UserDirectory
}

func NewSeeder(users repository.UserRepository, commodities repository.CommodityRepository, directory *UserDirectory) *Seeder {
	return &Seeder{users: users, commodities: commodities, directory: directory}
}

func (s *Seeder) Seed(ctx context.Context) error {
	super, err := s.ensureSuperAdmin(ctx)
	if err != nil {
		return err
	}
	actor := models.Identity{UserID: super.ID, Role: models.RoleSuperAdmin}

	admin, err := s.users.GetByUsername(ctx, "admin1")
	if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
		admin, err = s.directory.CreateAdmin(ctx, actor, CreateAccountRequest{
			Username: "admin1",
			Password: "admin123",
			Name:     "Admin One",
			Email:    "admin1@commodity.local",
		})
	}
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	if _, err := s.users.GetByUsername(ctx, "user1"); stderrors.Is(err, pkgerrors.ErrUserNotFound) {
		_, err = s.directory.CreateUser(ctx, actor, &admin.ID, CreateAccountRequest{
			Username:       "user1",
			Password:       "user123",
			Name:           "User One",
			Email:          "user1@commodity.local",
			InitialBalance: decimal.RequireFromString("10000.00"),
		})
		if err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	count, err := s.commodities.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count commodities: %w", err)
	}
	seeded := count == 0
	if seeded {
		for _, c := range defaultCommodities {
			commodity := &models.Commodity{
				Name:         c.name,
				Unit:         c.unit,
				CurrentPrice: decimal.RequireFromString(c.price),
			}
			if err := s.commodities.Create(ctx, commodity); err != nil {
				return fmt.Errorf("failed to seed commodity %s: %w", c.name, err)
			}
		}
	}

	slog.Info("seed data ensured", "method", "Seed", "commodities_seeded", seeded)
	return nil
}

// ensureSuperAdmin is the one account that cannot be created through the directory,
// because creating accounts requires an existing super-admin.
func (s *Seeder) ensureSuperAdmin(ctx context.Context) (*models.User, error) {
	super, err := s.users.GetByUsername(ctx, "superadmin")
	if err == nil {
		return super, nil
	}
	if !stderrors.Is(err, pkgerrors.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up super admin: %w", err)
	}

	hash, err := hashPassword("admin123")
	if err != nil {
		return nil, err
	}
	super = &models.User{
		Username:     "superadmin",
		PasswordHash: hash,
		Name:         "Super Admin",
		Email:        "superadmin@commodity.local",
		Role:         models.RoleSuperAdmin,
		Status:       models.StatusActive,
	}
	if err := s.users.Create(ctx, super); err != nil {
		return nil, fmt.Errorf("failed to seed super admin: %w", err)
	}
	return super, nil
}

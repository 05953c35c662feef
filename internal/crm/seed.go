package crm

import (
	"context"

	"fieldcrm/internal/models"
	"fieldcrm/internal/storage"

	"github.com/shopspring/decimal"
)

const defaultSeedPassword = "123456"

// seedUsers makes a fresh install usable: one Admin and one Agent with fixed
// ids and credentials.
func (s *Store) seedUsers(ctx context.Context) error {
	seeds := []models.User{
		{
			ID:          "user-1",
			StaffName:   "Admin User",
			Designation: "Manager",
			EmpID:       "E-001",
			JoiningDate: "2023-01-01",
			Mobile:      "9876543210",
			Role:        models.RoleAdmin,
			Salary:      decimal.NewFromInt(100000),
			LoginID:     "Admin",
		},
		{
			ID:          "user-2",
			StaffName:   "Agent Smith",
			Designation: "Field Agent",
			EmpID:       "E-002",
			JoiningDate: "2023-02-01",
			Mobile:      "9876543211",
			Role:        models.RoleAgent,
			Salary:      decimal.NewFromInt(50000),
			LoginID:     "Agent",
		},
	}

	for i := range seeds {
		hash, err := s.hash(defaultSeedPassword)
		if err != nil {
			return err
		}
		seeds[i].PasswordHash = hash
	}

	s.users = append(s.users, seeds...)
	s.save(ctx, storage.KeyUsers, s.users)
	for _, u := range seeds {
		s.log.Info(s.log.WithFields(ctx, map[string]any{"user_id": u.ID, "login_id": u.LoginID, "role": u.Role}), "crm.seed_user_created")
	}
	return nil
}

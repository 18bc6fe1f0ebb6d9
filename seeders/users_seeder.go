package seeders

import (
	"context"
	"fmt"
	"log"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func seedUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание пользователей...")

	userRepo := repositories.NewUserRepository(db, zap.NewNop())
	txManager := repositories.NewTxManager(db)

	return txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, u := range usersData {
			var exists bool
			if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))", u.Email).Scan(&exists); err != nil {
				return err
			}
			if exists {
				log.Printf("    - Пользователь %s уже существует. Пропускаем.", u.Email)
				continue
			}

			var roleID uint64
			if err := tx.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", u.Role).Scan(&roleID); err != nil {
				return fmt.Errorf("не найдена роль '%s': %w", u.Role, err)
			}

			hashedPassword, err := utils.HashPassword(u.Password)
			if err != nil {
				return err
			}

			if _, err := userRepo.CreateUser(ctx, tx, &entities.User{
				Email:    u.Email,
				FullName: u.FullName,
				Password: hashedPassword,
				RoleID:   &roleID,
				IsActive: true,
			}); err != nil {
				return fmt.Errorf("пользователь %s: %w", u.Email, err)
			}
		}
		return nil
	})
}

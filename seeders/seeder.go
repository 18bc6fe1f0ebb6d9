package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCoreDictionaries: возможности и стадии, без зависимостей.
func SeedCoreDictionaries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения базовых справочников...")

	if err := seedPermissions(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения прав (permissions): %v", err)
	}
	if err := seedStages(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения стадий (stages): %v", err)
	}
	log.Println("✅ Наполнение базовых справочников завершено!")
}

// SeedRolesAndUsers: роли, их возможности и учётные записи.
func SeedRolesAndUsers(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск настройки ролей и пользователей...")

	if err := seedRoles(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения ролей (roles): %v", err)
	}
	if err := seedRolePermissions(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения связей ролей и прав: %v", err)
	}
	if err := seedUsers(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка создания пользователей: %v", err)
	}
	log.Println("✅ Настройка ролей и пользователей завершена!")
}

// SeedDemoData: команды, категории и оборудование для стенда.
func SeedDemoData(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения демо-данных...")

	if err := seedTeams(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения команд (teams): %v", err)
	}
	if err := seedTeamMembers(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения участников команд (team_members): %v", err)
	}
	if err := seedCategories(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения категорий (equipment_categories): %v", err)
	}
	if err := seedEquipment(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения оборудования (equipment): %v", err)
	}
	log.Println("✅ Наполнение демо-данных завершено!")
}

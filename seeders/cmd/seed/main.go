package main

import (
	"context"
	"flag"
	"log"

	"maintenance-system/migrations"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	"maintenance-system/seeders"

	"go.uber.org/zap"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runCore := flag.Bool("core", false, "Базовые справочники (права, стадии)")
	runRoles := flag.Bool("roles", false, "Роли и пользователи")
	runDemo := flag.Bool("demo", false, "Демо-команды и оборудование")
	runAll := flag.Bool("all", false, "Все сидеры (эквивалентно -core -roles -demo)")
	flag.Parse()

	if !*runCore && !*runRoles && !*runDemo && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("Пример: go run ./seeders/cmd/seed -all")
		return
	}

	cfg := config.New()
	logger := zap.NewNop()
	dbPool, err := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()

	if err := postgresql.Migrate(dbPool, migrations.FS, logger); err != nil {
		log.Fatalf("❌ Не удалось применить миграции: %v", err)
	}

	if *runAll || *runCore {
		seeders.SeedCoreDictionaries(dbPool)
	}
	if *runAll || *runRoles {
		seeders.SeedRolesAndUsers(dbPool)
	}
	if *runAll || *runDemo {
		seeders.SeedDemoData(dbPool)
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
}

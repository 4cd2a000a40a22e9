package db

import (
	"context"
	"fmt"
	"log"
	"strings"
	"yatube/config"
	"yatube/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

var ORM *gorm.DB

func dsnFromConfig(dbConf config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.Port, dbConf.User, dbConf.Password, dbConf.DBName,
	)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
			NoLowerCase:   false,
		},
		Logger: logger.Default.LogMode(logger.Warn),
	}
}

// ConnectDB подключается к БД из config.AppConfig и прогоняет миграции
func ConnectDB() (err error) {
	if ORM != nil {
		log.Println("ORM is already initialized")
		return nil
	}

	var conf = config.AppConfig
	if conf == nil {
		return fmt.Errorf("AppConfig is not loaded")
	}

	if conf.Databases.Driver == config.DriverSQLite {
		return ConnectSQLite(conf.Databases.SQLite)
	}

	if conf.Databases.Master.Host == "" {
		return fmt.Errorf("Master database configuration is missing")
	}

	masterDSN := dsnFromConfig(conf.Databases.Master)
	// Реплики только на чтение
	replicaDSNs := make([]gorm.Dialector, 0, len(conf.Databases.Replicas))
	for _, r := range conf.Databases.Replicas {
		replicaDSNs = append(replicaDSNs, postgres.Open(dsnFromConfig(r)))
	}

	db, err := gorm.Open(postgres.Open(masterDSN), gormConfig())
	if err != nil {
		return err
	}

	if len(replicaDSNs) > 0 {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicaDSNs,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return
		}
	}

	if err = Migrate(db); err != nil {
		return err
	}

	ORM = db
	return nil
}

// ConnectSQLite открывает SQLite (файл или память) и прогоняет миграции.
// Используется для локального запуска и в тестах.
func ConnectSQLite(dsn string) error {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return err
	}
	// Одно соединение: SQLite все равно сериализует запись,
	// а in-memory база живет, пока открыто хотя бы одно соединение
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)

	// Включаем внешние ключи даже если DSN этого не делает
	if err = db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return err
	}
	if err = Migrate(db); err != nil {
		return err
	}
	ORM = db
	return nil
}

// MemoryDSN - DSN именованной in-memory базы SQLite
func MemoryDSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(name)
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
}

// Migrate создает таблицы и ограничения схемы
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return RunMigrations(db)
}

// Close закрывает пул соединений и сбрасывает ORM
func Close() error {
	if ORM == nil {
		return nil
	}
	sqlDB, err := ORM.DB()
	ORM = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetReadOnlyDB возвращает подключение для чтения (слейвы)
func GetReadOnlyDB(ctx context.Context) *gorm.DB {
	return ORM.WithContext(ctx).Clauses(dbresolver.Read)
}

// GetWriteDB возвращает подключение для записи (мастер)
func GetWriteDB(ctx context.Context) *gorm.DB {
	return ORM.WithContext(ctx).Clauses(dbresolver.Write)
}

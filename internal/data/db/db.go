package db

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/kanoon-backend/internal/platform/envutil"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	// SQLitePath is a file path or ":memory:".
	SQLitePath string
}

// ConfigFromEnv reads DB_DRIVER and the matching connection variables.
// postgres uses POSTGRES_*, mysql uses DB_*.
func ConfigFromEnv(log *logger.Logger) Config {
	driver := strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres, log))
	cfg := Config{Driver: driver}
	switch driver {
	case DriverMySQL:
		cfg.Host = envutil.String("DB_HOST", "localhost", log)
		cfg.Port = envutil.String("DB_PORT", "3306", log)
		cfg.User = envutil.String("DB_USER", "root", log)
		cfg.Password = envutil.String("DB_PASSWORD", "", nil)
		cfg.Name = envutil.String("DB_NAME", "kanoon", log)
	case DriverSQLite:
		cfg.SQLitePath = envutil.String("SQLITE_PATH", "kanoon.db", log)
	default:
		cfg.Host = envutil.String("POSTGRES_HOST", "localhost", log)
		cfg.Port = envutil.String("POSTGRES_PORT", "5432", log)
		cfg.User = envutil.String("POSTGRES_USER", "postgres", log)
		cfg.Password = envutil.String("POSTGRES_PASSWORD", "", nil)
		cfg.Name = envutil.String("POSTGRES_NAME", "kanoon", log)
	}
	return cfg
}

// Dialector returns the gorm dialector for cfg.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Name)
		return postgres.Open(dsn), nil
	case DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
		return mysql.Open(dsn), nil
	case DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = "kanoon.db"
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

type Service struct {
	db     *gorm.DB
	log    *logger.Logger
	driver string
}

func New(logg *logger.Logger, cfg Config) (*Service, error) {
	serviceLog := logg.With("service", "DBService", "driver", cfg.Driver)
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gdb, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}
	if cfg.Driver != DriverSQLite {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.SetMaxOpenConns(20)
			sqlDB.SetMaxIdleConns(5)
			sqlDB.SetConnMaxLifetime(30 * time.Minute)
		}
	}
	serviceLog.Info("Database connected", "host", cfg.Host, "name", cfg.Name)
	return &Service{db: gdb, log: serviceLog, driver: cfg.Driver}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

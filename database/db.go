package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/mhsanaei/todo-api/config"
	"github.com/mhsanaei/todo-api/database/model"
	"github.com/mhsanaei/todo-api/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

func initModels(conn *gorm.DB) error {
	models := []any{
		&model.User{},
		&model.Task{},
		&model.Tag{},
		&model.Permission{},
	}
	for _, m := range models {
		if err := conn.AutoMigrate(m); err != nil {
			logger.Warningf("Error auto migrating model %T: %v", m, err)
			return err
		}
	}
	return nil
}

func dialector(c *config.DatabaseConfig) gorm.Dialector {
	if c.IsPostgreSQL() {
		return postgres.Open(c.GetDSN())
	}
	return sqlite.Open(c.GetDSN())
}

// Open connects to the configured database, retrying up to
// c.ConnectRetries times one second apart, and migrates the schema.
func Open(c *config.DatabaseConfig) (*gorm.DB, error) {
	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	if err := c.EnsureDirectoryExists(); err != nil {
		return nil, err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	gc := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	var (
		conn *gorm.DB
		err  error
	)
	for attempt := 0; ; attempt++ {
		conn, err = gorm.Open(dialector(c), gc)
		if err == nil {
			err = ping(conn)
		}
		if err == nil {
			break
		}
		if attempt >= c.ConnectRetries {
			return nil, fmt.Errorf("connect to %s database: %w", c.Type, err)
		}
		logger.Warningf("database not ready (attempt %d/%d): %v", attempt+1, c.ConnectRetries+1, err)
		time.Sleep(time.Second)
	}

	if err := initModels(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func ping(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// InitDB opens the database and makes it the process-wide connection
// returned by GetDB.
func InitDB(c *config.DatabaseConfig) error {
	conn, err := Open(c)
	if err != nil {
		return err
	}
	db = conn
	return nil
}

func CloseDB() error {
	if db == nil {
		return nil
	}
	err := Close(db)
	db = nil
	return err
}

func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

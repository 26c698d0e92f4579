package database

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"procurement-app/config"
	"procurement-app/migration"
	"procurement-app/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported DB_DRIVER")

var validDBName = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var (
	dbPool  = make(map[string]*gorm.DB)
	dbMutex sync.Mutex
)

func gormConfig() *gorm.Config {
	level := logger.Warn
	if config.LogLevel == "debug" {
		level = logger.Info
	}
	return &gorm.Config{Logger: logger.Default.LogMode(level), TranslateError: true}
}

// Dialector builds the gorm dialector for dbName on the configured driver.
func Dialector(dbName string) (gorm.Dialector, error) {
	switch config.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, dbName, config.DBPort)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return mysql.Open(dsn), nil
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, config.DBDriver)
	}
}

func OpenMasterDB() (*gorm.DB, error) {
	return GetDBConnection(config.DBName)
}

// GetDBConnection returns the pooled connection for dbName, opening it on
// first use.
func GetDBConnection(dbName string) (*gorm.DB, error) {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	if db, exists := dbPool[dbName]; exists {
		return db, nil
	}

	dialector, err := Dialector(dbName)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbName, err)
	}

	dbPool[dbName] = db
	config.Log.Info("database connection opened", zap.String("db", dbName), zap.Int("pool", len(dbPool)))
	return db, nil
}

// CloseAll closes every pooled connection.
func CloseAll() {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	for name, db := range dbPool {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		delete(dbPool, name)
	}
}

// EnsureDatabaseExists connects to the server without a database and creates
// dbName when missing.
func EnsureDatabaseExists(dbName string) error {
	if !validDBName.MatchString(dbName) {
		return fmt.Errorf("invalid database name %q", dbName)
	}

	var dialector gorm.Dialector
	switch config.DBDriver {
	case "postgres":
		dialector = postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=postgres port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, config.DBPort))
	case "mysql":
		dialector = mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort))
	case "mssql":
		dialector = sqlserver.Open(fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=master",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDriver, config.DBDriver)
	}

	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return fmt.Errorf("connect to DB server: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	exists, err := checkDatabaseExists(db, dbName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := db.Exec("CREATE DATABASE " + dbName).Error; err != nil {
		return fmt.Errorf("create database %s: %w", dbName, err)
	}
	config.Log.Info("database created", zap.String("db", dbName))
	return nil
}

func checkDatabaseExists(db *gorm.DB, dbName string) (bool, error) {
	var count int64
	var err error
	switch config.DBDriver {
	case "postgres":
		err = db.Raw("SELECT COUNT(*) FROM pg_database WHERE datname = ?", dbName).Scan(&count).Error
	case "mysql":
		err = db.Raw("SELECT COUNT(*) FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?", dbName).Scan(&count).Error
	case "mssql":
		err = db.Raw("SELECT COUNT(*) FROM master.sys.databases WHERE name = ?", dbName).Scan(&count).Error
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedDriver, config.DBDriver)
	}
	return count > 0, err
}

// PrepareUnit creates, migrates and seeds a unit database and returns its
// pooled connection.
func PrepareUnit(dbName string) (*gorm.DB, error) {
	if err := EnsureDatabaseExists(dbName); err != nil {
		return nil, err
	}
	db, err := GetDBConnection(dbName)
	if err != nil {
		return nil, err
	}
	if err := migration.MigrateBusinessUnit(db); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", dbName, err)
	}
	if err := RunSeeders(db); err != nil {
		return nil, fmt.Errorf("seed %s: %w", dbName, err)
	}
	return db, nil
}

type DBRequest struct {
	Name string `json:"dbName"`
}

// CreateBusinessUnit registers a new unit in the master database and
// prepares its own database.
func CreateBusinessUnit(c *fiber.Ctx) error {
	var req DBRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	dbName := strings.TrimSpace(req.Name)
	if !validDBName.MatchString(dbName) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid database name")
	}

	master, err := OpenMasterDB()
	if err != nil {
		return err
	}

	var existing models.BusinessUnit
	err = master.Where("db_name = ?", dbName).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "Business unit already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := PrepareUnit(dbName); err != nil {
		return err
	}

	userID, _ := c.Locals("userID").(float64)
	bu := models.BusinessUnit{DbName: dbName, Name: dbName, CreatedBy: int(userID)}
	if err := master.Create(&bu).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Business unit " + dbName + " created", "data": bu})
}

func GetAllBusinessUnit(c *fiber.Ctx) error {
	master, err := OpenMasterDB()
	if err != nil {
		return err
	}

	var businessUnits []models.BusinessUnit
	if err := master.Where("is_active = ?", true).Find(&businessUnits).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": businessUnits})
}

// InjectDBMiddleware puts the caller's unit database into c.Locals("db").
// It runs after the auth middleware, which sets "unit".
func InjectDBMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbName, ok := c.Locals("unit").(string)
		if !ok || dbName == "" {
			return fiber.NewError(fiber.StatusInternalServerError, "database name not found in context")
		}

		db, err := GetDBConnection(dbName)
		if err != nil {
			config.Log.Error("unit database unavailable", zap.String("db", dbName), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "error connecting to database")
		}

		c.Locals("db", db.WithContext(c.UserContext()))
		return c.Next()
	}
}

// DB returns the database placed by InjectDBMiddleware, or nil.
func DB(c *fiber.Ctx) *gorm.DB {
	db, _ := c.Locals("db").(*gorm.DB)
	return db
}

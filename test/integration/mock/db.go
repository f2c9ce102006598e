package mock

import (
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

var once sync.Once
var db *Db

type Db struct {
	DbConn *gorm.DB
	models map[string]any
	// order is the deletion order; children come before their parents.
	order []string
}

// NewDb opens the shared in-memory database and migrates every model once.
func NewDb() *Db {
	once.Do(
		func() {
			db = open()
		},
	)

	return db
}

func open() *Db {
	dbConn, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	newDbMock := &Db{
		DbConn: dbConn,
		models: map[string]any{},
	}

	all := model.All()
	for i := len(all) - 1; i >= 0; i-- {
		stmt := &gorm.Statement{DB: dbConn}
		if err := stmt.Parse(all[i]); err != nil {
			panic(err)
		}
		newDbMock.models[stmt.Schema.Table] = all[i]
		newDbMock.order = append(newDbMock.order, stmt.Schema.Table)
	}

	if err := dbConn.AutoMigrate(all...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB deletes every row so each scenario starts from an empty store.
func (d *Db) ClearDB() error {
	for _, table := range d.order {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(d.models[table]).Error
		if err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

func (d *Db) GetModel(table string) (any, bool) {
	m, ok := d.models[table]
	return m, ok
}

package gobatcher

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// _dialects enumerates the dialectors every SQL-shape test runs against.
var _dialects = []string{"postgres", "mysql"}

// newMockSession opens a gorm session over a sqlmock connection for the given
// dialect and fails the test on any setup error.
func newMockSession(t *testing.T, dialect string) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = mockDB.Close() })

	var dialector gorm.Dialector
	switch dialect {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			Conn:                      mockDB,
			SkipInitializeWithVersion: true,
		})
	case "postgres":
		dialector = postgres.New(postgres.Config{
			Conn: mockDB,
		})
	default:
		t.Fatalf("unknown dialect %q", dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}

	return db.Debug(), mock
}

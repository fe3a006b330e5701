package grievancerepo

import (
	"testing"

	"github.com/armywelfare/welfare-api/internal/adapters/contracttest"
	"github.com/armywelfare/welfare-api/internal/adapters/postgres/testutil"
	grievancerepoport "github.com/armywelfare/welfare-api/internal/ports/out/grievancerepo"
)

func TestContract_PostgresGrievanceRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunGrievanceRepo(t, func(t *testing.T) (grievancerepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}

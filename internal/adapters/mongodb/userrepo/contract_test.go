package userrepo

import (
	"testing"

	"github.com/armywelfare/welfare-api/internal/adapters/contracttest"
	"github.com/armywelfare/welfare-api/internal/adapters/mongodb/testutil"
	userrepoport "github.com/armywelfare/welfare-api/internal/ports/out/userrepo"
)

func TestContract_MongoUserRepo(t *testing.T) {
	db := testutil.OpenDatabase(t)

	contracttest.RunUserRepo(t, func(t *testing.T) (userrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(db), nil
	})
}

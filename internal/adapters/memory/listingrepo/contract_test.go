package listingrepo

import (
	"testing"

	"github.com/armywelfare/welfare-api/internal/adapters/contracttest"
	listingrepoport "github.com/armywelfare/welfare-api/internal/ports/out/listingrepo"
)

func TestContract_ListingRepo(t *testing.T) {
	contracttest.RunListingRepo(t, func(t *testing.T) (listingrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}

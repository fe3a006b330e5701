package schemerepo

import (
	"testing"

	"github.com/armywelfare/welfare-api/internal/adapters/contracttest"
	schemerepoport "github.com/armywelfare/welfare-api/internal/ports/out/schemerepo"
)

func TestContract_SchemeRepo(t *testing.T) {
	contracttest.RunSchemeRepo(t, func(t *testing.T) (schemerepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}

package bookingrepo

import (
	"testing"

	"github.com/hrs-cloud/hotel-booking-api/internal/adapters/contracttest"
	pghotelrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/postgres/hotelrepo"
	"github.com/hrs-cloud/hotel-booking-api/internal/adapters/postgres/testutil"
	pguserrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/postgres/userrepo"
	bookingrepoport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/bookingrepo"
	hotelrepoport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelrepo"
	userrepoport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/userrepo"
)

func TestContract_PostgresBookingRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunBookingRepo(t, func(t *testing.T) (bookingrepoport.Repository, hotelrepoport.Repository, userrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), pghotelrepo.NewRepo(pool), pguserrepo.NewRepo(pool), nil
	})
}

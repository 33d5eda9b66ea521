package subscriberrepo

import (
	"testing"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres/testutil"
	subscriberrepoport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriberrepo"
)

func TestContract_PostgresSubscriberRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunSubscriberRepo(t, func(t *testing.T) (subscriberrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}

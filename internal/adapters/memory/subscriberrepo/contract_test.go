package subscriberrepo

import (
	"testing"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/contracttest"
	subscriberrepoport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriberrepo"
)

func TestContract_SubscriberRepo(t *testing.T) {
	contracttest.RunSubscriberRepo(t, func(t *testing.T) (subscriberrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}

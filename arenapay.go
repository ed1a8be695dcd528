package arenapay

import (
	"github.com/ukumbi/arenapay/cache"
	"github.com/ukumbi/arenapay/config"
	"github.com/ukumbi/arenapay/database"
	"github.com/ukumbi/arenapay/gateway"
)

// Arenapay wires the payment flow together: the pending-payment store, the
// mobile-money gateway client, the watch fan-out and the reconciliation
// queue. All collaborators are injected so tests can swap them out.
type Arenapay struct {
	datasource database.IDataSource
	gateway    gateway.Client
	watcher    *PaymentWatcher
	queue      ReconciliationQueue
}

// NewArenapay initializes the service from configuration: the Daraja gateway
// client with a redis-backed token cache, the reconciliation queue and a
// fresh watch registry.
func NewArenapay(db database.IDataSource) (*Arenapay, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	tokenCache, err := cache.NewCache()
	if err != nil {
		return nil, err
	}

	return NewArenapayWithDeps(db, gateway.NewDaraja(configuration.Mpesa, tokenCache), NewQueue(configuration)), nil
}

// NewArenapayWithDeps wires the service from explicit collaborators. Used by
// NewArenapay and by tests that swap in fakes.
func NewArenapayWithDeps(db database.IDataSource, gw gateway.Client, queue ReconciliationQueue) *Arenapay {
	return &Arenapay{
		datasource: db,
		gateway:    gw,
		watcher:    NewPaymentWatcher(),
		queue:      queue,
	}
}

// Watcher exposes the watch registry so the server can feed it from the
// postgres change listener.
func (a *Arenapay) Watcher() *PaymentWatcher {
	return a.watcher
}

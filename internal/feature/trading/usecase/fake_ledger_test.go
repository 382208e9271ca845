package usecase_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	market "trading_backend/internal/feature/market/domain/entity"
	"trading_backend/internal/feature/trading/domain/entity"
	"trading_backend/internal/feature/trading/usecase"
)

// holdingKey is the ledger key of one holding row.
type holdingKey struct {
	shareholderID uint
	shareID       uint
}

// fakeState is the in-memory database the fake ledger operates on.
type fakeState struct {
	shareholders map[uint]entity.Shareholder
	shares       map[uint]market.Share
	brokers      map[uint]market.Broker
	holdings     map[holdingKey]entity.Holding
	trades       []entity.Trade
	nextHolding  uint
}

func newFakeState() *fakeState {
	return &fakeState{
		shareholders: map[uint]entity.Shareholder{},
		shares:       map[uint]market.Share{},
		brokers:      map[uint]market.Broker{},
		holdings:     map[holdingKey]entity.Holding{},
		nextHolding:  1,
	}
}

func (s *fakeState) clone() *fakeState {
	out := newFakeState()
	for k, v := range s.shareholders {
		out.shareholders[k] = v
	}
	for k, v := range s.shares {
		out.shares[k] = v
	}
	for k, v := range s.brokers {
		out.brokers[k] = v
	}
	for k, v := range s.holdings {
		out.holdings[k] = v
	}
	out.trades = append(out.trades, s.trades...)
	out.nextHolding = s.nextHolding
	return out
}

// holding returns a copy of the holding row for the pair, if any.
func (s *fakeState) holding(shareholderID, shareID uint) (entity.Holding, bool) {
	h, ok := s.holdings[holdingKey{shareholderID, shareID}]
	return h, ok
}

// failures injects errors into specific fake repository operations.
type failures struct {
	saveShare       error
	saveHolding     error
	saveShareholder error
	appendTrade     error
}

// fakeUnitOfWork runs fn against a working copy of the state and commits the
// copy only when fn succeeds, mirroring transactional all-or-nothing behavior.
type fakeUnitOfWork struct {
	state *fakeState
	fail  failures
	calls int
}

var _ usecase.UnitOfWork = (*fakeUnitOfWork)(nil)

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(l usecase.Ledger) error) error {
	u.calls++
	working := u.state.clone()
	if err := fn(&fakeLedger{state: working, fail: u.fail}); err != nil {
		return err
	}
	*u.state = *working
	return nil
}

type fakeLedger struct {
	state *fakeState
	fail  failures
}

var _ usecase.Ledger = (*fakeLedger)(nil)

func (l *fakeLedger) Shareholders() usecase.ShareholderRepository { return &fakeShareholders{l} }
func (l *fakeLedger) Shares() usecase.ShareRepository             { return &fakeShares{l} }
func (l *fakeLedger) Brokers() usecase.BrokerRepository           { return &fakeBrokers{l} }
func (l *fakeLedger) Holdings() usecase.HoldingRepository         { return &fakeHoldings{l} }
func (l *fakeLedger) Trades() usecase.TradeRepository             { return &fakeTrades{l} }

type fakeShareholders struct{ l *fakeLedger }

func (r *fakeShareholders) FindByID(_ context.Context, id uint) (*entity.Shareholder, error) {
	s, ok := r.l.state.shareholders[id]
	if !ok {
		return nil, usecase.ErrShareholderNotFound
	}
	return &s, nil
}

func (r *fakeShareholders) Save(_ context.Context, s *entity.Shareholder) error {
	if r.l.fail.saveShareholder != nil {
		return r.l.fail.saveShareholder
	}
	r.l.state.shareholders[s.ID] = *s
	return nil
}

type fakeShares struct{ l *fakeLedger }

func (r *fakeShares) FindByIDWithCompany(_ context.Context, id uint) (*market.Share, error) {
	s, ok := r.l.state.shares[id]
	if !ok {
		return nil, usecase.ErrShareNotFound
	}
	return &s, nil
}

func (r *fakeShares) Save(_ context.Context, s *market.Share) error {
	if r.l.fail.saveShare != nil {
		return r.l.fail.saveShare
	}
	r.l.state.shares[s.ID] = *s
	return nil
}

type fakeBrokers struct{ l *fakeLedger }

func (r *fakeBrokers) FindByID(_ context.Context, id uint) (*market.Broker, error) {
	b, ok := r.l.state.brokers[id]
	if !ok {
		return nil, usecase.ErrBrokerNotFound
	}
	return &b, nil
}

type fakeHoldings struct{ l *fakeLedger }

func (r *fakeHoldings) Find(_ context.Context, shareholderID, shareID uint) (*entity.Holding, error) {
	h, ok := r.l.state.holdings[holdingKey{shareholderID, shareID}]
	if !ok {
		return nil, usecase.ErrHoldingNotFound
	}
	return &h, nil
}

func (r *fakeHoldings) Create(_ context.Context, h *entity.Holding) error {
	h.ID = r.l.state.nextHolding
	r.l.state.nextHolding++
	r.l.state.holdings[holdingKey{h.ShareholderID, h.ShareID}] = *h
	return nil
}

func (r *fakeHoldings) Save(_ context.Context, h *entity.Holding) error {
	if r.l.fail.saveHolding != nil {
		return r.l.fail.saveHolding
	}
	r.l.state.holdings[holdingKey{h.ShareholderID, h.ShareID}] = *h
	return nil
}

func (r *fakeHoldings) Delete(_ context.Context, h *entity.Holding) error {
	delete(r.l.state.holdings, holdingKey{h.ShareholderID, h.ShareID})
	return nil
}

func (r *fakeHoldings) ListShareholderIDs(_ context.Context, shareID uint) ([]uint, error) {
	var ids []uint
	for k := range r.l.state.holdings {
		if k.shareID == shareID {
			ids = append(ids, k.shareholderID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeHoldings) PortfolioValue(_ context.Context, shareholderID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	for k, h := range r.l.state.holdings {
		if k.shareholderID != shareholderID {
			continue
		}
		share := r.l.state.shares[k.shareID]
		total = total.Add(share.Price.Mul(decimal.NewFromInt(h.Amount)))
	}
	return total, nil
}

type fakeTrades struct{ l *fakeLedger }

func (r *fakeTrades) Append(_ context.Context, t *entity.Trade) error {
	if r.l.fail.appendTrade != nil {
		return r.l.fail.appendTrade
	}
	r.l.state.trades = append(r.l.state.trades, *t)
	return nil
}

func (r *fakeTrades) ListByShareholder(_ context.Context, shareholderID uint) ([]entity.Trade, error) {
	var out []entity.Trade
	for i := len(r.l.state.trades) - 1; i >= 0; i-- {
		if r.l.state.trades[i].ShareholderID == shareholderID {
			out = append(out, r.l.state.trades[i])
		}
	}
	return out, nil
}

// recordingCache counts portfolio cache invalidations.
type recordingCache struct {
	invalidated []uint
}

var _ usecase.PortfolioCache = (*recordingCache)(nil)

func (c *recordingCache) Invalidate(_ context.Context, shareholderID uint) error {
	c.invalidated = append(c.invalidated, shareholderID)
	return nil
}

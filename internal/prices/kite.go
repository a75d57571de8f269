package prices

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"stocksage/internal/frame"
	"stocksage/internal/interfaces"
)

// kiteClient is the part of *kiteconnect.Client the provider uses.
type kiteClient interface {
	GetInstrumentsByExchange(exchange string) (kiteconnect.Instruments, error)
	GetHistoricalData(instrumentToken int, interval string, fromDate time.Time, toDate time.Time, continuous bool, OI bool) ([]kiteconnect.HistoricalData, error)
}

// KiteProvider reads daily candles from the Kite Connect historical API. Trading symbols
// are resolved to instrument tokens from the exchange's instrument dump, loaded once.
type KiteProvider struct {
	kc       kiteClient
	exchange string
	mapper   *instrumentMapper
	loadOnce sync.Once
	loadErr  error
}

var _ interfaces.PriceProvider = (*KiteProvider)(nil)

func NewKiteProvider(apiKey, accessToken, exchange string) *KiteProvider {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return newKiteProvider(kc, exchange)
}

func newKiteProvider(kc kiteClient, exchange string) *KiteProvider {
	return &KiteProvider{kc: kc, exchange: strings.ToUpper(exchange), mapper: newInstrumentMapper()}
}

func (p *KiteProvider) Name() string { return "KITE" }

func (p *KiteProvider) History(ctx context.Context, ticker string, from, to time.Time) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.loadOnce.Do(func() { p.loadErr = p.loadInstruments() })
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	token, ok := p.mapper.getToken(strings.ToUpper(strings.TrimSpace(ticker)))
	if !ok {
		return nil, fmt.Errorf("kite: no %s instrument for %s", p.exchange, ticker)
	}

	candles, err := p.kc.GetHistoricalData(token, "day", frame.CivilDate(from), frame.CivilDate(to), false, false)
	if err != nil {
		return nil, fmt.Errorf("kite historical %s: %w", ticker, err)
	}

	// Rows carry the exchange's trading symbol, not the caller's spelling.
	symbol := frame.Str(p.mapper.getSymbol(token))
	f := frame.New("date", "ticker", "close", "volume")
	for _, c := range candles {
		f.Append(
			frame.TimeValue(c.Date.Time),
			symbol,
			frame.FloatValue(c.Close),
			frame.IntValue(int64(c.Volume)),
		)
	}
	return f, nil
}

func (p *KiteProvider) loadInstruments() error {
	instruments, err := p.kc.GetInstrumentsByExchange(p.exchange)
	if err != nil {
		return fmt.Errorf("kite instruments %s: %w", p.exchange, err)
	}
	for _, in := range instruments {
		p.mapper.addMapping(strings.ToUpper(in.Tradingsymbol), in.InstrumentToken)
	}
	return nil
}

// instrumentMapper maps trading symbols to instrument tokens and back.
type instrumentMapper struct {
	mu            sync.RWMutex
	symbolToToken map[string]int
	tokenToSymbol map[int]string
}

func newInstrumentMapper() *instrumentMapper {
	return &instrumentMapper{
		symbolToToken: make(map[string]int),
		tokenToSymbol: make(map[int]string),
	}
}

func (im *instrumentMapper) addMapping(symbol string, token int) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.symbolToToken[symbol] = token
	im.tokenToSymbol[token] = symbol
}

func (im *instrumentMapper) getToken(symbol string) (int, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	token, ok := im.symbolToToken[symbol]
	return token, ok
}

func (im *instrumentMapper) getSymbol(token int) string {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.tokenToSymbol[token]
}

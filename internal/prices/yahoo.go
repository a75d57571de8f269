package prices

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"stocksage/internal/api"
	"stocksage/internal/frame"
	"stocksage/internal/interfaces"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider reads daily bars from the Yahoo Finance chart endpoint. The table it
// returns is nested by (field, ticker), the same shape a multi-ticker download has.
type YahooProvider struct {
	client *api.Client
}

var _ interfaces.PriceProvider = (*YahooProvider)(nil)

// NewYahooProvider builds a provider; an empty baseURL selects the public endpoint.
func NewYahooProvider(baseURL string, timeout time.Duration) *YahooProvider {
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	return &YahooProvider{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(timeout),
			api.WithHeaders(api.YahooFinanceHeaders()),
			api.WithRetry(api.DefaultRetryConfig()),
			api.WithLogging(true),
		),
	}
}

func (p *YahooProvider) Name() string { return "YAHOO" }

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns adjusted closes when Yahoo provides them, raw closes otherwise.
func (p *YahooProvider) History(ctx context.Context, ticker string, from, to time.Time) (*frame.Frame, error) {
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(frame.CivilDate(from).Unix(), 10))
	q.Set("period2", strconv.FormatInt(frame.CivilDate(to).AddDate(0, 0, 1).Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "history")

	resp, err := p.client.GET(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), q)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}
	var chart chartResponse
	if err := resp.ParseJSON(&chart); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}
	if e := chart.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s: %s", ticker, e.Code, e.Description)
	}

	out := &frame.Frame{}
	if len(chart.Chart.Result) == 0 {
		return out, nil
	}
	res := chart.Chart.Result[0]
	var closes, volumes []*float64
	if len(res.Indicators.Quote) > 0 {
		closes, volumes = res.Indicators.Quote[0].Close, res.Indicators.Quote[0].Volume
	}
	if len(res.Indicators.AdjClose) > 0 && len(res.Indicators.AdjClose[0].AdjClose) == len(res.Timestamp) {
		closes = res.Indicators.AdjClose[0].AdjClose
	}

	n := len(res.Timestamp)
	dates := make([]frame.Value, n)
	closeVals := make([]frame.Value, n)
	volumeVals := make([]frame.Value, n)
	for i, ts := range res.Timestamp {
		// Shift into exchange time so the wall date is the trading session's date.
		dates[i] = frame.TimeValue(time.Unix(ts+res.Meta.GMTOffset, 0).UTC())
		closeVals[i] = pointer(closes, i)
		volumeVals[i] = pointer(volumes, i)
	}

	sym := frame.Str(ticker)
	out.AddColumn(frame.ColumnKey{Field: "Date"}, dates)
	out.AddColumn(frame.ColumnKey{Field: "Close", Ticker: sym}, closeVals)
	out.AddColumn(frame.ColumnKey{Field: "Volume", Ticker: sym}, volumeVals)
	return out, nil
}

func pointer(vals []*float64, i int) frame.Value {
	if i >= len(vals) || vals[i] == nil {
		return frame.NullValue()
	}
	return frame.FloatValue(*vals[i])
}

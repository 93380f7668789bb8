package rpc

import (
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/canopy-network/fundpolls/fsm"
	"github.com/canopy-network/fundpolls/lib"
	"github.com/cenkalti/backoff/v4"
)

const (
	defaultMaxRetries = 3
	initialRetryDelay = 100 * time.Millisecond
)

// Client is a typed caller of the polls RPC
// queries that fail to reach the node are retried with exponential backoff; node errors are returned as is
// a transaction is only retried while the connection can't be dialed, it may have been applied otherwise
type Client struct {
	rpcURL     string
	rpcPort    string
	maxRetries uint64
	client     http.Client
}

// NewClient() creates a client for the node at rpcURL; with an empty port rpcURL is used as the full base url
func NewClient(rpcURL, rpcPort string) *Client {
	return &Client{rpcURL: rpcURL, rpcPort: rpcPort, maxRetries: defaultMaxRetries, client: http.Client{}}
}

// WithMaxRetries() sets how many times a request that failed to reach the node is retried
func (c *Client) WithMaxRetries(n uint64) *Client {
	c.maxRetries = n
	return c
}

func (c *Client) Version() (version *string, err lib.ErrorI) {
	version = new(string)
	err = c.get(VersionRouteName, version)
	return
}

func (c *Client) Height() (p *uint64, err lib.ErrorI) {
	resp := new(heightResponse)
	if err = c.post(HeightRouteName, nil, resp); err != nil {
		return
	}
	return &resp.Height, nil
}

// Transaction() submits the message and returns the result of applying it
func (c *Client) Transaction(msg fsm.MessageI) (p *fsm.MessageResult, err lib.ErrorI) {
	envelope, err := fsm.NewMessageEnvelope(msg)
	if err != nil {
		return
	}
	bz, err := lib.MarshalJSON(envelope)
	if err != nil {
		return
	}
	p = new(fsm.MessageResult)
	err = c.do(func() (*http.Response, error) {
		return c.client.Post(c.url(TxRouteName), ApplicationJSON, bytes.NewReader(bz))
	}, isDialError, lib.ErrPostRequest, p)
	return
}

func (c *Client) Poll(id uint64) (p *fsm.Poll, err lib.ErrorI) {
	p = new(fsm.Poll)
	err = c.request(PollRouteName, idRequest{ID: id}, p)
	return
}

func (c *Client) Polls(params lib.PageParams) (p *PollsPage, err lib.ErrorI) {
	p = new(PollsPage)
	err = c.request(PollsRouteName, paginatedRequest{PageParams: params}, p)
	return
}

func (c *Client) PollCount() (p *uint64, err lib.ErrorI) {
	resp := new(countResponse)
	if err = c.post(PollCountRouteName, nil, resp); err != nil {
		return
	}
	return &resp.Count, nil
}

// VotingRecord() returns nil without error if the account never voted on the poll
func (c *Client) VotingRecord(address string, id uint64) (p *fsm.AccountVotes, err lib.ErrorI) {
	err = c.request(VotingRecordRouteName, addressAndIdRequest{addressRequest{address}, idRequest{id}}, &p)
	return
}

func (c *Client) Pot(currency fsm.PollCurrency) (p *fsm.Account, err lib.ErrorI) {
	p = new(fsm.Account)
	err = c.request(PotRouteName, currencyRequest{currency}, p)
	return
}

func (c *Client) Balance(address string, currency fsm.PollCurrency) (p *fsm.Account, err lib.ErrorI) {
	p = new(fsm.Account)
	err = c.request(BalanceRouteName, addressAndCurrencyRequest{addressRequest{address}, currencyRequest{currency}}, p)
	return
}

func (c *Client) Supply(currency fsm.PollCurrency) (p *fsm.Supply, err lib.ErrorI) {
	p = new(fsm.Supply)
	err = c.request(SupplyRouteName, currencyRequest{currency}, p)
	return
}

func (c *Client) Invariant(currency fsm.PollCurrency) (p *fsm.PotInvariant, err lib.ErrorI) {
	p = new(fsm.PotInvariant)
	err = c.request(InvariantRouteName, currencyRequest{currency}, p)
	return
}

func (c *Client) Events(count int) (p lib.Events, err lib.ErrorI) {
	err = c.request(EventsRouteName, eventsRequest{Count: count}, &p)
	return
}

func (c *Client) request(routeName string, req any, ptr any) lib.ErrorI {
	bz, err := lib.MarshalJSON(req)
	if err != nil {
		return err
	}
	return c.post(routeName, bz, ptr)
}

func (c *Client) url(routeName string) string {
	if c.rpcPort != "" {
		return c.rpcURL + colon + c.rpcPort + routePaths[routeName].Path
	}
	// if rpc port is not defined then it's considered a remote RPC deployment
	return c.rpcURL + routePaths[routeName].Path
}

func (c *Client) post(routeName string, json []byte, ptr any) lib.ErrorI {
	return c.do(func() (*http.Response, error) {
		return c.client.Post(c.url(routeName), ApplicationJSON, bytes.NewReader(json))
	}, retryAlways, lib.ErrPostRequest, ptr)
}

func (c *Client) get(routeName string, ptr any) lib.ErrorI {
	return c.do(func() (*http.Response, error) {
		return c.client.Get(c.url(routeName))
	}, retryAlways, lib.ErrGetRequest, ptr)
}

// do() sends the request, retrying the failures that retryable accepts
func (c *Client) do(send func() (*http.Response, error), retryable func(error) bool, wrap func(error) lib.ErrorI, ptr any) lib.ErrorI {
	var resp *http.Response
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialRetryDelay
	if err := backoff.Retry(func() (e error) {
		if resp, e = send(); e != nil && !retryable(e) {
			return backoff.Permanent(e)
		}
		return
	}, backoff.WithMaxRetries(policy, c.maxRetries)); err != nil {
		return wrap(err)
	}
	return c.unmarshal(resp, ptr)
}

func retryAlways(error) bool { return true }

// isDialError() is true if the request never reached the node
func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func (c *Client) unmarshal(resp *http.Response, ptr any) lib.ErrorI {
	defer func() { _ = resp.Body.Close() }()
	bz, err := io.ReadAll(resp.Body)
	if err != nil {
		return lib.ErrReadBody(err)
	}
	if resp.StatusCode != http.StatusOK {
		// node errors are written with their module and code
		nodeErr := new(lib.Error)
		if e := lib.UnmarshalJSON(bz, nodeErr); e == nil && nodeErr.EModule != "" {
			return nodeErr
		}
		return lib.ErrHttpStatus(resp.Status, resp.StatusCode, bz)
	}
	return lib.UnmarshalJSON(bz, ptr)
}

package rpc

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Polls RPC Paths
const (
	VersionRoutePath      = "/v1/"
	TxRoutePath           = "/v1/tx"
	HeightRoutePath       = "/v1/query/height"
	PollRoutePath         = "/v1/query/poll"
	PollsRoutePath        = "/v1/query/polls"
	PollCountRoutePath    = "/v1/query/poll-count"
	VotingRecordRoutePath = "/v1/query/voting-record"
	PotRoutePath          = "/v1/query/pot"
	BalanceRoutePath      = "/v1/query/balance"
	SupplyRoutePath       = "/v1/query/supply"
	InvariantRoutePath    = "/v1/query/invariant"
	EventsRoutePath       = "/v1/query/events"
)

const (
	VersionRouteName      = "version"
	TxRouteName           = "tx"
	HeightRouteName       = "height"
	PollRouteName         = "poll"
	PollsRouteName        = "polls"
	PollCountRouteName    = "poll-count"
	VotingRecordRouteName = "voting-record"
	PotRouteName          = "pot"
	BalanceRouteName      = "balance"
	SupplyRouteName       = "supply"
	InvariantRouteName    = "invariant"
	EventsRouteName       = "events"
)

// routes contains the method and path for a polls command
type routes map[string]struct {
	Method string
	Path   string
}

// routePaths is a mapping from route names to their corresponding HTTP methods and paths
var routePaths = routes{
	VersionRouteName:      {Method: http.MethodGet, Path: VersionRoutePath},
	TxRouteName:           {Method: http.MethodPost, Path: TxRoutePath},
	HeightRouteName:       {Method: http.MethodPost, Path: HeightRoutePath},
	PollRouteName:         {Method: http.MethodPost, Path: PollRoutePath},
	PollsRouteName:        {Method: http.MethodPost, Path: PollsRoutePath},
	PollCountRouteName:    {Method: http.MethodPost, Path: PollCountRoutePath},
	VotingRecordRouteName: {Method: http.MethodPost, Path: VotingRecordRoutePath},
	PotRouteName:          {Method: http.MethodPost, Path: PotRoutePath},
	BalanceRouteName:      {Method: http.MethodPost, Path: BalanceRoutePath},
	SupplyRouteName:       {Method: http.MethodPost, Path: SupplyRoutePath},
	InvariantRouteName:    {Method: http.MethodPost, Path: InvariantRoutePath},
	EventsRouteName:       {Method: http.MethodPost, Path: EventsRoutePath},
}

// httpRouteHandlers is a custom type that maps strings to httprouter handle functions
type httpRouteHandlers map[string]httprouter.Handle

// createRouter initializes and returns a new HTTP router with predefined route handlers
func createRouter(s *Server) *httprouter.Router {
	var r = httpRouteHandlers{
		VersionRouteName:      s.Version,
		TxRouteName:           s.Transaction,
		HeightRouteName:       s.Height,
		PollRouteName:         s.Poll,
		PollsRouteName:        s.Polls,
		PollCountRouteName:    s.PollCount,
		VotingRecordRouteName: s.VotingRecord,
		PotRouteName:          s.Pot,
		BalanceRouteName:      s.Balance,
		SupplyRouteName:       s.Supply,
		InvariantRouteName:    s.Invariant,
		EventsRouteName:       s.Events,
	}

	// Initialize a new router using the httprouter package
	router := httprouter.New()

	for name, handler := range r {
		// Retrieve the path configuration for the current route name
		path := routePaths[name]

		// Add the handler for the specific path and HTTP method to the router
		router.Handle(path.Method, path.Path, logHandler{path.Path, handler, s.logger}.Handle)
	}

	return router
}

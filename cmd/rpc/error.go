package rpc

import (
	"fmt"

	"github.com/canopy-network/fundpolls/lib"
)

func ErrInvalidParams(err error) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidParams, lib.RPCModule, fmt.Sprintf("invalid params: %s", err.Error()))
}

func ErrStartServer(err error) lib.ErrorI {
	return lib.NewError(lib.CodeStartServer, lib.RPCModule, fmt.Sprintf("http.ListenAndServe() failed with err: %s", err.Error()))
}

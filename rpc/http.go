package rpc

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"recyclechain/core"
	"recyclechain/observability"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeNotFound       = -32004
)

type Server struct {
	node      *core.Node
	authToken string
}

func NewServer(node *core.Node) *Server {
	token := strings.TrimSpace(os.Getenv("RCY_RPC_TOKEN"))
	return &Server{node: node, authToken: token}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// handle is the main request handler that routes to specific handlers.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	handler, ok := s.route(req.Method)
	if !ok {
		observability.RPC().Requests.WithLabelValues(req.Method, "unknown").Inc()
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method), nil)
		return
	}
	observability.RPC().Requests.WithLabelValues(req.Method, "ok").Inc()
	handler(w, r, req)
}

type handlerFunc func(http.ResponseWriter, *http.Request, *RPCRequest)

// route maps a method name to its handler. Mutating methods are wrapped with
// bearer-token authentication.
func (s *Server) route(method string) (handlerFunc, bool) {
	switch method {
	// Mutations.
	case "rcy_registerParticipant":
		return s.withAuth(s.handleRegisterParticipant), true
	case "rcy_createIncentive":
		return s.withAuth(s.handleCreateIncentive), true
	case "rcy_updateIncentive":
		return s.withAuth(s.handleUpdateIncentive), true
	case "rcy_deactivateIncentive":
		return s.withAuth(s.handleDeactivateIncentive), true
	case "rcy_submitMaterial":
		return s.withAuth(s.handleSubmitMaterial), true
	case "rcy_transferMaterial":
		return s.withAuth(s.handleTransferMaterial), true
	case "rcy_verifyMaterial":
		return s.withAuth(s.handleVerifyMaterial), true
	case "rcy_distributeReward":
		return s.withAuth(s.handleDistributeReward), true
	case "rcy_setAdmin":
		return s.withAuth(s.handleSetAdmin), true
	case "rcy_setTokenSymbol":
		return s.withAuth(s.handleSetTokenSymbol), true
	case "rcy_setCharity":
		return s.withAuth(s.handleSetCharity), true
	case "rcy_setRewardPercentages":
		return s.withAuth(s.handleSetRewardPercentages), true
	case "rcy_setPaused":
		return s.withAuth(s.handleSetPaused), true
	case "rcy_mint":
		return s.withAuth(s.handleMint), true

	// Read-only queries, no authorization required.
	case "rcy_getParticipant":
		return s.handleGetParticipant, true
	case "rcy_getIncentive":
		return s.handleGetIncentive, true
	case "rcy_listIncentivesByRewarder":
		return s.handleListIncentivesByRewarder, true
	case "rcy_listIncentivesByWasteType":
		return s.handleListIncentivesByWasteType, true
	case "rcy_bestIncentive":
		return s.handleBestIncentive, true
	case "rcy_getMaterial":
		return s.handleGetMaterial, true
	case "rcy_getTransferHistory":
		return s.handleGetTransferHistory, true
	case "rcy_getParticipantStats":
		return s.handleGetParticipantStats, true
	case "rcy_getBalance":
		return s.handleGetBalance, true
	case "rcy_getRewardConfig":
		return s.handleGetRewardConfig, true
	case "rcy_getTotals":
		return s.handleGetTotals, true
	case "rcy_getEvents":
		return s.handleGetEvents, true
	}
	return nil, false
}

func (s *Server) withAuth(next handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		next(w, r, req)
	}
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication token not configured"}
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid bearer token"}
	}
	return nil
}

// decodeParams unmarshals the single expected parameter object.
func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return errors.New("exactly one parameter object expected")
	}
	return json.Unmarshal(req.Params[0], out)
}

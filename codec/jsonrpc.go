package codec

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

const JsonRPCVersion = "2.0"

type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`

	// hasID is set by DecodeRequest when the frame has an "id" member,
	// including an explicit null.
	hasID bool
}

// IsNotification reports whether the request carries no id member and so
// expects no response. Requests built in code count as notifications when
// ID is nil.
func (r *JSONRPCRequest) IsNotification() bool { return !r.hasID && r.ID == nil }

type JSONRPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// JSON-RPC 2.0 standard error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

var rpcErrorMessages = map[int]string{
	ParseError:     "Parse error",
	InvalidRequest: "Invalid Request",
	MethodNotFound: "Method not found",
	InvalidParams:  "Invalid params",
	InternalError:  "Internal error",
}

// NewError builds an RPCError, using the standard message when message is
// empty.
func NewError(code int, message string) *RPCError {
	if message == "" {
		message = rpcErrorMessages[code]
	}
	return &RPCError{Code: code, Message: message}
}

func NewResponse(id any, result any) *JSONRPCResponse {
	return &JSONRPCResponse{JSONRPC: JsonRPCVersion, Result: result, ID: id}
}

func NewErrorResponse(id any, err *RPCError) *JSONRPCResponse {
	return &JSONRPCResponse{JSONRPC: JsonRPCVersion, Error: err, ID: id}
}

// DecodeRequest parses one request frame. The returned error is always an
// *RPCError carrying ParseError or InvalidRequest.
func DecodeRequest(data []byte) (*JSONRPCRequest, error) {
	var req JSONRPCRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return nil, NewError(ParseError, "")
	}
	if req.JSONRPC != JsonRPCVersion {
		return nil, NewError(InvalidRequest, "invalid jsonrpc version")
	}
	if req.Method == "" {
		return nil, NewError(InvalidRequest, "missing method")
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err == nil {
		_, req.hasID = members["id"]
	}
	return &req, nil
}

func ParseJSONRPCRequest(r *http.Request) (*JSONRPCRequest, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, NewError(ParseError, err.Error())
	}
	return DecodeRequest(data)
}

func WriteResponse(w http.ResponseWriter, resp *JSONRPCResponse) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

func WriteJSONRPCResponse(w http.ResponseWriter, result any, id any) error {
	return WriteResponse(w, NewResponse(id, result))
}

func WriteJSONRPCError(w http.ResponseWriter, code int, message string, id any) error {
	return WriteResponse(w, NewErrorResponse(id, NewError(code, message)))
}

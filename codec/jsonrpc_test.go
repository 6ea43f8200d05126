package codec

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
)

func TestParseJSONRPCRequest(t *testing.T) {
	requestData := JSONRPCRequest{
		JSONRPC: JsonRPCVersion,
		Method:  "test_method",
		Params:  json.RawMessage(`{"key":"value"}`),
		ID:      1,
	}
	buf := new(bytes.Buffer)
	err := json.NewEncoder(buf).Encode(requestData)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}
	r := httptest.NewRequest("POST", "/rpc", buf)

	parsedReq, err := ParseJSONRPCRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsedReq.Method != requestData.Method {
		t.Errorf("expected method %s, got %s", requestData.Method, parsedReq.Method)
	}
	if parsedReq.JSONRPC != JsonRPCVersion {
		t.Errorf("expected jsonrpc %s, got %s", JsonRPCVersion, parsedReq.JSONRPC)
	}
}

func TestWriteJSONRPCResponse(t *testing.T) {
	recorder := httptest.NewRecorder()
	WriteJSONRPCResponse(recorder, map[string]string{"result": "ok"}, 42)

	res := recorder.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	var response JSONRPCResponse
	err := json.Unmarshal(body, &response)
	if err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response.JSONRPC != JsonRPCVersion {
		t.Errorf("expected jsonrpc %s, got %s", JsonRPCVersion, response.JSONRPC)
	}
	if response.ID.(float64) != 42 {
		t.Errorf("expected 42, got %v", response.ID)
	}
	if response.Result == nil {
		t.Errorf("expected result, got nil")
	}
}

func TestWriteJSONRPCError(t *testing.T) {
	recorder := httptest.NewRecorder()
	WriteJSONRPCError(recorder, -32601, "Method not found", "abc")

	res := recorder.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	var response JSONRPCResponse
	err := json.Unmarshal(body, &response)
	if err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if response.JSONRPC != JsonRPCVersion {
		t.Errorf("expected jsonrpc %s, got %s", JsonRPCVersion, response.JSONRPC)
	}
	if response.Error == nil {
		t.Fatal("expected error object, got nil")
	}
	if response.Error.Code != -32601 {
		t.Errorf("expected error code -32601, got %d", response.Error.Code)
	}
	if response.ID != "abc" {
		t.Errorf("expected id 'abc', got %v", response.ID)
	}
}

func TestDecodeRequest_Errors(t *testing.T) {
	cases := map[string]int{
		`{"jsonrpc":`:                    ParseError,
		`{"jsonrpc":"1.0","method":"x"}`: InvalidRequest,
		`{"jsonrpc":"2.0","id":1}`:       InvalidRequest,
	}
	for frame, code := range cases {
		_, err := DecodeRequest([]byte(frame))
		rpcErr, ok := err.(*RPCError)
		if !ok {
			t.Fatalf("frame %s: expected *RPCError, got %T", frame, err)
		}
		if rpcErr.Code != code {
			t.Errorf("frame %s: expected code %d, got %d", frame, code, rpcErr.Code)
		}
	}
}

func TestDecodeRequest_Notification(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.IsNotification() {
		t.Error("expected a notification")
	}

	req, err = DecodeRequest([]byte(`{"jsonrpc":"2.0","method":"ping","id":7}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.IsNotification() {
		t.Error("expected a request")
	}
	if req.ID != json.Number("7") {
		t.Errorf("expected id 7, got %v", req.ID)
	}
}

func TestDecodeRequest_NullIDIsRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"jsonrpc":"2.0","method":"ping","id":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.IsNotification() {
		t.Error("expected a request for an explicit null id")
	}
	if req.ID != nil {
		t.Errorf("expected nil id, got %v", req.ID)
	}
}

func TestNewError_DefaultMessage(t *testing.T) {
	if got := NewError(MethodNotFound, "").Message; got != "Method not found" {
		t.Errorf("expected standard message, got %q", got)
	}
	if got := NewError(InvalidParams, "bad name").Message; got != "bad name" {
		t.Errorf("expected custom message, got %q", got)
	}
}

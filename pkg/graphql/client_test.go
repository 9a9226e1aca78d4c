package graphql

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/mgallardo/cartfront-backend/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestDoSendsOperationBody(t *testing.T) {
	var capturedURL string
	var capturedContentType string
	var capturedBody map[string]any

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedContentType = req.Header.Get("Content-Type")

		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(raw, &capturedBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}

		return jsonResponse(http.StatusOK, `{"data":{"cart":{"totalItems":3}}}`), nil
	})

	client, err := NewClient("http://commerce.test/graphql", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	var data struct {
		Cart struct {
			TotalItems int `json:"totalItems"`
		} `json:"cart"`
	}
	err = client.Do(context.Background(), Request{
		Query:         "query GetCartById($cartId: ID!) { cart(id: $cartId) { totalItems } }",
		OperationName: "GetCartById",
		Variables:     map[string]any{"cartId": "54i3c31"},
	}, &data)
	if err != nil {
		t.Fatalf("do: %v", err)
	}

	if capturedURL != "http://commerce.test/graphql" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedContentType != "application/json" {
		t.Fatalf("unexpected content type %q", capturedContentType)
	}
	if capturedBody["operationName"] != "GetCartById" {
		t.Fatalf("unexpected operationName %v", capturedBody["operationName"])
	}
	vars, ok := capturedBody["variables"].(map[string]any)
	if !ok || vars["cartId"] != "54i3c31" {
		t.Fatalf("unexpected variables %v", capturedBody["variables"])
	}
	if data.Cart.TotalItems != 3 {
		t.Fatalf("unexpected totalItems %d", data.Cart.TotalItems)
	}
}

func TestDoMapsNonSuccessStatus(t *testing.T) {
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `upstream exploded`), nil
	})
	client, err := NewClient("http://commerce.test/graphql", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Do(context.Background(), Request{Query: "query { cart { totalItems } }"}, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestDoMapsGraphQLErrors(t *testing.T) {
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":null,"errors":[{"message":"cart not resolvable"}]}`), nil
	})
	client, err := NewClient("http://commerce.test/graphql", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Do(context.Background(), Request{Query: "query { cart { totalItems } }"}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected error details, got %v", typed.Details())
	}
	messages, ok := details["errors"].([]string)
	if !ok || len(messages) != 1 || messages[0] != "cart not resolvable" {
		t.Fatalf("unexpected error messages %v", details["errors"])
	}
}

func TestDoRejectsMissingData(t *testing.T) {
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{}`), nil
	})
	client, err := NewClient("http://commerce.test/graphql", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Do(context.Background(), Request{Query: "query { cart { totalItems } }"}, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeBadUpstream) {
		t.Fatalf("expected bad upstream error, got %v", err)
	}
}

func TestDoRejectsMalformedJSON(t *testing.T) {
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data": <not json>`), nil
	})
	client, err := NewClient("http://commerce.test/graphql", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Do(context.Background(), Request{Query: "query { cart { totalItems } }"}, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeBadUpstream) {
		t.Fatalf("expected bad upstream error, got %v", err)
	}
}

func TestDoRequiresQuery(t *testing.T) {
	client, err := NewClient("http://commerce.test/graphql")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = client.Do(context.Background(), Request{}, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	if _, err := NewClient("   "); err == nil {
		t.Fatalf("expected error for blank endpoint")
	}
}

package overpass

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	pkgerrors "github.com/drivemap/drivemap-backend/pkg/errors"
)

func TestClientExecuteRequest(t *testing.T) {
	const expectedURL = "http://overpass.test/api/interpreter"
	respBody := `{"elements":[{"type":"node","id":123456,"lat":42.6977,"lon":23.3219,"tags":{"amenity":"fuel","name":"Demo Fuel"}}]}`

	var capturedURL string
	var capturedContentType string
	var capturedBody string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedContentType = req.Header.Get("Content-Type")

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		capturedBody = string(bodyBytes)

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	httpClient := &http.Client{Transport: rt}
	client := NewClient(WithBaseURL("http://overpass.test/api/interpreter"), WithHTTPClient(httpClient))

	elements, err := client.Execute(context.Background(), CarRelatedBusinesses("bg", 0))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", capturedContentType)
	}
	if !strings.HasPrefix(capturedBody, "data=") {
		t.Fatalf("expected form-encoded body, got %q", capturedBody)
	}
	decoded, err := url.QueryUnescape(strings.TrimPrefix(capturedBody, "data="))
	if err != nil {
		t.Fatalf("unescape body: %v", err)
	}
	if !strings.Contains(decoded, `area["ISO3166-1"="BG"][admin_level=2]`) {
		t.Fatalf("query missing country filter: %q", decoded)
	}
	if !strings.Contains(decoded, `node["service"="vehicle_inspection"]`) {
		t.Fatalf("query missing inspection selector: %q", decoded)
	}

	if len(elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(elements))
	}
	el := elements[0]
	if el.ID != 123456 || el.Type != "node" {
		t.Fatalf("unexpected element %+v", el)
	}
	if !el.HasCoordinates() {
		t.Fatal("expected element to carry coordinates")
	}
	if el.Tags["amenity"] != "fuel" {
		t.Fatalf("unexpected tags %+v", el.Tags)
	}
}

func TestClientExecuteEmptyResultIsNotAnError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"elements":[]}`)),
			Header:     http.Header{},
		}, nil
	})

	client := NewClient(WithBaseURL("http://overpass.test"), WithHTTPClient(&http.Client{Transport: rt}))
	elements, err := client.Execute(context.Background(), CarRelatedBusinesses("BG", 0))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(elements) != 0 {
		t.Fatalf("expected no elements, got %d", len(elements))
	}
}

func TestClientExecuteUpstreamFailure(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusGatewayTimeout,
			Body:       io.NopCloser(strings.NewReader("runtime error: query timed out")),
			Header:     http.Header{},
		}, nil
	})

	client := NewClient(WithBaseURL("http://overpass.test"), WithHTTPClient(&http.Client{Transport: rt}))
	_, err := client.Execute(context.Background(), CarRelatedBusinesses("BG", 0))
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}

	coded := pkgerrors.As(err)
	if coded == nil {
		t.Fatalf("expected coded error, got %T", err)
	}
	if coded.Code() != pkgerrors.CodeUpstream {
		t.Fatalf("unexpected code %q", coded.Code())
	}
}

func TestClientExecuteRejectsEmptyQuery(t *testing.T) {
	client := NewClient()
	_, err := client.Execute(context.Background(), Query{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	coded := pkgerrors.As(err)
	if coded == nil {
		t.Fatalf("expected coded error, got %T", err)
	}
	if coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected code %q", coded.Code())
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

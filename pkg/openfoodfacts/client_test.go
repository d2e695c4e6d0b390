package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestFetchPageBuildsSearchQuery(t *testing.T) {
	var captured *http.Request
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		return respond(http.StatusOK, `{"count":2,"products":[{"product_name":"Leche","nutriments":{"proteins_100g":3.2}},{"product_name":"Pan"}]}`), nil
	})

	client := NewClient(
		WithBaseURL("http://off.test/"),
		WithHTTPClient(&http.Client{Transport: rt}),
		WithUserAgent("test-agent"),
	)
	products, err := client.FetchPage(context.Background(), 3, 25)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "Leche", products[0]["product_name"])

	nutriments, ok := products[0]["nutriments"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, json.Number("3.2"), nutriments["proteins_100g"])

	require.Equal(t, "off.test", captured.URL.Host)
	require.Equal(t, "/cgi/search.pl", captured.URL.Path)
	q := captured.URL.Query()
	require.Equal(t, "3", q.Get("page"))
	require.Equal(t, "25", q.Get("page_size"))
	require.Equal(t, "unique_scans_n", q.Get("sort_by"))
	require.Equal(t, "countries", q.Get("tagtype_0"))
	require.Equal(t, "contains", q.Get("tag_contains_0"))
	require.Equal(t, DefaultCountry, q.Get("tag_0"))
	require.Equal(t, "1", q.Get("json"))
	require.Equal(t, "test-agent", captured.Header.Get("User-Agent"))
}

func TestFetchPageMissingProductsIsEmpty(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"count":0}`), nil
	})
	client := NewClient(WithHTTPClient(&http.Client{Transport: rt}))

	products, err := client.FetchPage(context.Background(), 1, 50)
	require.NoError(t, err)
	require.NotNil(t, products)
	require.Empty(t, products)
}

func TestFetchPageErrors(t *testing.T) {
	cases := []struct {
		name string
		rt   roundTripFunc
	}{
		{"status", func(*http.Request) (*http.Response, error) {
			return respond(http.StatusServiceUnavailable, "busy"), nil
		}},
		{"transport", func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection reset")
		}},
		{"decode", func(*http.Request) (*http.Response, error) {
			return respond(http.StatusOK, "<html>"), nil
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := NewClient(WithHTTPClient(&http.Client{Transport: tc.rt}))
			_, err := client.FetchPage(context.Background(), 1, 50)
			require.Error(t, err)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
		})
	}
}

func TestFetchPageRejectsInvalidPaging(t *testing.T) {
	client := NewClient()
	_, err := client.FetchPage(context.Background(), 0, 50)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRequestIntervalHonorsContext(t *testing.T) {
	calls := 0
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return respond(http.StatusOK, `{"products":[]}`), nil
	})
	client := NewClient(
		WithHTTPClient(&http.Client{Transport: rt}),
		WithRequestInterval(time.Hour),
	)

	_, err := client.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.FetchPage(ctx, 2, 10)
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/samber/oops"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	"github.com/oksasatya/brew-catalog-api/internal/domain/repository"
)

// NewESClient creates an Elasticsearch client with sane defaults and optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// searchFields are boosted so a name hit outranks a description hit.
var searchFields = []string{"name^3", "tagline^2", "brewers_tips", "description"}

const requestTimeout = 3 * time.Second

// BeerIndex keeps a copy of every beer in one Elasticsearch index.
type BeerIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewBeerIndex(es *elasticsearch.Client, index string) *BeerIndex {
	if index == "" {
		index = "beers"
	}
	return &BeerIndex{es: es, index: index}
}

func (x *BeerIndex) Index(ctx context.Context, b *entity.Beer) error {
	body, err := json.Marshal(b)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: b.ID, Body: bytes.NewReader(body), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return oops.With("operation", "index beer").With("beer_id", b.ID).Wrap(err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return oops.Code("ES_INDEX_FAILED").With("beer_id", b.ID).Errorf("index beer: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match query and returns the stored documents in score order.
func (x *BeerIndex) Search(ctx context.Context, q string, size int) ([]entity.Beer, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": searchFields,
			},
		},
		"size": size,
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, oops.With("operation", "search beers").Wrap(err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, oops.Code("ES_SEARCH_FAILED").Errorf("search beers: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.Beer `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, oops.With("operation", "decode search response").Wrap(err)
	}

	out := make([]entity.Beer, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

var _ repository.BeerIndex = (*BeerIndex)(nil)

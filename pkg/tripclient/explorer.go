package tripclient

import (
	"context"
	"strings"
	"sync"

	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/models/response_models"
)

const DefaultExploreCount = 12

// Explorer shows random attractions until a search term is entered, and the
// search results after that. Late responses are dropped like in TripsHandle.
type Explorer struct {
	client *Client
	count  int

	mu      sync.Mutex
	term    string
	results []response_models.FormattedAttraction
	loading int
	issued  uint64
	applied uint64
}

func NewExplorer(client *Client) *Explorer {
	return &Explorer{client: client, count: DefaultExploreCount}
}

func (e *Explorer) SetTerm(term string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.term = strings.TrimSpace(term)
}

func (e *Explorer) Term() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.term
}

func (e *Explorer) Results() []response_models.FormattedAttraction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.results
}

func (e *Explorer) IsLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading > 0
}

func (e *Explorer) Load(ctx context.Context) ([]response_models.FormattedAttraction, error) {
	e.mu.Lock()
	e.issued++
	gen := e.issued
	term := e.term
	e.loading++
	e.mu.Unlock()

	var (
		results []response_models.FormattedAttraction
		err     error
	)
	if term == "" {
		results, err = e.client.RandomAttractions(ctx, e.count)
	} else {
		results, err = e.client.SearchAttractions(ctx, request_models.SearchAttractionsQuery{Term: term, Page: 1})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading--

	if err != nil {
		return nil, err
	}
	if gen > e.applied {
		e.applied = gen
		e.results = results
	}
	return e.results, nil
}

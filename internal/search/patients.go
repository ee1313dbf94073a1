package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/moham3d/clinic-records/internal/models"
)

const DefaultPatientIndex = "patients"

// PatientIndex mirrors patients into Elasticsearch for fuzzy lookup by
// name or MRN. A nil client turns every call into a no-op.
type PatientIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewPatientIndex(es *elasticsearch.Client, index string) *PatientIndex {
	if index == "" {
		index = DefaultPatientIndex
	}
	return &PatientIndex{ES: es, Index: index}
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("search: create client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("search: ping cluster: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: cluster error: %s", res.Status())
	}

	return client, nil
}

func (i *PatientIndex) IndexPatient(ctx context.Context, p *models.Patient) error {
	if i == nil || i.ES == nil {
		return nil
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("search: marshal patient: %w", err)
	}

	res, err := i.ES.Index(
		i.Index,
		bytes.NewReader(body),
		i.ES.Index.WithContext(ctx),
		i.ES.Index.WithDocumentID(p.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("search: index patient: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index patient: %s", res.Status())
	}
	return nil
}

func (i *PatientIndex) RemovePatient(ctx context.Context, id string) error {
	if i == nil || i.ES == nil {
		return nil
	}

	res, err := i.ES.Delete(i.Index, id, i.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: remove patient: %w", err)
	}
	defer res.Body.Close()
	return nil
}

func (i *PatientIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Patient, error) {
	if i == nil || i.ES == nil {
		return 0, nil, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"first_name^2", "last_name^2", "mrn"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Index),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: query: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Patient `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	patients := make([]models.Patient, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		patients[n] = hit.Source
	}
	return r.Hits.Total.Value, patients, nil
}

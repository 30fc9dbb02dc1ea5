// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
)

// Indexer writes a batch of encoded documents to an index.
type Indexer interface {
	BulkIndex(ctx context.Context, index string, docs []json.RawMessage) error
}

// ClientIndexer is an Indexer backed by the Elasticsearch bulk API.
type ClientIndexer struct {
	es *elasticsearch.Client
}

// NewClientIndexer connects to the given cluster addresses.
func NewClientIndexer(cfg Config) (*ClientIndexer, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ClientIndexer{es: es}, nil
}

// bulkResponse is the part of a bulk API response that reports per-item
// failures.
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// BulkIndex sends docs in one bulk request. A response that reports item
// failures is an error naming the first failure.
func (c *ClientIndexer) BulkIndex(ctx context.Context, index string, docs []json.RawMessage) error {
	var buf bytes.Buffer
	for _, d := range docs {
		buf.WriteString(`{"index":{}}`)
		buf.WriteByte('\n')
		buf.Write(d)
		buf.WriteByte('\n')
	}

	res, err := c.es.Bulk(
		bytes.NewReader(buf.Bytes()),
		c.es.Bulk.WithIndex(index),
		c.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error bulk indexing: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index error: %s", res.String())
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("error reading bulk response: %w", err)
	}
	var br bulkResponse
	if err := json.Unmarshal(body, &br); err != nil {
		return fmt.Errorf("error decoding bulk response: %w", err)
	}
	if !br.Errors {
		return nil
	}
	failed := 0
	var first string
	for _, item := range br.Items {
		for _, r := range item {
			if r.Status < 300 {
				continue
			}
			if failed == 0 {
				first = fmt.Sprintf("%s: %s", r.Error.Type, r.Error.Reason)
			}
			failed++
		}
	}
	return fmt.Errorf("bulk index rejected %d of %d documents, first: %s", failed, len(docs), first)
}

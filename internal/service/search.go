package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/CernunnosYQ/blogfolio/internal/models"
)

// SearchBlogposts runs a fuzzy multi-field query against the blogpost
// index and returns the total hit count with one page of results.
func SearchBlogposts(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Blogpost, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "preview", "content"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search blogposts: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search blogposts: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Blogpost `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	posts := make([]models.Blogpost, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		posts[i] = hit.Source
	}
	return r.Hits.Total.Value, posts, nil
}

// IndexBlogpost writes the post document into the search index.
func IndexBlogpost(ctx context.Context, es *elasticsearch.Client, index string, post *models.Blogpost) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("encode blogpost document: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(post.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index blogpost: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index blogpost: %s", res.Status())
	}
	return nil
}

// DeleteBlogpostIndex removes the post document from the search index.
func DeleteBlogpostIndex(ctx context.Context, es *elasticsearch.Client, index string, id uint) error {
	res, err := es.Delete(
		index,
		strconv.FormatUint(uint64(id), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete blogpost document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete blogpost document: %s", res.Status())
	}
	return nil
}

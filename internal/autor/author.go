package autor

import (
	"context"
	"encoding/json"
	"fmt"
)

// Author is the typed view of the resource served at AuthorPath.
type Author struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	BirthYear int    `json:"birth_year"`
	Country   string `json:"country"`
}

func (a Author) String() string {
	return fmt.Sprintf("Author: %s (ID: %d)", a.Name, a.ID)
}

func (c *autorClient) FetchAuthor(ctx context.Context) (any, error) {
	resp, err := c.httpClient.Get(ctx, AuthorPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchAuthor, err)
	}

	if resp.IsErrorStatus() {
		return nil, ErrFetchAuthor
	}

	var author any
	if err := parseJSON(resp.Body, &author); err != nil {
		return nil, fmt.Errorf("decode author: %w", err)
	}

	return author, nil
}

// DecodeAuthors converts a decoded payload, either a single object or an
// array of objects, into typed authors.
func DecodeAuthors(value any) ([]Author, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	switch value.(type) {
	case map[string]any:
		var author Author
		if err := json.Unmarshal(data, &author); err != nil {
			return nil, fmt.Errorf("decode author: %w", err)
		}
		return []Author{author}, nil
	case []any:
		var authors []Author
		if err := json.Unmarshal(data, &authors); err != nil {
			return nil, fmt.Errorf("decode authors: %w", err)
		}
		return authors, nil
	default:
		return nil, fmt.Errorf("unexpected author payload of type %T", value)
	}
}
